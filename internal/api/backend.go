package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ow2stats/internal/config"
	"ow2stats/internal/constants"
	"ow2stats/internal/domain"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

type BackendClient struct {
	batchURL string
	client   *fasthttp.Client
	logger   zerolog.Logger
}

func NewBackendClient(cfg *config.Config, logger zerolog.Logger) (*BackendClient, error) {
	backendURL := strings.TrimRight(strings.TrimSpace(cfg.BackendURL), "/")
	if backendURL == "" {
		return nil, config.ErrMissingBackendURL
	}

	return &BackendClient{
		batchURL: backendURL + constants.BatchUploadPath,
		client:   newHTTPClient(constants.BackendUploadTimeout),
		logger:   logger,
	}, nil
}

func (c *BackendClient) BatchURL() string {
	return c.batchURL
}

// UploadBatch posts records as one JSON array. Failures are logged and not
// returned, so a rejected batch never stops the caller.
func (c *BackendClient) UploadBatch(ctx context.Context, records []domain.HeroStatsUpload) {
	if len(records) == 0 {
		c.logger.Debug().Msg("no stats to upload")
		return
	}

	if err := c.upload(ctx, records); err != nil {
		c.logger.Warn().
			Err(err).
			Str("url", c.batchURL).
			Int("count", len(records)).
			Interface("sample", records[0]).
			Msg("failed to upload stats to backend")
		return
	}

	c.logger.Debug().Int("count", len(records)).Str("url", c.batchURL).Msg("uploaded hero stats")
}

func (c *BackendClient) upload(ctx context.Context, records []domain.HeroStatsUpload) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.batchURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	return do(ctx, c.client, req, resp, constants.BackendUploadTimeout)
}
