package api

import (
	"context"
	"net/url"
	"strings"
	"time"

	"ow2stats/internal/config"
	"ow2stats/internal/constants"
	"ow2stats/internal/domain"
	"ow2stats/internal/maps"

	"github.com/valyala/fasthttp"
)

type StatsClient struct {
	baseURL string
	timeout time.Duration
	client  *fasthttp.Client
}

func NewStatsClient(cfg *config.Config) *StatsClient {
	return &StatsClient{
		baseURL: cfg.BaseURL,
		timeout: cfg.TimeoutDuration(),
		client:  newHTTPClient(cfg.TimeoutDuration()),
	}
}

// RankedFlag is the "rq" parameter: "1" for competitive, "0" otherwise.
func RankedFlag(gamemode string) string {
	if strings.EqualFold(strings.TrimSpace(gamemode), constants.Competitive) {
		return "1"
	}
	return "0"
}

func (c *StatsClient) BuildURL(conf domain.Configuration) string {
	params := url.Values{}
	params.Set("input", conf.Platform)
	params.Set("map", maps.Token(conf.Map))
	params.Set("region", conf.Region)
	params.Set("role", constants.AllRoles)
	params.Set("rq", RankedFlag(conf.Gamemode))
	params.Set("tier", conf.Tier)

	// Encode sorts by key, which is the order the endpoint documents
	return c.baseURL + "?" + params.Encode()
}

func (c *StatsClient) GetRates(ctx context.Context, conf domain.Configuration) (*StatsEnvelope, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.BuildURL(conf))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := do(ctx, c.client, req, resp, c.timeout); err != nil {
		return nil, err
	}

	return DecodeEnvelope(resp.Body())
}
