package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ow2stats/internal/constants"
	"ow2stats/internal/database"

	"golang.org/x/sync/errgroup"
)

const serviceName = "ow2stats-backend"

type statusResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

func (s *HeroServer) ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *HeroServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, statusResponse{
		Status:    "healthy",
		Service:   serviceName,
		Timestamp: s.now().UTC(),
	})
}

func (s *HeroServer) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.DatabaseTimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.PingContext(gCtx)
	})
	g.Go(func() error {
		version, err := database.SchemaVersion(gCtx, s.db)
		if err != nil {
			return err
		}
		if version < 1 {
			return errors.New("migrations not applied")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Msg("readiness check failed")
		writeJSON(w, r, http.StatusServiceUnavailable, statusResponse{
			Status:    "unavailable",
			Service:   serviceName,
			Timestamp: s.now().UTC(),
			Error:     err.Error(),
		})
		return
	}

	writeJSON(w, r, http.StatusOK, statusResponse{
		Status:    "ready",
		Service:   serviceName,
		Timestamp: s.now().UTC(),
	})
}
