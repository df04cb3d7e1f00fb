package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ow2stats/internal/constants"
	"ow2stats/internal/domain"
	"ow2stats/internal/repository"

	"github.com/rs/zerolog"
)

const maxBodyBytes = 10 << 20

type HeroServer struct {
	repo   *repository.HeroStatsRepository
	db     *sql.DB
	logger zerolog.Logger
	now    func() time.Time
}

func NewHeroServer(repo *repository.HeroStatsRepository, db *sql.DB, logger zerolog.Logger) *HeroServer {
	return &HeroServer{repo: repo, db: db, logger: logger, now: time.Now}
}

func (s *HeroServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/test", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("api routes working"))
	})
	mux.HandleFunc("GET /api/v1/heroes", s.listHeroes)
	mux.HandleFunc("POST /api/v1/heroes", s.createHero)
	mux.HandleFunc("POST /api/v1/heroes/batch", s.batchUpload)
	mux.HandleFunc("GET /api/v1/hero/{id}", s.getHero)
	mux.HandleFunc("DELETE /api/v1/hero/{id}", s.deleteHero)
	mux.HandleFunc("GET /ping", s.ping)
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /ready", s.ready)
	return mux
}

type batchResponse struct {
	Message        string                `json:"message"`
	TotalSubmitted int                   `json:"total_submitted"`
	Successful     int                   `json:"successful"`
	Errors         []repository.RowError `json:"errors"`
}

func (s *HeroServer) batchUpload(w http.ResponseWriter, r *http.Request) {
	var records []domain.HeroStatsUpload
	if err := decodeBody(w, r, &records); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if len(records) == 0 {
		writeError(w, r, http.StatusBadRequest, "No heroes provided")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constants.RequestTimeout)
	defer cancel()

	zerolog.Ctx(ctx).Info().Int("count", len(records)).Msg("batch uploading heroes")

	result, err := s.repo.UpsertBatch(ctx, records, s.now())
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(records)).Msg("batch upload failed")
		writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	errs := result.Errors
	if errs == nil {
		errs = []repository.RowError{}
	}
	writeJSON(w, r, http.StatusOK, batchResponse{
		Message:        "Batch upload completed",
		TotalSubmitted: result.Submitted,
		Successful:     result.Successful,
		Errors:         errs,
	})
}

func (s *HeroServer) createHero(w http.ResponseWriter, r *http.Request) {
	var record domain.HeroStatsUpload
	if err := decodeBody(w, r, &record); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constants.DatabaseTimeout)
	defer cancel()

	zerolog.Ctx(ctx).Info().Str("hero_id", record.HeroID).Msg("creating hero stat")

	stat, err := s.repo.Create(ctx, record, s.now())
	switch {
	case errors.Is(err, repository.ErrInvalidRow):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case err != nil:
		s.logger.Error().Err(err).Str("hero_id", record.HeroID).Msg("failed to create hero stat")
		writeError(w, r, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, r, http.StatusCreated, stat)
	}
}

func (s *HeroServer) listHeroes(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constants.DatabaseTimeout)
	defer cancel()

	stats, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list hero stats")
		writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *HeroServer) getHero(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.DatabaseTimeout)
	defer cancel()

	stat, err := s.repo.Get(ctx, r.PathValue("id"))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Hero not found")
	case err != nil:
		s.logger.Error().Err(err).Str("id", r.PathValue("id")).Msg("failed to get hero stat")
		writeError(w, r, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, r, http.StatusOK, stat)
	}
}

func (s *HeroServer) deleteHero(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.DatabaseTimeout)
	defer cancel()

	err := s.repo.Delete(ctx, r.PathValue("id"))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Hero not found")
	case err != nil:
		s.logger.Error().Err(err).Str("id", r.PathValue("id")).Msg("failed to delete hero stat")
		writeError(w, r, http.StatusInternalServerError, "Internal server error")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func parseFilter(r *http.Request) (repository.Filter, error) {
	q := r.URL.Query()
	f := repository.Filter{
		HeroID:   q.Get("hero_id"),
		Region:   q.Get("region"),
		Platform: q.Get("platform"),
		Gamemode: q.Get("gamemode"),
		Map:      q.Get("map"),
		Tier:     q.Get("tier"),
	}

	for _, p := range []struct {
		key string
		dst **time.Time
	}{
		{"start_time", &f.Start},
		{"end_time", &f.End},
	} {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, fmt.Errorf("invalid %s: %q", p.key, v)
		}
		*p.dst = &t
	}

	switch orderBy := q.Get("order_by"); orderBy {
	case "", "pick_rate", "win_rate", "inserted_at":
		f.OrderBy = orderBy
	default:
		return f, fmt.Errorf("invalid order_by: %q", orderBy)
	}

	switch order := strings.ToLower(q.Get("order")); order {
	case "", "asc":
	case "desc":
		f.Desc = true
	default:
		return f, fmt.Errorf("invalid order: %q", order)
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return f, fmt.Errorf("invalid limit: %q", v)
		}
		f.Limit = limit
	}

	return f, nil
}
