package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ow2stats/internal/constants"
	"ow2stats/internal/domain"

	"dario.cat/mergo"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound   = errors.New("hero stat not found")
	ErrInvalidRow = errors.New("invalid hero stat")
)

const heroStatColumns = `id, hero_id, pick_rate, win_rate, region, platform, gamemode, map, map_type, tier, captured_on, inserted_at, updated_at`

const upsertHeroStat = `
INSERT INTO hero_stats (` + heroStatColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (hero_id, region, platform, gamemode, map, tier, captured_on)
DO UPDATE SET
	pick_rate = excluded.pick_rate,
	win_rate = excluded.win_rate,
	map_type = excluded.map_type,
	updated_at = excluded.updated_at`

type RowError struct {
	Index  int    `json:"index"`
	HeroID string `json:"hero_id"`
	Error  string `json:"error"`
}

type BatchResult struct {
	Submitted  int
	Successful int
	Errors     []RowError
}

type Filter struct {
	HeroID   string
	Region   string
	Platform string
	Gamemode string
	Map      string
	Tier     string
	Start    *time.Time
	End      *time.Time
	OrderBy  string // pick_rate, win_rate or inserted_at
	Desc     bool
	Limit    int
}

// defaultFilter fills the paging fields a caller left unset.
var defaultFilter = Filter{
	OrderBy: "inserted_at",
	Limit:   constants.DefaultQueryLimit,
}

var orderColumns = map[string]string{
	"pick_rate":   "pick_rate",
	"win_rate":    "win_rate",
	"inserted_at": "inserted_at",
}

type HeroStatsRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewHeroStatsRepository(sqlDB *sql.DB, logger zerolog.Logger) *HeroStatsRepository {
	return &HeroStatsRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// UpsertBatch stores every valid record in one transaction. Invalid rows and
// rows the database rejects are reported in the result without failing the
// batch.
func (r *HeroStatsRepository) UpsertBatch(ctx context.Context, records []domain.HeroStatsUpload, now time.Time) (BatchResult, error) {
	result := BatchResult{Submitted: len(records)}
	if len(records) == 0 {
		return result, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertHeroStat)
	if err != nil {
		return result, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i, record := range records {
		if err := r.upsert(ctx, stmt, record, now); err != nil {
			r.logger.Debug().Err(err).Int("index", i).Str("hero_id", record.HeroID).Msg("hero stat rejected")
			result.Errors = append(result.Errors, RowError{Index: i, HeroID: record.HeroID, Error: err.Error()})
			continue
		}
		result.Successful++
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit batch: %w", err)
	}

	r.logger.Info().
		Int("submitted", result.Submitted).
		Int("successful", result.Successful).
		Int("errors", len(result.Errors)).
		Msg("hero stats batch stored")
	return result, nil
}

func (r *HeroStatsRepository) Create(ctx context.Context, record domain.HeroStatsUpload, now time.Time) (*domain.HeroStat, error) {
	stmt, err := r.db.PrepareContext(ctx, upsertHeroStat)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	if err := r.upsert(ctx, stmt, record, now); err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+heroStatColumns+` FROM hero_stats
		WHERE hero_id = ? AND region = ? AND platform = ? AND gamemode = ? AND map = ? AND tier = ? AND captured_on = ?`,
		record.HeroID, record.Region, record.Platform, record.Gamemode, record.Map, record.Tier, capturedOn(now))
	return scanHeroStat(row)
}

func (r *HeroStatsRepository) Get(ctx context.Context, id string) (*domain.HeroStat, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+heroStatColumns+` FROM hero_stats WHERE id = ?`, id)
	stat, err := scanHeroStat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return stat, err
}

func (r *HeroStatsRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hero_stats WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete hero stat: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete hero stat: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *HeroStatsRepository) List(ctx context.Context, f Filter) ([]domain.HeroStat, error) {
	if f.Limit < 0 {
		f.Limit = 0
	}
	if err := mergo.Merge(&f, defaultFilter); err != nil {
		return nil, fmt.Errorf("failed to apply filter defaults: %w", err)
	}

	var (
		where []string
		args  []any
	)
	eq := func(column, value string) {
		if value != "" {
			where = append(where, column+" = ?")
			args = append(args, value)
		}
	}
	eq("hero_id", f.HeroID)
	eq("region", f.Region)
	eq("platform", f.Platform)
	eq("gamemode", f.Gamemode)
	eq("map", f.Map)
	eq("tier", f.Tier)
	if f.Start != nil {
		where = append(where, "inserted_at >= ?")
		args = append(args, f.Start.UTC())
	}
	if f.End != nil {
		where = append(where, "inserted_at < ?")
		args = append(args, f.End.UTC())
	}

	var q strings.Builder
	q.WriteString(`SELECT ` + heroStatColumns + ` FROM hero_stats`)
	if len(where) > 0 {
		q.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	column, ok := orderColumns[f.OrderBy]
	if !ok {
		return nil, fmt.Errorf("unsupported order column %q", f.OrderBy)
	}
	q.WriteString(" ORDER BY " + column)
	if f.Desc {
		q.WriteString(" DESC")
	} else {
		q.WriteString(" ASC")
	}

	q.WriteString(" LIMIT ?")
	args = append(args, min(f.Limit, constants.MaxQueryLimit))

	rows, err := r.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query hero stats: %w", err)
	}
	defer rows.Close()

	stats := []domain.HeroStat{}
	for rows.Next() {
		stat, err := scanHeroStat(rows)
		if err != nil {
			return nil, err
		}
		stats = append(stats, *stat)
	}
	return stats, rows.Err()
}

func (r *HeroStatsRepository) upsert(ctx context.Context, stmt *sql.Stmt, record domain.HeroStatsUpload, now time.Time) error {
	if err := validate(record); err != nil {
		return err
	}

	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate nanoid: %w", err)
	}

	now = now.UTC()
	_, err = stmt.ExecContext(ctx,
		id,
		record.HeroID,
		record.PickRate,
		record.WinRate,
		record.Region,
		record.Platform,
		record.Gamemode,
		record.Map,
		record.MapType,
		record.Tier,
		capturedOn(now),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert hero stat: %w", err)
	}
	return nil
}

func validate(record domain.HeroStatsUpload) error {
	if record.HeroID == "" {
		return fmt.Errorf("%w: hero_id is required", ErrInvalidRow)
	}
	if record.PickRate < 0 || record.PickRate > 100 {
		return fmt.Errorf("%w: pick_rate %v out of range", ErrInvalidRow, record.PickRate)
	}
	if record.WinRate < 0 || record.WinRate > 100 {
		return fmt.Errorf("%w: win_rate %v out of range", ErrInvalidRow, record.WinRate)
	}
	return nil
}

func capturedOn(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHeroStat(s scanner) (*domain.HeroStat, error) {
	var stat domain.HeroStat
	err := s.Scan(
		&stat.ID,
		&stat.HeroID,
		&stat.PickRate,
		&stat.WinRate,
		&stat.Region,
		&stat.Platform,
		&stat.Gamemode,
		&stat.Map,
		&stat.MapType,
		&stat.Tier,
		&stat.CapturedOn,
		&stat.InsertedAt,
		&stat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &stat, nil
}
