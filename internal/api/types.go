package api

import (
	"encoding/json"
	"fmt"
)

// StatsEnvelope is the rates endpoint response. Rows are kept raw so that a
// single bad row can be skipped without rejecting the envelope.
type StatsEnvelope struct {
	Rates    []json.RawMessage `json:"rates"`
	Extrema  json.RawMessage   `json:"extrema"`
	Selected json.RawMessage   `json:"selected"`
}

type HeroRate struct {
	ID    string     `json:"id"`
	Cells *RateCells `json:"cells"`
	Hero  HeroInfo   `json:"hero"`
}

// RateCells holds percentages in [0,100].
type RateCells struct {
	PickRate float64 `json:"pickrate"`
	WinRate  float64 `json:"winrate"`
}

type HeroInfo struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Color    string `json:"color"`
	Portrait string `json:"portrait"`
}

func DecodeEnvelope(body []byte) (*StatsEnvelope, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if _, ok := fields["selected"]; !ok {
		return nil, fmt.Errorf("%w: missing \"selected\"", ErrMalformedResponse)
	}

	var env StatsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return &env, nil
}

func DecodeHeroRate(raw json.RawMessage) (HeroRate, error) {
	var rate HeroRate
	if err := json.Unmarshal(raw, &rate); err != nil {
		return HeroRate{}, fmt.Errorf("%w: %w", ErrRowConstruction, err)
	}
	if rate.ID == "" {
		return HeroRate{}, fmt.Errorf("%w: missing id", ErrRowConstruction)
	}
	if rate.Cells == nil {
		return HeroRate{}, fmt.Errorf("%w: hero %s has no cells", ErrRowConstruction, rate.ID)
	}
	return rate, nil
}
