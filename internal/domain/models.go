package domain

import (
	"time"
)

// Configuration is one combination of the swept dimensions.
type Configuration struct {
	Platform string
	Region   string
	Gamemode string
	Map      string
	Tier     string
}

// HeroStatsUpload is the record sent to the backend. Categorical fields are
// lower-cased.
type HeroStatsUpload struct {
	HeroID   string  `json:"hero_id"`
	PickRate float64 `json:"pick_rate"`
	WinRate  float64 `json:"win_rate"`
	Region   string  `json:"region"`
	Platform string  `json:"platform"`
	Gamemode string  `json:"gamemode"`
	Map      string  `json:"map"`
	MapType  string  `json:"map_type"`
	Tier     string  `json:"tier"`
}

type HeroStat struct {
	ID         string    `json:"id"` // nanoid
	HeroID     string    `json:"hero_id"`
	PickRate   float64   `json:"pick_rate"`
	WinRate    float64   `json:"win_rate"`
	Region     string    `json:"region"`
	Platform   string    `json:"platform"`
	Gamemode   string    `json:"gamemode"`
	Map        string    `json:"map"`
	MapType    string    `json:"map_type"`
	Tier       string    `json:"tier"`
	CapturedOn string    `json:"captured_on"` // YYYY-MM-DD, UTC
	InsertedAt time.Time `json:"inserted_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
