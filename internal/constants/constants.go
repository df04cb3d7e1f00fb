package constants

import "time"

const (
	BackendUploadTimeout = 15 * time.Second
	BatchUploadPath      = "/api/v1/heroes/batch"
)

const (
	AllMaps      = "All"
	AllMapsToken = "all-maps"
	AllTiers     = "All"
	AllRoles     = "all"
	Competitive  = "competitive"
)

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultQueryLimit = 100
	MaxQueryLimit     = 1000
)
