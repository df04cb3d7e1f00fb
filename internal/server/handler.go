package server

import (
	"net/http"

	"ow2stats/internal/middleware"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func NewHandler(s *HeroServer, logger zerolog.Logger) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	return middleware.RequestID(logger)(c.Handler(s.Routes()))
}
