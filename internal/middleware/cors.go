package middleware

import (
	"net/http"

	"family-backend/internal/config"

	"github.com/rs/cors"
)

// NewCORS builds the CORS wrapper from config. The mobile/web client runs on
// a different origin than the API, so this is required, not cosmetic.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler
}
