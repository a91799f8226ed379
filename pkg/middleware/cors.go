package middleware

import (
	"net/http"

	"streaming-catalog/pkg/utils"

	"github.com/go-chi/cors"
)

// CORS allows the configured frontend origins to call the API with bearer tokens.
func CORS(config utils.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
