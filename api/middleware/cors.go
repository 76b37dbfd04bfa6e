package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/fooddrop-app/fooddrop-backend/pkg/config"
)

// CORS applies the credentialed origin policy required by the Vite frontend,
// which sends the auth cookie on every request.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
