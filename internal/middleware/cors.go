package middleware

import (
	"net/http"

	"github.com/questx-lab/challenge/config"
	"github.com/rs/cors"
)

func AllowCors(cfg config.APIServerConfigs, handler http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		AllowCredentials: true,
	}).Handler(handler)
}
