package controllers

import (
	"net/http"

	"github.com/craftline/craftline-backend/api/responses"
	"github.com/craftline/craftline-backend/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Craftline-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}
