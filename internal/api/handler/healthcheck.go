package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/vfg2006/nightclub-pos-api/pkg/log"
)

const healthcheckTimeout = 2 * time.Second

// Pinger é qualquer dependência que sabe responder se está no ar
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthcheckHandler responde 200 quando todas as dependências respondem ao ping, 503 caso contrário
func HealthcheckHandler(checks map[string]Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthcheckTimeout)
		defer cancel()

		status := http.StatusOK
		components := make(map[string]string, len(checks))
		for name, pinger := range checks {
			if err := pinger.Ping(ctx); err != nil {
				log.ForContext(r.Context()).WithError(err).WithField("component", name).Warn("healthcheck: dependência indisponível")
				components[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			components[name] = "up"
		}

		writeJSON(r.Context(), w, status, map[string]any{
			"time":       time.Now().Format(time.RFC3339),
			"components": components,
		})
	})
}
