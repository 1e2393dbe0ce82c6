package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/store"
	"github.com/aussiebroadwan/mindcare/pkg/httpx"
	"github.com/aussiebroadwan/mindcare/pkg/mindsdk"
)

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always 200 while the process is running.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	mindsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, mindsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	200 when the database answers a ping, 503 otherwise.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	mindsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	mindsdk.HealthResponse	"status, uptime, version, checks"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &mindsdk.HealthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "unavailable"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, mindsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
