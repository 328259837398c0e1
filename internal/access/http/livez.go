package http

import (
	"net/http"
	"time"

	"github.com/michat/michat/pkg/httpx"
)

// LivezHandler answers the liveness probe. It returns 200 whenever the
// process is up, with uptime and version for operators.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
