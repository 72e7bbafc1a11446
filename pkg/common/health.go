package common

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// checkTimeout bounds each dependency check so a stuck dependency
// cannot hang the health endpoint.
const checkTimeout = 2 * time.Second

// Check reports whether a dependency is reachable
type Check func(ctx context.Context) error

// HealthStatus is the health endpoint payload
type HealthStatus struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthCheck returns a handler reporting service health. Every check
// runs with its own deadline; any failure flips the endpoint to 503.
func HealthCheck(serviceName, version string, checks map[string]Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := HealthStatus{
			Status:  "healthy",
			Service: serviceName,
			Version: version,
		}
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}

		for name, check := range checks {
			ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
			err := check(ctx)
			cancel()

			if err != nil {
				resp.Checks[name] = "unhealthy: " + err.Error()
				resp.Status = "unhealthy"
			} else {
				resp.Checks[name] = "healthy"
			}
		}

		code := http.StatusOK
		if resp.Status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	}
}
