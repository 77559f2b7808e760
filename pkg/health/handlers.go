package health

import (
	"encoding/json"
	"net/http"
)

// HTTPHandler serves the general report. Degraded still answers 200.
func (c *Checker) HTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := c.Check()
		code := http.StatusOK
		if response.Status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		writeResponse(w, code, response)
	}
}

// ReadinessHandler answers 200 only when every readiness probe is healthy.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return binaryHandler(c.CheckReadiness)
}

// LivenessHandler answers 200 only when every liveness probe is healthy.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return binaryHandler(c.CheckLiveness)
}

func binaryHandler(check func() Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := check()
		code := http.StatusOK
		if response.Status != StatusHealthy {
			code = http.StatusServiceUnavailable
		}
		writeResponse(w, code, response)
	}
}

func writeResponse(w http.ResponseWriter, code int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}
