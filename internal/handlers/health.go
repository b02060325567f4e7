// internal/handlers/health.go
package handlers

import (
	"encoding/json"
	"net/http"
)

// HealthHandler answers liveness probes.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
