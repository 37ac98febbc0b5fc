package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/foodcourt/token-service/internal/cache"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, map[string]any{"success": true, "data": data})
}

func respondList(w http.ResponseWriter, source cache.Source, count int, data any) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"source":  source,
		"count":   count,
		"data":    data,
	})
}

func respondMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": true, "message": msg})
}

func respondError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "message": msg})
}
