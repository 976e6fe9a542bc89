package handlers

import (
	"net/http"

	"maps-extended-service/internal/sdkloader"
)

type HealthHandler struct {
	Loader *sdkloader.Loader
}

// Health is a liveness check. It also reports whether the maps SDK is loaded.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]any{"status": "ok"}
	if h.Loader != nil {
		res["sdk_loaded"] = h.Loader.Loaded()
	}
	writeJSON(w, r, http.StatusOK, res)
}
