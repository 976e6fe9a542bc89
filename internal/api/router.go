package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"maps-extended-service/internal/api/handlers"
	"maps-extended-service/internal/sdkloader"
	"maps-extended-service/internal/services/directions"
	"maps-extended-service/internal/services/distances"
	"maps-extended-service/internal/services/placelookup"
	"maps-extended-service/internal/services/storelocator"
)

// Deps are the services the HTTP surface is built on.
type Deps struct {
	Loader     *sdkloader.Loader
	Measurer   *distances.Measurer
	Directions *directions.Controller
	Places     *placelookup.Lookup
	Locator    *storelocator.Locator
	Log        logrus.FieldLogger
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	handlers.SetLogger(log)

	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Loader: d.Loader}
	distanceHandler := &handlers.DistanceHandler{Measurer: d.Measurer.ForConsumer("distances-api")}
	directionsHandler := &handlers.DirectionsHandler{Controller: d.Directions.ForConsumer("directions-api")}
	placeHandler := &handlers.PlaceHandler{Places: d.Places, Directions: d.Directions, Now: d.Now}
	locationHandler := &handlers.LocationHandler{Locator: d.Locator}

	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("POST /distances", distanceHandler.Compute)
	mux.HandleFunc("POST /directions", directionsHandler.Route)
	mux.HandleFunc("GET /places/{id}/opening-hours", placeHandler.OpeningHours)
	mux.HandleFunc("GET /places/{id}/distance", placeHandler.Distance)
	mux.HandleFunc("GET /locations", locationHandler.List)
	mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(log, mux)
}
