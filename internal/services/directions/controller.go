// Package directions fetches routes between waypoints and derives the travel
// distance shown for a place.
package directions

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"maps-extended-service/internal/domain"
	"maps-extended-service/internal/platform/logging"
	"maps-extended-service/internal/platform/obs"
	"maps-extended-service/internal/platform/requestcache"
	"maps-extended-service/internal/ports"
)

const CacheSize = 10

type state struct {
	mu      sync.Mutex
	cache   *requestcache.Cache[*domain.DirectionsResult]
	service ports.DirectionsService
}

func newCache() *requestcache.Cache[*domain.DirectionsResult] {
	return requestcache.New[*domain.DirectionsResult]("directions", CacheSize, domain.IsTransient)
}

// Controller routes directions requests through a shared request cache and a
// lazily created directions service.
type Controller struct {
	importer ports.LibraryImporter
	consumer string
	log      logrus.FieldLogger
	shared   *state
}

func NewController(importer ports.LibraryImporter, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		importer: importer,
		log:      log,
		shared:   &state{cache: newCache()},
	}
}

// ForConsumer returns a Controller sharing c's cache and service that names
// consumer in diagnostics.
func (c *Controller) ForConsumer(consumer string) *Controller {
	return &Controller{importer: c.importer, consumer: consumer, log: c.log, shared: c.shared}
}

// Route returns directions for req. Failures are logged against the consumer
// and returned; the result is nil in that case.
func (c *Controller) Route(ctx context.Context, req domain.DirectionsRequest) (_ *domain.DirectionsResult, err error) {
	defer obs.Time(ctx, "directions_route")(&err)

	res, err := c.route(ctx, req)
	if err != nil {
		logging.ForConsumer(c.log, c.consumer).WithError(err).Warn("directions request failed")
		return nil, fmt.Errorf("route: %w", err)
	}
	return res, nil
}

// route resolves the service before consulting the cache, so an unavailable
// SDK fails this call without being cached.
func (c *Controller) route(ctx context.Context, req domain.DirectionsRequest) (*domain.DirectionsResult, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	c.shared.mu.Lock()
	cache := c.shared.cache
	c.shared.mu.Unlock()

	return cache.Do(ctx, req, func(ctx context.Context) (*domain.DirectionsResult, error) {
		return svc.Route(ctx, req)
	})
}

func (c *Controller) service(ctx context.Context) (ports.DirectionsService, error) {
	c.shared.mu.Lock()
	svc := c.shared.service
	c.shared.mu.Unlock()
	if svc != nil {
		return svc, nil
	}

	lib, err := c.importer.ImportLibrary(ctx, ports.LibraryRoutes, c.consumer)
	if err != nil {
		return nil, err
	}
	routes, ok := lib.(ports.RoutesLibrary)
	if !ok {
		return nil, fmt.Errorf("unexpected routes library %T", lib)
	}

	c.shared.mu.Lock()
	defer c.shared.mu.Unlock()
	if c.shared.service == nil {
		c.shared.service = routes.NewDirectionsService()
	}
	return c.shared.service, nil
}

// Reset drops cached results and the service handle.
func (c *Controller) Reset() {
	c.shared.mu.Lock()
	defer c.shared.mu.Unlock()
	c.shared.service = nil
	c.shared.cache = newCache()
}
