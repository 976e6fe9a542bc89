// Package sdkloader loads the mapping SDK at most once per process and hands
// out its libraries. The SDK comes either from a bootstrap driven by the first
// connected configuration element or from an SDK that another integration
// published in the GlobalSlot.
package sdkloader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"maps-extended-service/internal/platform/deferred"
	"maps-extended-service/internal/platform/logging"
	"maps-extended-service/internal/platform/metrics"
	"maps-extended-service/internal/ports"
)

const (
	DefaultPollRetries  = 5
	DefaultPollInterval = time.Second

	RemediationURL = "https://github.com/googlemaps/extended-component-library"
)

// ErrSDKUnavailable is returned by ImportLibrary when no SDK showed up within
// the polling window.
var ErrSDKUnavailable = errors.New("maps SDK unavailable")

const (
	msgMultipleElements = "Found multiple configuration elements. The Maps SDK can only be configured once; " +
		"please ensure you only have a single configuration element."
	msgPropertyAfterLoad = "Property '%s' cannot be updated once the Maps SDK is already loaded."
	msgExternalSDK       = "Please remove the configuration element if the Maps SDK is installed by another " +
		"integration. Duplicate configuration may cause unexpected behavior."
	msgLegacyLoading = "Using an externally installed Maps SDK may result in suboptimal performance. " +
		"For best results, configure the SDK through a configuration element instead."
)

// BootstrapFunc starts the SDK with resolved options.
type BootstrapFunc func(ctx context.Context, opts Options) (ports.SDK, error)

// Loader owns the process-wide SDK lifecycle.
//
// Loader is safe for concurrent use.
type Loader struct {
	bootstrap    BootstrapFunc
	global       *GlobalSlot
	log          logrus.FieldLogger
	pollRetries  int
	pollInterval time.Duration

	polls singleflight.Group

	mu            sync.Mutex
	sdk           *deferred.Value[ports.SDK]
	active        *ConfigElement
	bootstrapping bool
	bootstrapped  bool
	legacyWarned  bool
	baselineReady bool
}

type Option func(*Loader)

func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithPolling overrides how many times, and how often, ImportLibrary re-checks
// the GlobalSlot after the first miss.
func WithPolling(retries int, interval time.Duration) Option {
	return func(l *Loader) {
		if retries >= 0 {
			l.pollRetries = retries
		}
		if interval > 0 {
			l.pollInterval = interval
		}
	}
}

func WithGlobalSlot(g *GlobalSlot) Option {
	return func(l *Loader) {
		if g != nil {
			l.global = g
		}
	}
}

func New(bootstrap BootstrapFunc, opts ...Option) *Loader {
	l := &Loader{
		bootstrap:    bootstrap,
		global:       &GlobalSlot{},
		log:          logrus.StandardLogger(),
		pollRetries:  DefaultPollRetries,
		pollInterval: DefaultPollInterval,
		sdk:          deferred.New[ports.SDK](),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Global returns the slot the Loader publishes to and polls.
func (l *Loader) Global() *GlobalSlot { return l.global }

// Loaded reports whether the SDK is available.
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	d := l.sdk
	l.mu.Unlock()
	_, ok := d.Peek()
	return ok
}

// Connect registers a configuration element. The first element connected
// becomes the active one and bootstraps the SDK as soon as it has a key;
// later elements are ignored with a warning.
func (l *Loader) Connect(name string, cfg Config) *ConfigElement {
	el := &ConfigElement{name: name, loader: l, cfg: cfg}

	l.mu.Lock()
	if l.active != nil {
		l.mu.Unlock()
		logging.ForConsumer(l.log, name).Warn(msgMultipleElements)
		return el
	}
	l.active = el
	start := l.tryLoadLocked(el, cfg.setProperties())
	l.mu.Unlock()

	if start != nil {
		start()
	}
	return el
}

func (l *Loader) update(el *ConfigElement, changed []Property) {
	l.mu.Lock()
	start := l.tryLoadLocked(el, changed)
	l.mu.Unlock()

	if start != nil {
		start()
	}
}

func (l *Loader) disconnect(el *ConfigElement) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active != el {
		return
	}
	if _, loaded := l.sdk.Peek(); !loaded {
		l.active = nil
	}
}

// tryLoadLocked applies a configuration change. When a bootstrap is due it
// marks one in progress and returns the function that runs it; the caller
// invokes it after releasing l.mu.
func (l *Loader) tryLoadLocked(el *ConfigElement, changed []Property) func() {
	log := logging.ForConsumer(l.log, el.name)
	_, loaded := l.sdk.Peek()

	if l.active != el {
		if loaded && len(changed) > 0 {
			log.Warnf(msgPropertyAfterLoad, changed[0])
		}
		return nil
	}

	if loaded {
		if len(changed) == 0 {
			return nil
		}
		if l.bootstrapped {
			log.Warnf(msgPropertyAfterLoad, changed[0])
		} else {
			log.Warn(msgExternalSDK)
		}
		return nil
	}

	cfg := el.Config()
	if cfg.Key == "" || l.bootstrapped || l.bootstrapping {
		return nil
	}

	l.bootstrapping = true
	d := l.sdk
	opts := cfg.options()
	return func() { l.runBootstrap(d, log, opts) }
}

// runBootstrap starts the SDK without holding l.mu. The result is dropped if
// the Loader was reset meanwhile.
func (l *Loader) runBootstrap(d *deferred.Value[ports.SDK], log logrus.FieldLogger, opts Options) {
	metrics.SDKBootstraps.Inc()
	sdk, err := l.bootstrap(context.Background(), opts)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sdk != d {
		return
	}
	l.bootstrapping = false
	if err != nil {
		log.WithError(err).Error("maps SDK bootstrap failed")
		return
	}
	if _, ok := d.Peek(); ok {
		// An externally installed SDK was adopted first.
		return
	}

	l.bootstrapped = true
	l.global.Install(sdk)
	d.Resolve(sdk)
	l.loadBaselineLocked(sdk)
}

// loadBaselineLocked imports the libraries every map component relies on. It
// runs in the background; failures only surface as warnings.
func (l *Loader) loadBaselineLocked(sdk ports.SDK) {
	if l.baselineReady {
		return
	}
	l.baselineReady = true

	go func() {
		for _, name := range []string{ports.LibraryMaps, ports.LibraryMarker} {
			if _, err := sdk.ImportLibrary(context.Background(), name); err != nil {
				l.log.WithError(err).WithField("library", name).Warn("baseline library import failed")
			}
		}
	}()
}

// ImportLibrary waits for the SDK and loads the named library from it. When
// no configuration element is active it polls the GlobalSlot; if the SDK is
// still missing after the polling window it returns ErrSDKUnavailable.
func (l *Loader) ImportLibrary(ctx context.Context, name string, consumer string) (ports.Library, error) {
	sdk, err := l.awaitSDK(ctx, consumer)
	if err != nil {
		metrics.LibraryImports.WithLabelValues(name, "unavailable").Inc()
		return nil, err
	}

	lib, err := sdk.ImportLibrary(ctx, name)
	if err != nil {
		metrics.LibraryImports.WithLabelValues(name, "error").Inc()
		return nil, fmt.Errorf("import library %q: %w", name, err)
	}

	metrics.LibraryImports.WithLabelValues(name, "ok").Inc()
	return lib, nil
}

func (l *Loader) awaitSDK(ctx context.Context, consumer string) (ports.SDK, error) {
	l.mu.Lock()
	d := l.sdk
	l.mu.Unlock()

	if sdk, ok := d.Peek(); ok {
		return sdk, nil
	}

	// One poller per pending value; everyone else shares its outcome.
	ch := l.polls.DoChan(fmt.Sprintf("%p", d), func() (any, error) {
		return nil, l.poll(d, consumer)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, unavailableError(consumer)
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return d.Wait(ctx)
}

// poll checks the GlobalSlot once, then retries pollRetries times at
// pollInterval. It returns early when d is resolved by a bootstrap. consumer
// is the caller that started the poll.
func (l *Loader) poll(d *deferred.Value[ports.SDK], consumer string) error {
	for attempt := 0; ; attempt++ {
		if _, ok := d.Peek(); ok {
			return nil
		}

		if sdk, ok := l.global.Load(); ok {
			metrics.SDKPollAttempts.WithLabelValues("found").Inc()
			l.adoptGlobal(d, sdk, attempt > 0, consumer)
			return nil
		}
		metrics.SDKPollAttempts.WithLabelValues("missing").Inc()

		if attempt >= l.pollRetries {
			return ErrSDKUnavailable
		}

		timer := time.NewTimer(l.pollInterval)
		select {
		case <-d.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// adoptGlobal resolves d with an SDK found in the GlobalSlot. late is set when
// the SDK was missing on the first check.
func (l *Loader) adoptGlobal(d *deferred.Value[ports.SDK], sdk ports.SDK, late bool, consumer string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !d.Resolve(sdk) {
		return
	}
	if late && !l.bootstrapped && !l.legacyWarned {
		l.legacyWarned = true
		logging.ForConsumer(l.log, consumer).Warn(msgLegacyLoading)
	}
	if l.sdk == d {
		l.loadBaselineLocked(sdk)
	}
}

func unavailableError(consumer string) error {
	prefix := "ImportLibrary(): Unable to initialize the Maps SDK."
	if consumer != "" {
		prefix = fmt.Sprintf("<%s>: The Maps SDK is required for this component to function correctly.", consumer)
	}
	return fmt.Errorf("%w: %s Please ensure a configuration element with a valid API key is connected. See %s",
		ErrSDKUnavailable, prefix, RemediationURL)
}

// Reset returns the Loader to its initial state and clears the GlobalSlot.
// Pending ImportLibrary calls keep waiting on the previous SDK value.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sdk = deferred.New[ports.SDK]()
	l.active = nil
	l.bootstrapping = false
	l.bootstrapped = false
	l.legacyWarned = false
	l.baselineReady = false
	l.global.Clear()
}

var _ ports.LibraryImporter = (*Loader)(nil)
