package sdkloader

import (
	"sync"

	"maps-extended-service/internal/ports"
)

// GlobalSlot is the well-known place where a loaded SDK is published. Other
// integrations in the process may install an SDK here directly; the Loader
// picks it up while polling.
type GlobalSlot struct {
	mu  sync.RWMutex
	sdk ports.SDK
}

func (g *GlobalSlot) Install(sdk ports.SDK) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sdk = sdk
}

func (g *GlobalSlot) Load() (ports.SDK, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sdk, g.sdk != nil
}

func (g *GlobalSlot) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sdk = nil
}
