package scan

import "sync"

var (
	registryMu sync.Mutex
	registry   []Backend
)

// RegisterBackend adds a camera backend to the global chain. Capture
// implementations register themselves from init on platforms that have one.
func RegisterBackend(b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, b)
}

// RegisteredBackends returns the global backend chain in registration order.
func RegisteredBackends() []Backend {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]Backend, len(registry))
	copy(out, registry)
	return out
}
