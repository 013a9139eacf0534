package routing

import "sync/atomic"

// The broker may be initialized more than once over the process lifetime
// (e.g. repeated kernel setup cells). The default factory is installed with a
// compare-and-swap so re-initialization never stacks another layer.
var defaultFactory atomic.Pointer[Factory]

// Install sets the process-wide default factory. The first call wins;
// later calls are silent no-ops. Reports whether this call installed f.
func Install(f *Factory) bool {
	return defaultFactory.CompareAndSwap(nil, f)
}

// Default returns the installed factory, or nil before Install.
func Default() *Factory {
	return defaultFactory.Load()
}

// Reset clears the installed factory. For testing only.
func Reset() {
	defaultFactory.Store(nil)
}
