package bss

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Factory builds a fresh estimator for one separation run. Options are
// forwarded opaquely from the caller; a factory rejects what it does
// not understand.
type Factory func(opts map[string]any) (Estimator, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register installs a factory for an external backend name, replacing
// any previous registration. Nil factories are rejected.
func Register(name string, f Factory) error {
	if f == nil {
		return fmt.Errorf("%w: %q", ErrNilBackend, name)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
	return nil
}

// Lookup resolves an external backend name. A recognised but absent
// name reports ErrNotRegistered; an unrecognised one reports
// ErrUnknownAlgorithm.
func Lookup(name string) (Factory, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if ok {
		return f, nil
	}
	if Known(name) {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Known reports whether name is a recognised separation identifier,
// built-in or external.
func Known(name string) bool {
	switch name {
	case AlgOrthomax, AlgFastICA, AlgJADE, AlgCuBICA, AlgTDSEP:
		return true
	}
	registryMu.RLock()
	_, ok := registry[name]
	registryMu.RUnlock()
	return ok
}

// ExtractUnmixing reads the raw unmixing matrix from a fitted
// estimator, preferring UnmixingGetter over the components fallback.
func ExtractUnmixing(est Estimator) (*mat.Dense, error) {
	if g, ok := est.(UnmixingGetter); ok {
		if w := g.UnmixingMatrix(); w != nil {
			return w, nil
		}
	}
	if g, ok := est.(ComponentsGetter); ok {
		if w := g.Components(); w != nil {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrBadEstimator, est)
}
