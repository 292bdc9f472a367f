package backend

import "fmt"

// Process-wide implementation table for the built-in identifiers.
// Registration is expected at init time, before any decomposition runs;
// the table is read-only afterwards and carries no locking.
var (
	svdImpl   SVDFunc = SVD
	mlpcaImpl MLPCAFunc
	rpcaImpl  RPCAFunc
	orpcaImpl ORPCAFunc
	ornmfImpl ORNMFFunc
)

// RegisterSVD replaces the built-in svd implementation.
func RegisterSVD(fn SVDFunc) error {
	if fn == nil {
		return ErrNilBackend
	}
	svdImpl = fn
	return nil
}

// RegisterMLPCA installs the mlpca implementation.
func RegisterMLPCA(fn MLPCAFunc) error {
	if fn == nil {
		return ErrNilBackend
	}
	mlpcaImpl = fn
	return nil
}

// RegisterRPCA installs the rpca implementation.
func RegisterRPCA(fn RPCAFunc) error {
	if fn == nil {
		return ErrNilBackend
	}
	rpcaImpl = fn
	return nil
}

// RegisterORPCA installs the orpca implementation.
func RegisterORPCA(fn ORPCAFunc) error {
	if fn == nil {
		return ErrNilBackend
	}
	orpcaImpl = fn
	return nil
}

// RegisterORNMF installs the ornmf implementation.
func RegisterORNMF(fn ORNMFFunc) error {
	if fn == nil {
		return ErrNilBackend
	}
	ornmfImpl = fn
	return nil
}

// LookupSVD returns the svd implementation (always present).
func LookupSVD() SVDFunc { return svdImpl }

// LookupMLPCA returns the mlpca implementation.
func LookupMLPCA() (MLPCAFunc, error) {
	if mlpcaImpl == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, AlgMLPCA)
	}
	return mlpcaImpl, nil
}

// LookupRPCA returns the rpca implementation.
func LookupRPCA() (RPCAFunc, error) {
	if rpcaImpl == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, AlgRPCA)
	}
	return rpcaImpl, nil
}

// LookupORPCA returns the orpca implementation.
func LookupORPCA() (ORPCAFunc, error) {
	if orpcaImpl == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, AlgORPCA)
	}
	return orpcaImpl, nil
}

// LookupORNMF returns the ornmf implementation.
func LookupORNMF() (ORNMFFunc, error) {
	if ornmfImpl == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, AlgORNMF)
	}
	return ornmfImpl, nil
}

// Known reports whether name is a built-in identifier (after callers
// have translated aliases with Canonical).
func Known(name string) bool {
	switch name {
	case AlgSVD, AlgMLPCA, AlgRPCA, AlgORPCA, AlgORNMF:
		return true
	}
	return false
}

// RequiresOutputDimension reports whether the identifier cannot run
// without an explicit component count.
func RequiresOutputDimension(name string) bool {
	switch name {
	case AlgMLPCA, AlgRPCA, AlgORPCA, AlgORNMF:
		return true
	}
	return false
}
