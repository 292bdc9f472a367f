package bss

import (
	"fmt"

	"github.com/veletar/mva"
)

var (
	// ErrUnknownAlgorithm is returned for a separation identifier outside
	// the recognised set.
	ErrUnknownAlgorithm = fmt.Errorf("bss: unknown separation algorithm: %w", mva.ErrConfiguration)

	// ErrNotRegistered is returned when a recognised external backend has
	// no registered implementation.
	ErrNotRegistered = fmt.Errorf("bss: external backend not registered: %w", mva.ErrDependency)

	// ErrNilBackend rejects a nil registration.
	ErrNilBackend = fmt.Errorf("bss: nil backend registration: %w", mva.ErrConfiguration)

	// ErrBadWhitenMethod is returned for a whitening method other than
	// "pca" or "zca".
	ErrBadWhitenMethod = fmt.Errorf("bss: whitening method must be \"pca\" or \"zca\": %w", mva.ErrConfiguration)

	// ErrBadEstimator is returned when a fitted estimator exposes neither
	// an unmixing matrix nor components.
	ErrBadEstimator = fmt.Errorf("bss: estimator exposes no unmixing matrix: %w", mva.ErrConfiguration)

	// ErrBadUnmixing is returned when a separator reports an unmixing
	// matrix that is not square in the component count.
	ErrBadUnmixing = fmt.Errorf("bss: unmixing matrix shape mismatch: %w", mva.ErrConfiguration)

	// ErrBadGamma rejects an orthomax gamma outside [0, 1].
	ErrBadGamma = fmt.Errorf("bss: orthomax gamma must lie in [0, 1]: %w", mva.ErrConfiguration)

	// ErrEmptyData is returned for a matrix with a zero extent.
	ErrEmptyData = fmt.Errorf("bss: empty data matrix: %w", mva.ErrDimension)

	// ErrEigenFailed is returned when the covariance eigendecomposition
	// does not converge.
	ErrEigenFailed = fmt.Errorf("bss: covariance eigendecomposition failed: %w", mva.ErrDomain)

	// ErrRotationFailed is returned when the orthomax inner SVD does not
	// converge.
	ErrRotationFailed = fmt.Errorf("bss: rotation update failed: %w", mva.ErrDomain)

	// ErrBadCriterion is returned for a sign-reversal criterion other
	// than "factors" or "loadings".
	ErrBadCriterion = fmt.Errorf("bss: reversal criterion must be \"factors\" or \"loadings\": %w", mva.ErrConfiguration)
)
