// Package backend: sentinel error set, wrapped over the root taxonomy.

package backend

import (
	"fmt"

	"github.com/veletar/mva"
)

var (
	// ErrUnknownAlgorithm is returned for an identifier outside the
	// built-in set (after alias translation).
	ErrUnknownAlgorithm = fmt.Errorf("backend: algorithm not recognised: %w", mva.ErrConfiguration)

	// ErrNotRegistered is returned when a known built-in identifier has
	// no registered implementation.
	ErrNotRegistered = fmt.Errorf("backend: algorithm not registered: %w", mva.ErrDependency)

	// ErrNilBackend is returned by Register* for a nil function.
	ErrNilBackend = fmt.Errorf("backend: nil implementation: %w", mva.ErrConfiguration)

	// ErrBadCentre is returned for a centre value outside
	// {none, features, samples}.
	ErrBadCentre = fmt.Errorf("backend: invalid centre: %w", mva.ErrConfiguration)

	// ErrBadSolver is returned for a solver flag outside
	// {auto, full, randomized}.
	ErrBadSolver = fmt.Errorf("backend: invalid svd solver: %w", mva.ErrConfiguration)

	// ErrSVDFailed is returned when the underlying factorization does not
	// converge.
	ErrSVDFailed = fmt.Errorf("backend: svd failed to converge: %w", mva.ErrDomain)

	// ErrBadEstimator is returned when a supplied estimator implements
	// neither FitTransform nor the Fit/Transform pair, or when its final
	// stage exposes no components after fitting.
	ErrBadEstimator = fmt.Errorf("backend: estimator does not satisfy the fit contract: %w", mva.ErrConfiguration)

	// ErrEmptyData is returned for a data matrix with a zero extent.
	ErrEmptyData = fmt.Errorf("backend: empty data matrix: %w", mva.ErrDimension)
)
