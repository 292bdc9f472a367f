// Package backend defines the call contracts between the decomposition
// engine and its factorization solvers, and ships the one solver the
// toolkit provides itself: an exact SVD built on gonum.
//
// Two kinds of backend exist:
//
//   - Built-in identifiers ("svd", "mlpca", "rpca", "orpca", "ornmf"),
//     each a pure function with a fixed signature. "svd" is registered
//     out of the box; the other four are external collaborators that a
//     program registers at init time. Requesting an unregistered
//     built-in fails with ErrNotRegistered (dependency class);
//     requesting an unknown identifier fails with ErrUnknownAlgorithm
//     (configuration class).
//
//   - Capability-polymorphic estimators: any value implementing
//     FitTransformer, or the Fit/Transform pair, in the manner of an
//     sklearn estimator. Composite pipeline/search objects expose their
//     final stage via Unwrapper. Optional accessors (ComponentsGetter,
//     ExplainedVarianceGetter, MeanGetter) let the engine read fitted
//     attributes; the presence of a mean forces samples-centring
//     downstream.
//
// Deprecated algorithm names are translated by a static alias table at
// the input-parsing boundary; "fast_*" aliases additionally force the
// randomized solver flag.
package backend
