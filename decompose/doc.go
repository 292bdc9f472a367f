// Package decompose orchestrates matrix-factorization analysis of a
// dataset: validation, optional Poisson-noise normalization, mask
// handling, backend dispatch, explained-variance bookkeeping, masked
// reprojection, and blind source separation of the fitted components.
//
// The Analyzer owns a Dataset and the LearningResults of its most
// recent fit. Decomposition runs against the flattened navigation ×
// signal view; the results of a successful run replace the previous
// ones atomically, and a failed run leaves them untouched. With
// Copy enabled (the default) the data itself is restored from a
// pre-treatment snapshot on every exit path, so normalization never
// leaks into caller-visible data.
//
// Masks use the exclusion convention throughout: a true entry marks a
// navigation position or signal channel that does not participate in
// the fit. Fitted arrays are re-expanded to full extent afterwards with
// NaN in the excluded rows, unless reprojection filled them in.
package decompose
