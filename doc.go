// Package mva is a toolkit for multivariate analysis of large flattened
// array datasets — matrix-factorization decomposition (PCA-like) and
// blind source separation (ICA-like) with strict, reproducible numerics.
//
// 🚀 What is mva?
//
//	A library that turns a navigation × signal data matrix (e.g. a
//	hyperspectral cube flattened into observations × channels) into
//	factors, loadings and separated sources, handling all the plumbing
//	around the actual solvers:
//	  • Masking: exclude navigation/signal regions from the fit and
//	    re-expand reduced results back to full extent
//	  • Poisson-noise normalization with an exact, result-level inverse
//	  • Pluggable factorization backends behind fixed call contracts
//	  • Whitening + unmixing with deterministic ordering and sign
//	  • Elbow/knee estimation of the significant-component count
//	  • A result store with crop, transpose and legacy-aware persistence
//
// ✨ Why choose mva?
//
//   - Reproducible — deterministic component order and sign conventions,
//     no hidden randomness in the engine itself
//   - Safe — in-place pre-treatments are snapshot-guarded and restored
//     on every exit path, success or failure
//   - Extensible — bring your own solver: register built-in identifiers
//     or pass any estimator implementing the fit/transform contract
//
// Everything is organized into focused subpackages:
//
//	dataset/   — flattened 2-D view, unfold/fold, diff, lazy arrays
//	backend/   — factorization backend contracts, registry, built-in SVD
//	decompose/ — orchestration engine (masks, noise, dispatch, reprojection)
//	bss/       — whitening, orthomax rotation, BSS estimator contracts
//	elbow/     — scree-curve elbow estimation
//	results/   — learning-results store: crop, transpose, persist/restore
//	cmd/mva/   — thin CLI over the engine
//
// This root package carries only the shared error taxonomy; all
// functionality lives in the subpackages above.
//
//	go get github.com/veletar/mva
package mva
