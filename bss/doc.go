// Package bss provides the linear-algebra primitives for blind source
// separation of decomposition components: whitening, the built-in
// orthomax rotation, and the contract plus registry for external BSS
// estimators.
//
// Separation is performed on whitened data, so any whitening a backend
// would do on its own is redundant; an estimator signalling self
// whitening has it switched off before fitting.
//
// Two kinds of separator exist:
//
//   - "orthomax" is built in: a deterministic varimax-family rotation
//     maximizing the variance of squared projections. It involves no
//     randomness, so repeat runs separate identically.
//
//   - Named external backends ("fastica", "jade", "cubica", "tdsep")
//     are registered by collaborating modules. Requesting one that is
//     not registered fails with ErrNotRegistered (dependency class);
//     requesting an unknown identifier fails with ErrUnknownAlgorithm
//     (configuration class).
//
// The raw unmixing matrix a backend returns refers to whitened
// coordinates; composing it with the inverse square-root covariance
// matrix yields the unmixing matrix in original coordinates. Since
// backends order their output arbitrarily, SortByWeight reorders
// unmixing rows by explained-variance-weighted magnitude so separate
// runs stay comparable.
package bss
