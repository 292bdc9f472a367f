// Package dataset provides the array collaborator consumed by the
// decomposition engine: an N-dimensional float64 array exposed as a
// flattened 2-D navigation × signal view.
//
// Core concepts:
//
//   - Navigation axes index independent observations (pixels, probe
//     positions); signal axes index feature channels (energy bins,
//     wavelengths). The leading navAxes dimensions of the shape are
//     navigation, the rest signal.
//   - Unfold/Fold is an idempotent pair: Unfold exposes the 2-D view
//     (sharing the underlying buffer, so in-place pre-treatments reach
//     the dataset), Fold restores the original shape bookkeeping
//     exactly.
//   - Deferred wraps lazy production of the buffer. Force is the single
//     blocking suspension point; the engine forces evaluation only at
//     mask application, eager summaries and persistence.
//   - Diff computes finite differences of a matrix along either axis of
//     the flattened view. NaN inputs propagate, which the BSS engine
//     exploits to dilate masks through differentiation.
//
// Usage:
//
//	ds, err := dataset.New([]int{16, 16, 512}, 2, buf) // 256 nav × 512 sig
//	view, _ := ds.Unfold()
//	// ... operate on view ...
//	ds.Fold()
package dataset
