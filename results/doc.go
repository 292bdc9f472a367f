// Package results stores the outputs of a decomposition and a
// subsequent blind source separation: factors, loadings, explained
// variance, masks, the unmixing matrix and the parameters that produced
// them.
//
// Lifecycle:
//
//   - A fresh LearningResults is produced by every decomposition run and
//     atomically replaces the previous one only after the computation
//     fully succeeds; the BSS block therefore never survives a re-fit.
//   - Crop truncates factors/loadings (and raw explained variance) to
//     the first n components; the variance ratio is intentionally kept
//     at full length, since it is normalized against the pre-crop sum.
//   - Transpose swaps the (factors, loadings) and (bss factors, bss
//     loadings) pairs, for datasets analysed in transposed orientation.
//
// Persistence:
//
//	Save writes one archive per call: a zstd-compressed JSON document
//	holding every persisted attribute by name. Load tolerates missing
//	keys (left null), migrates a fixed set of legacy key names from
//	archives written by older pipelines, drops obsolete keys, and
//	unwraps scalars that legacy writers stored as singleton arrays.
package results
