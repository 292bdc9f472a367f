package backend

// deprecatedAliases is the fixed rename table for algorithm identifiers
// accepted for compatibility with older pipelines. Consulted once at the
// input-parsing boundary; no runtime state.
var deprecatedAliases = map[string]struct {
	name       string
	randomized bool
}{
	"fast_svd":   {AlgSVD, true},
	"fast_mlpca": {AlgMLPCA, true},
	"RPCA_GoDec": {AlgRPCA, false},
	"ORPCA":      {AlgORPCA, false},
	"ORNMF":      {AlgORNMF, false},
}

// Canonical translates a possibly-deprecated algorithm identifier to
// its current name. deprecated reports whether a translation happened;
// randomized reports whether the alias additionally forces the
// randomized solver policy (the historical "fast_*" names).
func Canonical(name string) (canonical string, deprecated, randomized bool) {
	if alias, ok := deprecatedAliases[name]; ok {
		return alias.name, true, alias.randomized
	}
	return name, false, false
}
