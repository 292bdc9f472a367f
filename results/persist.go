package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

// formatVersion identifies the current archive schema. Loading does not
// reject older versions: unknown keys are ignored and legacy keys are
// migrated, which is the whole compatibility story.
const formatVersion = 1

// archFloat round-trips non-finite values through JSON, which has no
// NaN/Inf literals. Non-finite values are encoded as the strings "NaN",
// "Inf" and "-Inf".
type archFloat float64

func (f archFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(v)
}

func (f *archFloat) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch s {
		case "NaN":
			*f = archFloat(math.NaN())
		case "Inf":
			*f = archFloat(math.Inf(1))
		case "-Inf":
			*f = archFloat(math.Inf(-1))
		default:
			return fmt.Errorf("%w: float token %q", ErrBadArchive, s)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = archFloat(v)
	return nil
}

// matrixArchive is the persisted form of a dense matrix.
type matrixArchive struct {
	Rows int         `json:"rows"`
	Cols int         `json:"cols"`
	Data []archFloat `json:"data"`
}

func toMatrixArchive(m *mat.Dense) *matrixArchive {
	if m == nil {
		return nil
	}
	r, c := m.Dims()
	a := &matrixArchive{Rows: r, Cols: c, Data: make([]archFloat, 0, r*c)}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			a.Data = append(a.Data, archFloat(m.At(i, j)))
		}
	}
	return a
}

func (a *matrixArchive) dense() (*mat.Dense, error) {
	if a == nil {
		return nil, nil
	}
	if a.Rows <= 0 || a.Cols <= 0 || len(a.Data) != a.Rows*a.Cols {
		return nil, fmt.Errorf("%w: matrix %dx%d with %d values", ErrBadArchive, a.Rows, a.Cols, len(a.Data))
	}
	buf := make([]float64, len(a.Data))
	for i, v := range a.Data {
		buf[i] = float64(v)
	}
	return mat.NewDense(a.Rows, a.Cols, buf), nil
}

// archive is the full persisted document: every public attribute of
// LearningResults by name, one archive per save.
type archive struct {
	FormatVersion               int            `json:"format_version"`
	Factors                     *matrixArchive `json:"factors,omitempty"`
	Loadings                    *matrixArchive `json:"loadings,omitempty"`
	ExplainedVariance           []archFloat    `json:"explained_variance,omitempty"`
	ExplainedVarianceRatio      []archFloat    `json:"explained_variance_ratio,omitempty"`
	NumberSignificantComponents int            `json:"number_significant_components,omitempty"`
	DecompositionAlgorithm      string         `json:"decomposition_algorithm,omitempty"`
	PoissonianNoiseNormalized   bool           `json:"poissonian_noise_normalized"`
	OutputDimension             int            `json:"output_dimension,omitempty"`
	Mean                        []archFloat    `json:"mean,omitempty"`
	Centre                      string         `json:"centre,omitempty"`
	BSSAlgorithm                string         `json:"bss_algorithm,omitempty"`
	UnmixingMatrix              *matrixArchive `json:"unmixing_matrix,omitempty"`
	BSSFactors                  *matrixArchive `json:"bss_factors,omitempty"`
	BSSLoadings                 *matrixArchive `json:"bss_loadings,omitempty"`
	OnLoadings                  bool           `json:"on_loadings"`
	Unfolded                    bool           `json:"unfolded"`
	OriginalShape               []int          `json:"original_shape,omitempty"`
	NavigationMask              []bool         `json:"navigation_mask,omitempty"`
	SignalMask                  []bool         `json:"signal_mask,omitempty"`
	Warnings                    []string       `json:"warnings,omitempty"`
}

// legacyRenames maps keys written by older pipelines to their current
// names. Applied at the translation boundary only; a legacy key never
// clobbers a current one already present in the document.
var legacyRenames = map[string]string{
	"algorithm":     "decomposition_algorithm",
	"pca_algorithm": "decomposition_algorithm",
	"ica_algorithm": "bss_algorithm",
	"V":             "explained_variance",
	"w":             "unmixing_matrix",
	"v":             "loadings",
	"scores":        "loadings",
	"pc":            "loadings",
	"ica_scores":    "bss_loadings",
	"ica_factors":   "bss_factors",
}

// legacyDropped lists obsolete keys silently discarded on load.
var legacyDropped = []string{"variance2one", "centered", "bss_node"}

// scalarKeys lists fields that legacy writers sometimes stored as
// singleton arrays; Load unwraps those to plain values.
var scalarKeys = []string{
	"number_significant_components",
	"output_dimension",
	"decomposition_algorithm",
	"bss_algorithm",
	"centre",
	"poissonian_noise_normalized",
	"on_loadings",
	"unfolded",
	"format_version",
}

// Save writes the results to path as a zstd-compressed JSON archive.
func (lr *LearningResults) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("results: creating archive: %w", err)
	}
	if err := lr.SaveTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SaveTo writes the archive to w.
func (lr *LearningResults) SaveTo(w io.Writer) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("results: opening compressor: %w", err)
	}
	doc := archive{
		FormatVersion:               formatVersion,
		Factors:                     toMatrixArchive(lr.Factors),
		Loadings:                    toMatrixArchive(lr.Loadings),
		ExplainedVariance:           toArchFloats(lr.ExplainedVariance),
		ExplainedVarianceRatio:      toArchFloats(lr.ExplainedVarianceRatio),
		NumberSignificantComponents: lr.NumberSignificantComponents,
		DecompositionAlgorithm:      lr.DecompositionAlgorithm,
		PoissonianNoiseNormalized:   lr.PoissonianNoiseNormalized,
		OutputDimension:             lr.OutputDimension,
		Mean:                        toArchFloats(lr.Mean),
		Centre:                      lr.Centre,
		BSSAlgorithm:                lr.BSSAlgorithm,
		UnmixingMatrix:              toMatrixArchive(lr.UnmixingMatrix),
		BSSFactors:                  toMatrixArchive(lr.BSSFactors),
		BSSLoadings:                 toMatrixArchive(lr.BSSLoadings),
		OnLoadings:                  lr.OnLoadings,
		Unfolded:                    lr.Unfolded,
		OriginalShape:               lr.OriginalShape,
		NavigationMask:              lr.NavigationMask,
		SignalMask:                  lr.SignalMask,
		Warnings:                    lr.Warnings,
	}
	if err := json.NewEncoder(zw).Encode(&doc); err != nil {
		zw.Close()
		return fmt.Errorf("results: encoding archive: %w", err)
	}
	return zw.Close()
}

// Load reads an archive written by Save (current or legacy schema).
func Load(path string) (*LearningResults, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("results: opening archive: %w", err)
	}
	defer f.Close()
	return LoadFrom(f)
}

// LoadFrom reads an archive from r, migrating legacy key names,
// dropping obsolete keys and unwrapping singleton-array scalars.
// Missing keys are tolerated and left null.
func LoadFrom(r io.Reader) (*LearningResults, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("results: opening decompressor: %w", err)
	}
	defer zr.Close()

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(zr).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArchive, err)
	}

	for _, key := range legacyDropped {
		delete(raw, key)
	}
	for old, current := range legacyRenames {
		val, ok := raw[old]
		if !ok {
			continue
		}
		if _, taken := raw[current]; !taken {
			raw[current] = val
		}
		delete(raw, old)
	}
	for _, key := range scalarKeys {
		if val, ok := raw[key]; ok {
			raw[key] = unwrapSingleton(val)
		}
	}

	fixed, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArchive, err)
	}
	var doc archive
	if err := json.Unmarshal(fixed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArchive, err)
	}

	lr := &LearningResults{
		ExplainedVariance:           fromArchFloats(doc.ExplainedVariance),
		ExplainedVarianceRatio:      fromArchFloats(doc.ExplainedVarianceRatio),
		NumberSignificantComponents: doc.NumberSignificantComponents,
		DecompositionAlgorithm:      doc.DecompositionAlgorithm,
		PoissonianNoiseNormalized:   doc.PoissonianNoiseNormalized,
		OutputDimension:             doc.OutputDimension,
		Mean:                        fromArchFloats(doc.Mean),
		Centre:                      doc.Centre,
		BSSAlgorithm:                doc.BSSAlgorithm,
		OnLoadings:                  doc.OnLoadings,
		Unfolded:                    doc.Unfolded,
		OriginalShape:               doc.OriginalShape,
		NavigationMask:              doc.NavigationMask,
		SignalMask:                  doc.SignalMask,
		Warnings:                    doc.Warnings,
	}
	if lr.Factors, err = doc.Factors.dense(); err != nil {
		return nil, err
	}
	if lr.Loadings, err = doc.Loadings.dense(); err != nil {
		return nil, err
	}
	if lr.UnmixingMatrix, err = doc.UnmixingMatrix.dense(); err != nil {
		return nil, err
	}
	if lr.BSSFactors, err = doc.BSSFactors.dense(); err != nil {
		return nil, err
	}
	if lr.BSSLoadings, err = doc.BSSLoadings.dense(); err != nil {
		return nil, err
	}
	return lr, nil
}

// unwrapSingleton turns a one-element JSON array into its element;
// anything else passes through untouched.
func unwrapSingleton(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return raw
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(trimmed, &arr); err != nil || len(arr) != 1 {
		return raw
	}
	return arr[0]
}

func toArchFloats(v []float64) []archFloat {
	if v == nil {
		return nil
	}
	out := make([]archFloat, len(v))
	for i, x := range v {
		out[i] = archFloat(x)
	}
	return out
}

func fromArchFloats(v []archFloat) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
