package decompose_test

import (
	"fmt"

	"github.com/veletar/mva/dataset"
	"github.com/veletar/mva/decompose"
)

// //////////////////////////////////////////////////////////////////////////////
// ExampleAnalyzer_Decomposition
// //////////////////////////////////////////////////////////////////////////////
//
// Scenario:
//
//	A 6-pixel line scan of 4-channel spectra, factorized with truncated
//	SVD and kept to two components.
//
// Options:
//   - OutputDimension = 2 (crop the model to the leading components)
//
// Factors come out as signal × k and loadings as navigation × k.
func ExampleAnalyzer_Decomposition() {
	data := make([]float64, 6*4)
	for i := 0; i < 6; i++ {
		for j := 0; j < 4; j++ {
			data[i*4+j] = float64(1 + i + i*j)
		}
	}
	ds, err := dataset.New([]int{6, 4}, 1, data)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	an := decompose.New(ds)
	opts := decompose.DefaultOptions()
	opts.OutputDimension = 2
	if _, err = an.Decomposition(opts); err != nil {
		fmt.Println("error:", err)

		return
	}

	lr := an.Results()
	fr, fc := lr.Factors.Dims()
	lrows, lcols := lr.Loadings.Dims()
	fmt.Printf("algorithm=%s\nfactors=%dx%d\nloadings=%dx%d\n",
		lr.DecompositionAlgorithm, fr, fc, lrows, lcols)
	// Output:
	// algorithm=svd
	// factors=4x2
	// loadings=6x2
}

// //////////////////////////////////////////////////////////////////////////////
// ExampleAnalyzer_BlindSourceSeparation
// //////////////////////////////////////////////////////////////////////////////
//
// Scenario:
//
//	Rotate the two leading SVD components with the built-in orthomax
//	criterion. The unmixing matrix is square in the component count.
func ExampleAnalyzer_BlindSourceSeparation() {
	data := make([]float64, 6*4)
	for i := 0; i < 6; i++ {
		for j := 0; j < 4; j++ {
			data[i*4+j] = float64(1+i+i*j) + 0.25*float64(j*j)
		}
	}
	ds, err := dataset.New([]int{6, 4}, 1, data)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	an := decompose.New(ds)
	if _, err = an.Decomposition(decompose.DefaultOptions()); err != nil {
		fmt.Println("error:", err)

		return
	}

	bssOpts := decompose.DefaultBSSOptions()
	bssOpts.NumberOfComponents = 2
	if err = an.BlindSourceSeparation(bssOpts); err != nil {
		fmt.Println("error:", err)

		return
	}

	lr := an.Results()
	ur, uc := lr.UnmixingMatrix.Dims()
	fmt.Printf("algorithm=%s\nunmixing=%dx%d\n", lr.BSSAlgorithm, ur, uc)
	// Output:
	// algorithm=orthomax
	// unmixing=2x2
}
