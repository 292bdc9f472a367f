package elbow_test

import (
	"fmt"

	"github.com/veletar/mva/elbow"
)

// //////////////////////////////////////////////////////////////////////////////
// ExampleEstimate
// //////////////////////////////////////////////////////////////////////////////
//
// Scenario:
//
//	A scree curve with a steep drop followed by a flat noise floor:
//	  curve = [1.0, 0.5, 0.1, 0.09, 0.08, 0.07]
//
// The knee sits at the corner between the two regimes. The number of
// significant components downstream is the returned index plus one.
func ExampleEstimate() {
	curve := []float64{1.0, 0.5, 0.1, 0.09, 0.08, 0.07}

	idx, err := elbow.Estimate(curve, 5)
	if err != nil {
		fmt.Println("error:", err)

		return
	}
	fmt.Printf("elbow=%d\nsignificant=%d\n", idx, idx+1)
	// Output:
	// elbow=2
	// significant=3
}
