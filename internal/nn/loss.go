package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MeanSquaredError computes the squared-error loss of a single sample.
//
//	E = 0.5 * ||output - target||²
//
// Panics if output and target have different lengths.
func MeanSquaredError(output, target mat.Vector) float64 {
	diff := MeanSquaredErrorGradient(output, target)
	return 0.5 * mat.Dot(diff, diff)
}

// MeanSquaredErrorGradient returns ∂E/∂output = output - target.
//
// Panics if output and target have different lengths.
func MeanSquaredErrorGradient(output, target mat.Vector) *mat.VecDense {
	if output.Len() != target.Len() {
		panic(fmt.Sprintf("MeanSquaredError: output has %d elements, target has %d",
			output.Len(), target.Len()))
	}
	diff := mat.NewVecDense(output.Len(), nil)
	diff.SubVec(output, target)
	return diff
}
