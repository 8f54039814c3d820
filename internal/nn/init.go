package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Initializer fills a new rows×cols weight matrix.
//
// rows is the layer's input size (fan-in) and cols its neuron count (fan-out).
type Initializer func(rows, cols int, rng *rand.Rand) *mat.Dense

// Uniform initializes weights with values drawn uniformly from [-1, 1].
//
// This is the default initializer for NewLayer.
func Uniform(rows, cols int, rng *rand.Rand) *mat.Dense {
	return uniformDense(rows, cols, 1.0, rng)
}

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// This initialization helps maintain variance of activations across layers.
func Xavier(rows, cols int, rng *rand.Rand) *mat.Dense {
	bound := math.Sqrt(6.0 / float64(rows+cols))
	return uniformDense(rows, cols, bound, rng)
}

func uniformDense(rows, cols int, bound float64, rng *rand.Rand) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		data[i] = (rng.Float64()*2.0 - 1.0) * bound
	}
	return mat.NewDense(rows, cols, data)
}
