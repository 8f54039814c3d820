package dataset

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Embedded returns ten synthetic 28×28 "digits", one per class.
//
// Digit k is a bright horizontal band starting at row 2k. This is NOT
// realistic MNIST data; it exercises the full pipeline when no IDX files
// are available.
func Embedded() *Dataset {
	const side = 28

	d := &Dataset{
		Inputs:  make([]*mat.VecDense, MNISTClasses),
		Targets: make([]*mat.VecDense, MNISTClasses),
	}
	for digit := 0; digit < MNISTClasses; digit++ {
		pixels := make([]byte, side*side)
		for row := digit * 2; row < digit*2+8 && row < side; row++ {
			for col := 5; col < 23; col++ {
				pixels[row*side+col] = 204 // 0.8 after normalization
			}
		}
		d.Inputs[digit] = Normalize(pixels)
		d.Targets[digit] = mat.NewVecDense(MNISTClasses, nil)
		d.Targets[digit].SetVec(digit, 1)
	}
	return d
}

// Separable returns n two-dimensional points split by the line x + y = 0.
//
// Class 0 points have x + y <= -margin and class 1 points x + y >= margin.
// Samples alternate between the classes.
func Separable(n int, margin float64, rng *rand.Rand) *Dataset {
	d := &Dataset{
		Inputs:  make([]*mat.VecDense, n),
		Targets: make([]*mat.VecDense, n),
	}
	for i := 0; i < n; i++ {
		class := i % 2
		sign := -1.0
		if class == 1 {
			sign = 1.0
		}

		// x + y = sign*dist; along moves the point parallel to the line.
		//nolint:gosec // Using math/rand for synthetic data (not security-critical)
		dist := margin + rng.Float64()
		//nolint:gosec // Using math/rand for synthetic data (not security-critical)
		along := rng.Float64()*2 - 1
		x := sign*dist/2 + along
		y := sign*dist/2 - along

		d.Inputs[i] = mat.NewVecDense(2, []float64{x, y})
		d.Targets[i] = mat.NewVecDense(2, nil)
		d.Targets[i].SetVec(class, 1)
	}
	return d
}
