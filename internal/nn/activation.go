package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Activation selects the nonlinearity applied by a Layer.
//
// The set is closed: every value maps to a forward function and its
// elementwise derivative through a fixed dispatch table, so an activation
// can be compared, printed and round-tripped through text.
type Activation int

// Supported activations.
const (
	SigmoidActivation Activation = iota
	TanhActivation
	ReLUActivation
)

type activationFuncs struct {
	name       string
	fn         func(mat.Vector) *mat.VecDense
	derivative func(mat.Vector) *mat.VecDense
}

var activationTable = [...]activationFuncs{
	SigmoidActivation: {name: "sigmoid", fn: Sigmoid, derivative: SigmoidDerivative},
	TanhActivation:    {name: "tanh", fn: Tanh, derivative: TanhDerivative},
	ReLUActivation:    {name: "relu", fn: ReLU, derivative: ReLUDerivative},
}

// ParseActivation returns the activation with the given name
// ("sigmoid", "tanh" or "relu").
func ParseActivation(name string) (Activation, error) {
	for a, f := range activationTable {
		if f.name == name {
			return Activation(a), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownActivation, name)
}

// Valid reports whether a is one of the supported activations.
func (a Activation) Valid() bool {
	return a >= 0 && int(a) < len(activationTable)
}

// String returns the activation name.
func (a Activation) String() string {
	if !a.Valid() {
		return "unknown"
	}
	return activationTable[a].name
}

// MarshalText implements encoding.TextMarshaler.
func (a Activation) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownActivation, int(a))
	}
	return []byte(activationTable[a].name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Activation) UnmarshalText(text []byte) error {
	parsed, err := ParseActivation(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Apply evaluates the activation on a pre-activation vector.
func (a Activation) Apply(z mat.Vector) *mat.VecDense {
	if !a.Valid() {
		panic(fmt.Sprintf("Activation.Apply: unknown activation %d", int(a)))
	}
	return activationTable[a].fn(z)
}

// Derivative evaluates the activation's derivative on a pre-activation vector.
func (a Activation) Derivative(z mat.Vector) *mat.VecDense {
	if !a.Valid() {
		panic(fmt.Sprintf("Activation.Derivative: unknown activation %d", int(a)))
	}
	return activationTable[a].derivative(z)
}

// Sigmoid applies σ(z) = 1 / (1 + exp(-z)) element-wise.
//
// Large negative inputs overflow exp to +Inf, which yields 0.
func Sigmoid(z mat.Vector) *mat.VecDense {
	return mapVec(z, sigmoid)
}

// SigmoidDerivative returns σ(z) ⊙ (1 - σ(z)) for a pre-activation vector z.
func SigmoidDerivative(z mat.Vector) *mat.VecDense {
	return mapVec(z, func(x float64) float64 {
		s := sigmoid(x)
		return s * (1 - s)
	})
}

// Tanh applies the hyperbolic tangent element-wise.
func Tanh(z mat.Vector) *mat.VecDense {
	return mapVec(z, math.Tanh)
}

// TanhDerivative returns 1 - tanh(z)² element-wise.
func TanhDerivative(z mat.Vector) *mat.VecDense {
	return mapVec(z, func(x float64) float64 {
		t := math.Tanh(x)
		return 1 - t*t
	})
}

// ReLU applies max(0, z) element-wise.
func ReLU(z mat.Vector) *mat.VecDense {
	return mapVec(z, func(x float64) float64 {
		return math.Max(0, x)
	})
}

// ReLUDerivative returns 1 where z > 0 and 0 elsewhere, including at exactly 0.
func ReLUDerivative(z mat.Vector) *mat.VecDense {
	return mapVec(z, func(x float64) float64 {
		if x > 0 {
			return 1
		}
		return 0
	})
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// mapVec returns a new vector holding f applied to every element of v.
func mapVec(v mat.Vector, f func(float64) float64) *mat.VecDense {
	n := v.Len()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetVec(i, f(v.AtVec(i)))
	}
	return out
}
