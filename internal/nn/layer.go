package nn

import (
	"fmt"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Layer implements a fully connected (dense) layer with its activation.
//
// Performs the transformation: a = f(Wᵀ·x + b)
// where:
//   - x is the input vector with length inputSize
//   - W is the weight matrix with shape [inputSize, neuronCount]
//   - b is the bias vector with length neuronCount
//   - f is the layer's Activation
//
// Weights are stored input-major: row i holds the outgoing weights of input
// neuron i. The layer caches the pre-activation and activation of the last
// Forward call and the delta of the last backward step; those caches always
// describe the current sample.
//
// Example:
//
//	layer, err := nn.NewLayer(784, 64, nn.SigmoidActivation)
//	if err != nil {
//	    return err
//	}
//	layer.Forward(input)
//	out := layer.Activation()
type Layer struct {
	inputSize   int
	neuronCount int
	activation  Activation

	weights *mat.Dense    // [inputSize, neuronCount]
	biases  *mat.VecDense // [neuronCount]

	preActivation *mat.VecDense // Wᵀ·x + b of the last forward pass
	output        *mat.VecDense // f(preActivation)
	delta         *mat.VecDense // ∂E/∂preActivation for the current sample
}

// LayerView is the read-only surface of a Layer.
//
// Every method returns a copy; mutating it does not affect the layer.
type LayerView interface {
	InputSize() int
	NeuronCount() int
	Kind() Activation
	Weights() *mat.Dense
	Biases() *mat.VecDense
	PreActivation() *mat.VecDense
	Activation() *mat.VecDense
	Delta() *mat.VecDense
}

type layerConfig struct {
	rng  *rand.Rand
	init Initializer
}

// LayerOption configures NewLayer.
type LayerOption func(*layerConfig)

// WithRand sets the random source used for weight initialization.
//
// Use a seeded source for reproducible training runs.
func WithRand(rng *rand.Rand) LayerOption {
	return func(c *layerConfig) {
		c.rng = rng
	}
}

// WithInit sets the weight initializer (default: Uniform).
func WithInit(init Initializer) LayerOption {
	return func(c *layerConfig) {
		c.init = init
	}
}

// NewLayer creates a new dense layer.
//
// Weights are initialized by the configured Initializer (uniform in [-1, 1]
// by default). Biases, pre-activation, activation and delta start at zero.
//
// Parameters:
//   - inputSize: Number of inputs (rows of the weight matrix)
//   - neuronCount: Number of neurons (columns of the weight matrix)
//   - activation: Nonlinearity applied after the affine transform
//
// Returns ErrInvalidDimension if either size is not positive and
// ErrUnknownActivation for an unsupported activation.
func NewLayer(inputSize, neuronCount int, activation Activation, opts ...LayerOption) (*Layer, error) {
	if inputSize <= 0 || neuronCount <= 0 {
		return nil, fmt.Errorf("%w: input size %d, neuron count %d",
			ErrInvalidDimension, inputSize, neuronCount)
	}
	if !activation.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownActivation, int(activation))
	}

	cfg := layerConfig{init: Uniform}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		cfg.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Layer{
		inputSize:     inputSize,
		neuronCount:   neuronCount,
		activation:    activation,
		weights:       cfg.init(inputSize, neuronCount, cfg.rng),
		biases:        mat.NewVecDense(neuronCount, nil),
		preActivation: mat.NewVecDense(neuronCount, nil),
		output:        mat.NewVecDense(neuronCount, nil),
		delta:         mat.NewVecDense(neuronCount, nil),
	}, nil
}

// Forward computes and caches the layer output for one sample.
//
//	preActivation = Wᵀ·input + b
//	activation    = f(preActivation)
//
// Panics if input does not have InputSize elements.
func (l *Layer) Forward(input mat.Vector) {
	if input.Len() != l.inputSize {
		panic(fmt.Sprintf("Layer.Forward: expected input with %d elements, got %d",
			l.inputSize, input.Len()))
	}

	z := mat.NewVecDense(l.neuronCount, nil)
	z.MulVec(l.weights.T(), input)
	z.AddVec(z, l.biases)

	l.preActivation = z
	l.output = l.activation.Apply(z)
}

// ActivationDerivative evaluates f' on the cached pre-activation.
func (l *Layer) ActivationDerivative() *mat.VecDense {
	return l.activation.Derivative(l.preActivation)
}

// SetDelta stores the backpropagated error term for the current sample.
//
// Panics if d does not have NeuronCount elements.
func (l *Layer) SetDelta(d mat.Vector) {
	if d.Len() != l.neuronCount {
		panic(fmt.Sprintf("Layer.SetDelta: expected %d elements, got %d", l.neuronCount, d.Len()))
	}
	l.delta = mat.VecDenseCopyOf(d)
}

// UpdateWeights applies one gradient-descent step using the stored delta.
//
//	W ← W - learningRate · (layerInput ⊗ delta)
//	b ← b - learningRate · delta
//
// layerInput must be the vector that was passed to Forward for the current
// sample; only its length is checked.
func (l *Layer) UpdateWeights(layerInput mat.Vector, learningRate float64) {
	if layerInput.Len() != l.inputSize {
		panic(fmt.Sprintf("Layer.UpdateWeights: expected input with %d elements, got %d",
			l.inputSize, layerInput.Len()))
	}
	l.weights.RankOne(l.weights, -learningRate, layerInput, l.delta)
	l.biases.AddScaledVec(l.biases, -learningRate, l.delta)
}

// InputSize returns the number of inputs.
func (l *Layer) InputSize() int {
	return l.inputSize
}

// NeuronCount returns the number of neurons.
func (l *Layer) NeuronCount() int {
	return l.neuronCount
}

// Kind returns the layer's activation.
func (l *Layer) Kind() Activation {
	return l.activation
}

// Weights returns a copy of the weight matrix.
func (l *Layer) Weights() *mat.Dense {
	return mat.DenseCopyOf(l.weights)
}

// Biases returns a copy of the bias vector.
func (l *Layer) Biases() *mat.VecDense {
	return mat.VecDenseCopyOf(l.biases)
}

// PreActivation returns a copy of the last pre-activation.
func (l *Layer) PreActivation() *mat.VecDense {
	return mat.VecDenseCopyOf(l.preActivation)
}

// Activation returns a copy of the last activation.
func (l *Layer) Activation() *mat.VecDense {
	return mat.VecDenseCopyOf(l.output)
}

// Delta returns a copy of the current delta.
func (l *Layer) Delta() *mat.VecDense {
	return mat.VecDenseCopyOf(l.delta)
}
