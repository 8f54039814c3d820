// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/perceptron/internal/nn"
)

// Layers

// Layer is a dense layer: weights, biases and an activation.
type Layer = nn.Layer

// LayerView is the read-only surface of a Layer returned by Network.Layer.
type LayerView = nn.LayerView

// LayerOption configures NewLayer.
type LayerOption = nn.LayerOption

// Initializer fills a new [inputSize, neuronCount] weight matrix.
type Initializer = nn.Initializer

// NewLayer creates a new dense layer.
//
// Example:
//
//	layer, err := nn.NewLayer(784, 64, nn.SigmoidActivation)
func NewLayer(inputSize, neuronCount int, activation Activation, opts ...LayerOption) (*Layer, error) {
	return nn.NewLayer(inputSize, neuronCount, activation, opts...)
}

// WithRand sets the random source used for weight initialization.
var WithRand = nn.WithRand

// WithInit sets the weight initializer.
var WithInit = nn.WithInit

// Uniform initializes weights uniformly in [-1, 1].
var Uniform Initializer = nn.Uniform

// Xavier initializes weights uniformly in ±sqrt(6/(fan_in+fan_out)).
var Xavier Initializer = nn.Xavier

// Networks

// Network is an ordered, non-empty stack of layers.
type Network = nn.Network

// EpochStats describes one completed training epoch.
type EpochStats = nn.EpochStats

// NewNetwork creates a network from layers whose dimensions chain.
//
// Example:
//
//	net, err := nn.NewNetwork(hidden, output)
func NewNetwork(layers ...*Layer) (*Network, error) {
	return nn.NewNetwork(layers...)
}

// Load reads a network written by Network.Save.
//
// Example:
//
//	net, err := nn.Load("mnist.safetensors")
func Load(path string) (*Network, error) {
	return nn.Load(path)
}

// Activations

// Activation selects a layer's nonlinearity.
type Activation = nn.Activation

// Supported activations.
const (
	SigmoidActivation = nn.SigmoidActivation
	TanhActivation    = nn.TanhActivation
	ReLUActivation    = nn.ReLUActivation
)

// ParseActivation returns the activation named "sigmoid", "tanh" or "relu".
func ParseActivation(name string) (Activation, error) {
	return nn.ParseActivation(name)
}

// Sigmoid applies 1 / (1 + exp(-z)) element-wise.
func Sigmoid(z mat.Vector) *mat.VecDense { return nn.Sigmoid(z) }

// SigmoidDerivative returns σ(z)(1 - σ(z)) element-wise.
func SigmoidDerivative(z mat.Vector) *mat.VecDense { return nn.SigmoidDerivative(z) }

// Tanh applies tanh element-wise.
func Tanh(z mat.Vector) *mat.VecDense { return nn.Tanh(z) }

// TanhDerivative returns 1 - tanh²(z) element-wise.
func TanhDerivative(z mat.Vector) *mat.VecDense { return nn.TanhDerivative(z) }

// ReLU applies max(0, z) element-wise.
func ReLU(z mat.Vector) *mat.VecDense { return nn.ReLU(z) }

// ReLUDerivative returns 1 where z > 0, else 0.
func ReLUDerivative(z mat.Vector) *mat.VecDense { return nn.ReLUDerivative(z) }

// Loss

// MeanSquaredError returns 0.5 * ||output - target||².
func MeanSquaredError(output, target mat.Vector) float64 {
	return nn.MeanSquaredError(output, target)
}

// MeanSquaredErrorGradient returns output - target.
func MeanSquaredErrorGradient(output, target mat.Vector) *mat.VecDense {
	return nn.MeanSquaredErrorGradient(output, target)
}

// Errors

// Errors returned by this package.
var (
	ErrNoLayers          = nn.ErrNoLayers
	ErrNilLayer          = nn.ErrNilLayer
	ErrDuplicateLayer    = nn.ErrDuplicateLayer
	ErrInvalidDimension  = nn.ErrInvalidDimension
	ErrDimensionMismatch = nn.ErrDimensionMismatch
	ErrUnknownActivation = nn.ErrUnknownActivation
	ErrLengthMismatch    = nn.ErrLengthMismatch
	ErrNoData            = nn.ErrNoData
	ErrInvalidEpochs     = nn.ErrInvalidEpochs
	ErrInvalidCheckpoint = nn.ErrInvalidCheckpoint
)
