// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides a multilayer perceptron trained by per-sample
// stochastic backpropagation.
//
// # Overview
//
// This package contains:
//   - Layer: dense layer (affine transform + activation)
//   - Network: ordered stack of layers with Forward, Backpropagation, Train and Test
//   - Activations: Sigmoid, Tanh, ReLU and their derivatives
//   - Loss: MeanSquaredError and its gradient
//   - Initialization: Uniform, Xavier
//   - Persistence: Network.Save, Load
//
// Vectors and matrices are gonum types (*mat.VecDense, *mat.Dense).
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/perceptron/nn"
//	)
//
//	func main() {
//	    hidden, _ := nn.NewLayer(784, 64, nn.SigmoidActivation)
//	    output, _ := nn.NewLayer(64, 10, nn.SigmoidActivation)
//
//	    net, err := nn.NewNetwork(hidden, output)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    losses, err := net.Train(inputs, targets, 0.1, 3)
//	    accuracy, err := net.Test(testInputs, testTargets)
//	}
//
// # Layers
//
// A layer with inputSize inputs and neuronCount neurons stores a
// [inputSize, neuronCount] weight matrix and computes
//
//	preActivation = Wᵀ·x + b
//	activation    = f(preActivation)
//
// Weights start uniform in [-1, 1]; use WithInit(nn.Xavier) for Glorot
// initialization and WithRand for a reproducible seed:
//
//	layer, err := nn.NewLayer(4, 3, nn.TanhActivation,
//	    nn.WithRand(rand.New(rand.NewSource(1))),
//	    nn.WithInit(nn.Xavier),
//	)
//
// # Training
//
// Train visits samples in order. For each sample it runs Forward, adds the
// squared-error loss to the epoch total and runs Backpropagation, which
// computes every delta from the current weights before updating any layer:
//
//	net.OnEpoch(func(s nn.EpochStats) {
//	    fmt.Printf("Epoch %d/%d, Loss: %f\n", s.Epoch, s.Epochs, s.Loss)
//	})
//	losses, err := net.Train(inputs, targets, 0.1, 10)
//
// # Saving
//
// Network.Save writes weights, biases and activations to a SafeTensors file
// with a SHA-256 checksum of the tensor data; Load rebuilds the network:
//
//	if err := net.Save("mnist.safetensors"); err != nil {
//	    return err
//	}
//	net, err = nn.Load("mnist.safetensors")
//
// # Errors
//
// Construction and dataset problems are returned as errors wrapping the
// sentinels below; use errors.Is to match them. Passing a wrongly sized
// vector directly to a Layer method panics.
package nn
