// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset loads labelled data as input and target vectors for
// nn.Network.
//
// Example:
//
//	train, err := dataset.LoadMNIST("./data", true, 0)
//	if err != nil {
//	    return err
//	}
//	losses, err := net.Train(train.Inputs, train.Targets, 0.1, 3)
package dataset

import (
	"io"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/perceptron/internal/dataset"
	"github.com/born-ml/perceptron/internal/parallel"
)

// Dataset holds parallel input and target sequences.
type Dataset = dataset.Dataset

// Images holds the raw pixels of an IDX image file.
type Images = dataset.Images

// MNISTClasses is the number of digit classes in MNIST.
const MNISTClasses = dataset.MNISTClasses

// LoadMNIST loads the MNIST train or test split from IDX files in dir.
//
// maxSamples limits the number of samples (0 = all).
func LoadMNIST(dir string, train bool, maxSamples int) (*Dataset, error) {
	return dataset.LoadMNIST(dir, train, maxSamples)
}

// ReadImages reads an IDX image file.
func ReadImages(r io.Reader) (*Images, error) {
	return dataset.ReadImages(r)
}

// ReadLabels reads an IDX label file.
func ReadLabels(r io.Reader) ([]byte, error) {
	return dataset.ReadLabels(r)
}

// FromIDX builds a dataset from decoded images and labels, one-hot encoding
// labels over the given number of classes.
func FromIDX(images *Images, labels []byte, classes int) (*Dataset, error) {
	return dataset.FromIDX(images, labels, classes, parallel.DefaultConfig())
}

// Normalize converts raw pixels to a vector with values in [0, 1].
func Normalize(pixels []byte) *mat.VecDense {
	return dataset.Normalize(pixels)
}

// OneHot returns a vector of length classes with a 1 at index label.
func OneHot(label, classes int) (*mat.VecDense, error) {
	return dataset.OneHot(label, classes)
}

// Embedded returns ten synthetic 28×28 patterns, one per digit class.
func Embedded() *Dataset {
	return dataset.Embedded()
}

// Separable returns n two-class points split by the line x + y = 0.
func Separable(n int, margin float64, rng *rand.Rand) *Dataset {
	return dataset.Separable(n, margin, rng)
}

// Errors returned by this package.
var (
	ErrInvalidMagic    = dataset.ErrInvalidMagic
	ErrInvalidHeader   = dataset.ErrInvalidHeader
	ErrCountMismatch   = dataset.ErrCountMismatch
	ErrLabelOutOfRange = dataset.ErrLabelOutOfRange
	ErrInvalidClasses  = dataset.ErrInvalidClasses
	ErrEmptyImage      = dataset.ErrEmptyImage
)
