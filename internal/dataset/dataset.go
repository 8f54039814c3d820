// Package dataset turns labelled image files into the input and target
// vectors consumed by nn.Network.
//
// Inputs are pixel intensities scaled to [0, 1]; targets are one-hot
// vectors over a fixed number of classes.
package dataset

import (
	"fmt"
	"math"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/perceptron/internal/parallel"
)

// MNISTClasses is the number of digit classes in MNIST.
const MNISTClasses = 10

// Dataset holds parallel input and target sequences.
type Dataset struct {
	Inputs  []*mat.VecDense
	Targets []*mat.VecDense
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Inputs)
}

// InputSize returns the length of the input vectors, or 0 for an empty dataset.
func (d *Dataset) InputSize() int {
	if len(d.Inputs) == 0 {
		return 0
	}
	return d.Inputs[0].Len()
}

// Classes returns the length of the target vectors, or 0 for an empty dataset.
func (d *Dataset) Classes() int {
	if len(d.Targets) == 0 {
		return 0
	}
	return d.Targets[0].Len()
}

// Split splits the dataset into two parts, the second holding the given
// fraction of samples. Sample order is preserved and vectors are shared.
func (d *Dataset) Split(ratio float64) (*Dataset, *Dataset) {
	cut := d.Len() - int(math.Round(float64(d.Len())*ratio))
	cut = max(0, min(cut, d.Len()))
	return &Dataset{Inputs: d.Inputs[:cut], Targets: d.Targets[:cut]},
		&Dataset{Inputs: d.Inputs[cut:], Targets: d.Targets[cut:]}
}

// Normalize converts raw pixels to a vector with values in [0, 1].
func Normalize(pixels []byte) *mat.VecDense {
	data := make([]float64, len(pixels))
	for i, p := range pixels {
		data[i] = float64(p)
	}
	floats.Scale(1.0/255.0, data)
	return mat.NewVecDense(len(data), data)
}

// OneHot returns a vector of length classes with a 1 at index label.
func OneHot(label, classes int) (*mat.VecDense, error) {
	if classes <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidClasses, classes)
	}
	if label < 0 || label >= classes {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrLabelOutOfRange, label, classes)
	}
	v := mat.NewVecDense(classes, nil)
	v.SetVec(label, 1)
	return v, nil
}

// FromIDX builds a dataset from decoded images and labels.
//
// Labels are validated up front; the per-sample conversion then runs through
// parallel.For with the given config.
func FromIDX(images *Images, labels []byte, classes int, cfg parallel.Config) (*Dataset, error) {
	if classes <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidClasses, classes)
	}
	if len(images.Pixels) != len(labels) {
		return nil, fmt.Errorf("%w: %d images, %d labels", ErrCountMismatch, len(images.Pixels), len(labels))
	}
	if len(labels) > 0 && images.Rows*images.Cols == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, images.Rows, images.Cols)
	}
	for i, l := range labels {
		if int(l) >= classes {
			return nil, fmt.Errorf("sample %d: %w: %d not in [0, %d)", i, ErrLabelOutOfRange, l, classes)
		}
	}

	d := &Dataset{
		Inputs:  make([]*mat.VecDense, len(labels)),
		Targets: make([]*mat.VecDense, len(labels)),
	}
	parallel.For(len(labels), func(i int) {
		d.Inputs[i] = Normalize(images.Pixels[i])
		d.Targets[i] = mat.NewVecDense(classes, nil)
		d.Targets[i].SetVec(int(labels[i]), 1)
	}, cfg)
	return d, nil
}

// LoadMNIST loads MNIST from the official IDX files in dir.
//
// Parameters:
//   - dir: Directory containing the IDX files
//   - train: If true, load train-*-idx?-ubyte, else t10k-*-idx?-ubyte
//   - maxSamples: Maximum number of samples to keep (0 = all)
//
// Expected files in dir:
//   - train-images-idx3-ubyte (or t10k-images-idx3-ubyte for test)
//   - train-labels-idx1-ubyte (or t10k-labels-idx1-ubyte for test)
func LoadMNIST(dir string, train bool, maxSamples int) (*Dataset, error) {
	prefix := "t10k"
	if train {
		prefix = "train"
	}

	images, err := readImagesFile(filepath.Join(dir, prefix+"-images-idx3-ubyte"))
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	labels, err := readLabelsFile(filepath.Join(dir, prefix+"-labels-idx1-ubyte"))
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}

	if maxSamples > 0 && len(labels) > maxSamples && len(images.Pixels) > maxSamples {
		labels = labels[:maxSamples]
		images.Pixels = images.Pixels[:maxSamples]
	}
	return FromIDX(images, labels, MNISTClasses, parallel.DefaultConfig())
}
