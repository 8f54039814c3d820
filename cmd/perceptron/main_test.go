package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/perceptron/internal/nn"
)

func TestBuildNetwork(t *testing.T) {
	opts := options{hidden: 8, activation: "tanh", init: "xavier", seed: 3}

	net, err := buildNetwork(opts, 784, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, net.Len())
	assert.Equal(t, 784, net.InputSize())
	assert.Equal(t, 10, net.OutputSize())
	assert.Equal(t, nn.TanhActivation, net.Layer(0).Kind())
	assert.Equal(t, 8, net.Layer(1).InputSize())
}

func TestBuildNetwork_Errors(t *testing.T) {
	_, err := buildNetwork(options{hidden: 8, activation: "softmax", init: "uniform"}, 4, 2)
	assert.ErrorIs(t, err, nn.ErrUnknownActivation)

	_, err = buildNetwork(options{hidden: 8, activation: "relu", init: "he"}, 4, 2)
	assert.Error(t, err)

	_, err = buildNetwork(options{hidden: 0, activation: "relu", init: "uniform"}, 4, 2)
	assert.ErrorIs(t, err, nn.ErrInvalidDimension)
}

func TestLoadData_Synthetic(t *testing.T) {
	train, test, err := loadData(options{synthetic: true})
	require.NoError(t, err)

	assert.Equal(t, 10, train.Len())
	assert.Equal(t, 784, train.InputSize())
	assert.Equal(t, train.Len(), test.Len())
}

func TestLoadData_Missing(t *testing.T) {
	_, _, err := loadData(options{dataDir: t.TempDir()})
	assert.Error(t, err)
}

func TestBuildNetwork_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.safetensors")
	saved, err := buildNetwork(options{hidden: 5, activation: "relu", init: "uniform", seed: 1}, 6, 3)
	require.NoError(t, err)
	require.NoError(t, saved.Save(path))

	net, err := buildNetwork(options{loadPath: path}, 6, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, net.Layer(0).NeuronCount())
	assert.Equal(t, nn.ReLUActivation, net.Layer(1).Kind())

	_, err = buildNetwork(options{loadPath: path}, 784, 10)
	assert.ErrorIs(t, err, nn.ErrDimensionMismatch)
}
