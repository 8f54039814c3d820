package nn

import (
	"fmt"
	"math/rand"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/perceptron/internal/serialization"
)

// Checkpoint metadata keys and values.
const (
	checkpointFormat = "perceptron"
	metaFormat       = "format"
	metaLayers       = "layers"
)

// StateDict returns copies of every layer's parameters keyed by name.
//
// Names are "layers.<i>.weight" with shape [inputSize, neuronCount] and
// "layers.<i>.bias" with shape [neuronCount].
func (n *Network) StateDict() map[string]*serialization.Tensor {
	state := make(map[string]*serialization.Tensor, 2*len(n.layers))
	for i, l := range n.layers {
		state[weightName(i)] = serialization.FromMatrix(l.weights)
		state[biasName(i)] = serialization.FromVector(l.biases)
	}
	return state
}

// Save writes the network's parameters and activations to a SafeTensors file.
func (n *Network) Save(path string) error {
	metadata := map[string]string{
		metaFormat: checkpointFormat,
		metaLayers: strconv.Itoa(len(n.layers)),
	}
	for i, l := range n.layers {
		metadata[activationName(i)] = l.activation.String()
	}

	if err := serialization.WriteFile(path, n.StateDict(), metadata); err != nil {
		return fmt.Errorf("save network: %w", err)
	}
	return nil
}

// Load reads a network written by Network.Save.
//
// Layer caches start at zero, as after NewLayer. Returns ErrInvalidCheckpoint
// if tensors or metadata are missing or inconsistent.
func Load(path string) (*Network, error) {
	tensors, metadata, err := serialization.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load network: %w", err)
	}
	return FromStateDict(tensors, metadata)
}

// FromStateDict rebuilds a network from Save's tensors and metadata.
func FromStateDict(tensors map[string]*serialization.Tensor, metadata map[string]string) (*Network, error) {
	if metadata[metaFormat] != checkpointFormat {
		return nil, fmt.Errorf("%w: format %q", ErrInvalidCheckpoint, metadata[metaFormat])
	}
	count, err := strconv.Atoi(metadata[metaLayers])
	if err != nil || count <= 0 {
		return nil, fmt.Errorf("%w: layer count %q", ErrInvalidCheckpoint, metadata[metaLayers])
	}

	layers := make([]*Layer, count)
	for i := range layers {
		l, err := layerFromState(i, tensors, metadata)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layers[i] = l
	}
	return NewNetwork(layers...)
}

func layerFromState(i int, tensors map[string]*serialization.Tensor, metadata map[string]string) (*Layer, error) {
	activation, err := ParseActivation(metadata[activationName(i)])
	if err != nil {
		return nil, err
	}

	wt, ok := tensors[weightName(i)]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidCheckpoint, weightName(i))
	}
	bt, ok := tensors[biasName(i)]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidCheckpoint, biasName(i))
	}
	weights, err := wt.Dense()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCheckpoint, err)
	}
	biases, err := bt.VecDense()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCheckpoint, err)
	}

	inputSize, neuronCount := weights.Dims()
	if biases.Len() != neuronCount {
		return nil, fmt.Errorf("%w: %d biases for %d neurons", ErrInvalidCheckpoint, biases.Len(), neuronCount)
	}

	l, err := NewLayer(inputSize, neuronCount, activation, WithInit(func(_, _ int, _ *rand.Rand) *mat.Dense {
		return weights
	}))
	if err != nil {
		return nil, err
	}
	l.biases = biases
	return l, nil
}

func weightName(i int) string     { return "layers." + strconv.Itoa(i) + ".weight" }
func biasName(i int) string       { return "layers." + strconv.Itoa(i) + ".bias" }
func activationName(i int) string { return "layers." + strconv.Itoa(i) + ".activation" }
