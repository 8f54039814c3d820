package nn

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Network is an ordered, non-empty stack of dense layers trained by
// per-sample stochastic backpropagation.
//
// Each layer's output becomes the next layer's input. The network owns its
// layers exclusively; inspection goes through Layer, which exposes copies.
//
// A Network is not safe for concurrent use: Forward, Backpropagation, Train
// and Test all mutate the per-sample state cached in the layers.
//
// Example:
//
//	hidden, _ := nn.NewLayer(784, 64, nn.SigmoidActivation)
//	output, _ := nn.NewLayer(64, 10, nn.SigmoidActivation)
//	net, err := nn.NewNetwork(hidden, output)
//	if err != nil {
//	    return err
//	}
//	losses, err := net.Train(inputs, targets, 0.1, 3)
type Network struct {
	layers  []*Layer
	onEpoch func(EpochStats)
}

// EpochStats describes one completed training epoch.
type EpochStats struct {
	Epoch  int     // 1-based epoch number
	Epochs int     // Total epochs requested
	Loss   float64 // Mean per-sample loss over the epoch
}

// NewNetwork creates a network from pre-constructed layers.
//
// Returns ErrNoLayers for an empty list, ErrNilLayer if any layer is nil,
// ErrDuplicateLayer if the same layer appears twice and ErrDimensionMismatch
// if layer i's input size differs from layer i-1's neuron count.
func NewNetwork(layers ...*Layer) (*Network, error) {
	if len(layers) == 0 {
		return nil, ErrNoLayers
	}
	seen := make(map[*Layer]int, len(layers))
	for i, l := range layers {
		if l == nil {
			return nil, fmt.Errorf("layer %d: %w", i, ErrNilLayer)
		}
		if first, ok := seen[l]; ok {
			return nil, fmt.Errorf("layers %d and %d: %w", first, i, ErrDuplicateLayer)
		}
		seen[l] = i
		if i > 0 && l.inputSize != layers[i-1].neuronCount {
			return nil, fmt.Errorf("layer %d expects %d inputs, layer %d has %d neurons: %w",
				i, l.inputSize, i-1, layers[i-1].neuronCount, ErrDimensionMismatch)
		}
	}

	owned := make([]*Layer, len(layers))
	copy(owned, layers)
	return &Network{layers: owned}, nil
}

// OnEpoch registers a function called after every training epoch.
func (n *Network) OnEpoch(fn func(EpochStats)) {
	n.onEpoch = fn
}

// Len returns the number of layers.
func (n *Network) Len() int {
	return len(n.layers)
}

// Layer returns a read-only view of the layer at the given index.
//
// Panics if index is out of bounds.
func (n *Network) Layer(index int) LayerView {
	if index < 0 || index >= len(n.layers) {
		panic("Network.Layer: index out of bounds")
	}
	return layerView{n.layers[index]}
}

// layerView hides the mutating methods of a network-owned layer.
type layerView struct {
	l *Layer
}

func (v layerView) InputSize() int { return v.l.InputSize() }
func (v layerView) NeuronCount() int { return v.l.NeuronCount() }
func (v layerView) Kind() Activation { return v.l.Kind() }
func (v layerView) Weights() *mat.Dense { return v.l.Weights() }
func (v layerView) Biases() *mat.VecDense { return v.l.Biases() }
func (v layerView) PreActivation() *mat.VecDense { return v.l.PreActivation() }
func (v layerView) Activation() *mat.VecDense { return v.l.Activation() }
func (v layerView) Delta() *mat.VecDense { return v.l.Delta() }

// InputSize returns the input length expected by the first layer.
func (n *Network) InputSize() int {
	return n.layers[0].inputSize
}

// OutputSize returns the neuron count of the last layer.
func (n *Network) OutputSize() int {
	return n.layers[len(n.layers)-1].neuronCount
}

// Forward runs one sample through every layer, front to back.
//
// Layer 0 consumes input; every other layer consumes its predecessor's
// cached activation.
func (n *Network) Forward(input mat.Vector) error {
	if input.Len() != n.InputSize() {
		return fmt.Errorf("input has %d elements, network expects %d: %w",
			input.Len(), n.InputSize(), ErrDimensionMismatch)
	}

	n.layers[0].Forward(input)
	for i := 1; i < len(n.layers); i++ {
		n.layers[i].Forward(n.layers[i-1].output)
	}
	return nil
}

// Output returns a copy of the last layer's activation.
func (n *Network) Output() *mat.VecDense {
	return n.layers[len(n.layers)-1].Activation()
}

// Backpropagation computes every layer's delta for the sample last passed to
// Forward and then applies one gradient-descent step to every layer.
//
//	δ_L = (output - target) ⊙ f'_L(z_L)
//	δ_i = (W_{i+1} · δ_{i+1}) ⊙ f'_i(z_i)    for i = L-1 … 0
//
// W_{i+1} is [neurons_i, neurons_{i+1}], so no transpose is needed going
// backward. All deltas are computed from the pre-update weights before any
// layer is modified. input must be the vector last passed to Forward.
func (n *Network) Backpropagation(input, target mat.Vector, learningRate float64) error {
	if input.Len() != n.InputSize() {
		return fmt.Errorf("input has %d elements, network expects %d: %w",
			input.Len(), n.InputSize(), ErrDimensionMismatch)
	}
	if err := n.checkTarget(target); err != nil {
		return err
	}

	last := n.layers[len(n.layers)-1]
	delta := MeanSquaredErrorGradient(last.output, target)
	delta.MulElemVec(delta, last.ActivationDerivative())
	last.delta = delta

	for i := len(n.layers) - 2; i >= 0; i-- {
		next := n.layers[i+1]
		hidden := mat.NewVecDense(n.layers[i].neuronCount, nil)
		hidden.MulVec(next.weights, next.delta)
		hidden.MulElemVec(hidden, n.layers[i].ActivationDerivative())
		n.layers[i].delta = hidden
	}

	for i, l := range n.layers {
		layerInput := input
		if i > 0 {
			layerInput = n.layers[i-1].output
		}
		l.UpdateWeights(layerInput, learningRate)
	}
	return nil
}

// Train runs per-sample stochastic gradient descent for the given number of
// epochs and returns the mean loss of every epoch.
//
// Samples are visited in order, without shuffling. For each pair the network
// runs Forward, accumulates MeanSquaredError and runs Backpropagation.
//
// Returns ErrLengthMismatch if inputs and targets differ in length, ErrNoData
// if there are no samples and ErrInvalidEpochs for a negative epoch count.
func (n *Network) Train(inputs, targets []*mat.VecDense, learningRate float64, epochs int) ([]float64, error) {
	if err := checkSamples(inputs, targets); err != nil {
		return nil, err
	}
	if epochs < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidEpochs, epochs)
	}

	losses := make([]float64, 0, epochs)
	for epoch := 0; epoch < epochs; epoch++ {
		var epochLoss float64
		for i := range inputs {
			if err := n.checkTarget(targets[i]); err != nil {
				return losses, fmt.Errorf("epoch %d, sample %d: %w", epoch+1, i, err)
			}
			if err := n.Forward(inputs[i]); err != nil {
				return losses, fmt.Errorf("epoch %d, sample %d: %w", epoch+1, i, err)
			}
			epochLoss += MeanSquaredError(n.layers[len(n.layers)-1].output, targets[i])
			if err := n.Backpropagation(inputs[i], targets[i], learningRate); err != nil {
				return losses, fmt.Errorf("epoch %d, sample %d: %w", epoch+1, i, err)
			}
		}
		epochLoss /= float64(len(inputs))
		losses = append(losses, epochLoss)

		if n.onEpoch != nil {
			n.onEpoch(EpochStats{Epoch: epoch + 1, Epochs: epochs, Loss: epochLoss})
		}
	}
	return losses, nil
}

// Test returns the fraction of samples whose output argmax equals the
// target argmax.
//
// Targets are treated as one-hot class labels; this is not enforced.
func (n *Network) Test(inputs, targets []*mat.VecDense) (float64, error) {
	if err := checkSamples(inputs, targets); err != nil {
		return 0, err
	}

	correct := 0
	for i := range inputs {
		if err := n.checkTarget(targets[i]); err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		predicted, err := n.Predict(inputs[i])
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		if predicted == argmax(targets[i]) {
			correct++
		}
	}
	return float64(correct) / float64(len(inputs)), nil
}

// Predict runs Forward and returns the index of the largest output.
func (n *Network) Predict(input mat.Vector) (int, error) {
	if err := n.Forward(input); err != nil {
		return 0, err
	}
	return argmax(n.layers[len(n.layers)-1].output), nil
}

func (n *Network) checkTarget(target mat.Vector) error {
	if target.Len() != n.OutputSize() {
		return fmt.Errorf("target has %d elements, network outputs %d: %w",
			target.Len(), n.OutputSize(), ErrDimensionMismatch)
	}
	return nil
}

func checkSamples(inputs, targets []*mat.VecDense) error {
	if len(inputs) != len(targets) {
		return fmt.Errorf("%w: %d inputs, %d targets", ErrLengthMismatch, len(inputs), len(targets))
	}
	if len(inputs) == 0 {
		return ErrNoData
	}
	return nil
}

// argmax returns the index of the first maximum element.
func argmax(v mat.Vector) int {
	return floats.MaxIdx(mat.Col(nil, 0, v))
}
