package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// buildNetwork creates a network from (inputs, neurons, activation) triples
// using one seeded random source.
func buildNetwork(t *testing.T, seed int64, sizes []int, activations ...Activation) *Network {
	t.Helper()
	require.Len(t, activations, len(sizes)-1)

	rng := rand.New(rand.NewSource(seed))
	layers := make([]*Layer, 0, len(activations))
	for i, a := range activations {
		layer, err := NewLayer(sizes[i], sizes[i+1], a, WithRand(rng))
		require.NoError(t, err)
		layers = append(layers, layer)
	}

	net, err := NewNetwork(layers...)
	require.NoError(t, err)
	return net
}

// flatParams returns every weight followed by every bias, layer by layer.
func flatParams(n *Network) []float64 {
	var p []float64
	for _, l := range n.layers {
		p = append(p, l.weights.RawMatrix().Data...)
		p = append(p, l.biases.RawVector().Data...)
	}
	return p
}

// setFlatParams is the inverse of flatParams.
func setFlatParams(n *Network, p []float64) {
	off := 0
	for _, l := range n.layers {
		w := l.weights.RawMatrix().Data
		off += copy(w, p[off:off+len(w)])
		b := l.biases.RawVector().Data
		off += copy(b, p[off:off+len(b)])
	}
}

// TestNewNetwork_NoLayers tests that an empty layer list is rejected.
func TestNewNetwork_NoLayers(t *testing.T) {
	net, err := NewNetwork()
	assert.ErrorIs(t, err, ErrNoLayers)
	assert.Nil(t, net)

	net, err = NewNetwork([]*Layer{}...)
	assert.ErrorIs(t, err, ErrNoLayers)
	assert.Nil(t, net)
}

// TestNewNetwork_DimensionMismatch tests layer chaining validation.
func TestNewNetwork_DimensionMismatch(t *testing.T) {
	first, err := NewLayer(4, 3, SigmoidActivation)
	require.NoError(t, err)
	second, err := NewLayer(5, 2, SigmoidActivation)
	require.NoError(t, err)

	net, err := NewNetwork(first, second)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Nil(t, net)
}

// TestNewNetwork_NilLayer tests that a nil layer is rejected.
func TestNewNetwork_NilLayer(t *testing.T) {
	first, err := NewLayer(2, 2, SigmoidActivation)
	require.NoError(t, err)

	_, err = NewNetwork(first, nil)
	assert.ErrorIs(t, err, ErrNilLayer)
}

// TestNewNetwork_DuplicateLayer tests that one layer cannot fill two positions.
func TestNewNetwork_DuplicateLayer(t *testing.T) {
	shared, err := NewLayer(2, 2, SigmoidActivation)
	require.NoError(t, err)
	other, err := NewLayer(2, 2, SigmoidActivation)
	require.NoError(t, err)

	net, err := NewNetwork(shared, shared)
	assert.ErrorIs(t, err, ErrDuplicateLayer)
	assert.Nil(t, net)

	_, err = NewNetwork(shared, other, shared)
	assert.ErrorIs(t, err, ErrDuplicateLayer)
	assert.Contains(t, err.Error(), "layers 0 and 2")

	_, err = NewNetwork(shared, other)
	assert.NoError(t, err)
}

// TestNewNetwork_OwnsLayerList tests that changing the caller's slice does
// not change the network.
func TestNewNetwork_OwnsLayerList(t *testing.T) {
	a, err := NewLayer(2, 3, SigmoidActivation)
	require.NoError(t, err)
	b, err := NewLayer(3, 1, SigmoidActivation)
	require.NoError(t, err)
	c, err := NewLayer(3, 4, SigmoidActivation)
	require.NoError(t, err)

	layers := []*Layer{a, b}
	net, err := NewNetwork(layers...)
	require.NoError(t, err)

	layers[1] = c
	assert.Equal(t, 1, net.OutputSize())
	assert.Equal(t, 2, net.Len())
}

// TestNetwork_Forward tests that the network output equals the layers applied in order.
func TestNetwork_Forward(t *testing.T) {
	net := buildNetwork(t, 1, []int{4, 3, 2}, TanhActivation, SigmoidActivation)
	input := vec(0.1, -0.4, 0.9, 0.3)

	require.NoError(t, net.Forward(input))

	// Manual: a1 = tanh(W1ᵀx + b1), a2 = σ(W2ᵀa1 + b2).
	var z1, z2 mat.VecDense
	z1.MulVec(net.Layer(0).Weights().T(), input)
	a1 := Tanh(&z1)
	z2.MulVec(net.Layer(1).Weights().T(), a1)
	a2 := Sigmoid(&z2)

	assert.True(t, mat.EqualApprox(a1, net.Layer(0).Activation(), 1e-12))
	assert.True(t, mat.EqualApprox(a2, net.Output(), 1e-12))
	assert.Equal(t, 2, net.Output().Len())
}

// TestNetwork_ForwardWrongInput tests the input length check at the boundary.
func TestNetwork_ForwardWrongInput(t *testing.T) {
	net := buildNetwork(t, 1, []int{3, 2}, SigmoidActivation)

	err := net.Forward(vec(1, 2))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

// TestNetwork_BackpropagationDeltas checks the deltas of a two-layer network
// with known weights, including that the hidden delta uses the output
// layer's weights from before the update.
func TestNetwork_BackpropagationDeltas(t *testing.T) {
	net := buildNetwork(t, 1, []int{2, 2, 1}, ReLUActivation, SigmoidActivation)
	hidden, output := net.layers[0], net.layers[1]

	hidden.weights = mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	})
	output.weights = mat.NewDense(2, 1, []float64{
		2,
		-1,
	})

	input := vec(1, 2)
	target := vec(1)
	require.NoError(t, net.Forward(input))

	// hidden: z = [1, 2], a = [1, 2]; output: z = 2*1 - 1*2 = 0, a = 0.5
	assert.InDelta(t, 0.5, net.Output().AtVec(0), 1e-12)

	require.NoError(t, net.Backpropagation(input, target, 0.1))

	// δ_out = (0.5 - 1) * σ'(0) = -0.5 * 0.25 = -0.125
	assert.InDelta(t, -0.125, output.Delta().AtVec(0), 1e-12)

	// δ_hidden = (W_out · δ_out) ⊙ relu'(z) = [2, -1] * -0.125 = [-0.25, 0.125]
	assert.InDelta(t, -0.25, hidden.Delta().AtVec(0), 1e-12)
	assert.InDelta(t, 0.125, hidden.Delta().AtVec(1), 1e-12)

	// W_out ← W_out - 0.1 * (a_hidden ⊗ δ_out) = [2 + 0.0125, -1 + 0.025]
	assert.InDelta(t, 2.0125, output.weights.At(0, 0), 1e-12)
	assert.InDelta(t, -0.975, output.weights.At(1, 0), 1e-12)

	// W_hidden ← I - 0.1 * (x ⊗ δ_hidden)
	expected := mat.NewDense(2, 2, []float64{
		1.025, -0.0125,
		0.05, 0.975,
	})
	assert.True(t, mat.EqualApprox(expected, hidden.Weights(), 1e-12),
		"hidden weights = %v", mat.Formatted(hidden.Weights()))
}

// TestNetwork_GradientCheck compares the update applied by Backpropagation
// with a central finite-difference gradient of the loss.
func TestNetwork_GradientCheck(t *testing.T) {
	tests := []struct {
		name        string
		sizes       []int
		activations []Activation
	}{
		{"single sigmoid layer", []int{3, 2}, []Activation{SigmoidActivation}},
		{"single tanh layer", []int{3, 2}, []Activation{TanhActivation}},
		{"sigmoid-sigmoid", []int{4, 3, 2}, []Activation{SigmoidActivation, SigmoidActivation}},
		{"tanh-relu-sigmoid", []int{3, 5, 4, 2}, []Activation{TanhActivation, ReLUActivation, SigmoidActivation}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := buildNetwork(t, 21, tt.sizes, tt.activations...)
			probe := buildNetwork(t, 0, tt.sizes, tt.activations...)

			input := mat.NewVecDense(tt.sizes[0], nil)
			for i := 0; i < input.Len(); i++ {
				input.SetVec(i, 0.3*float64(i+1)-0.5)
			}
			target := mat.NewVecDense(tt.sizes[len(tt.sizes)-1], nil)
			target.SetVec(0, 1)

			before := flatParams(net)
			loss := func(p []float64) float64 {
				setFlatParams(probe, p)
				require.NoError(t, probe.Forward(input))
				return MeanSquaredError(probe.Output(), target)
			}
			numeric := fd.Gradient(nil, loss, before, &fd.Settings{
				Formula: fd.Central,
				Step:    1e-6,
			})

			const lr = 1.0
			require.NoError(t, net.Forward(input))
			require.NoError(t, net.Backpropagation(input, target, lr))
			after := flatParams(net)

			require.Len(t, numeric, len(before))
			for i := range before {
				analytic := (before[i] - after[i]) / lr
				assert.InDelta(t, numeric[i], analytic, 1e-6, "parameter %d", i)
			}
		})
	}
}

// TestNetwork_BackpropagationWrongTarget tests the target length check.
func TestNetwork_BackpropagationWrongTarget(t *testing.T) {
	net := buildNetwork(t, 1, []int{2, 3}, SigmoidActivation)
	input := vec(1, 0)
	require.NoError(t, net.Forward(input))

	before := net.Layer(0).Weights()
	err := net.Backpropagation(input, vec(1, 0), 0.1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.True(t, mat.Equal(before, net.Layer(0).Weights()), "no update on error")

	err = net.Backpropagation(vec(1), vec(1, 0, 0), 0.1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

// separableData returns two clusters on either side of the line x + y = 0.
func separableData() (inputs, targets []*mat.VecDense) {
	points := [][2]float64{
		{-1.0, -0.5}, {1.0, 0.6},
		{-0.8, -1.0}, {0.7, 1.1},
		{-1.2, -0.2}, {1.3, 0.3},
		{-0.4, -1.1}, {0.5, 0.9},
	}
	for i, p := range points {
		inputs = append(inputs, vec(p[0], p[1]))
		if i%2 == 0 {
			targets = append(targets, vec(1, 0))
		} else {
			targets = append(targets, vec(0, 1))
		}
	}
	return inputs, targets
}

// longestDecreasingRun returns the length of the longest strictly
// decreasing run of consecutive values.
func longestDecreasingRun(values []float64) int {
	if len(values) == 0 {
		return 0
	}
	best, run := 1, 1
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}

// TestNetwork_TrainSeparable tests that training on a linearly separable
// dataset lowers the loss and classifies every sample.
func TestNetwork_TrainSeparable(t *testing.T) {
	net := buildNetwork(t, 42, []int{2, 2}, SigmoidActivation)
	inputs, targets := separableData()

	losses, err := net.Train(inputs, targets, 0.5, 200)
	require.NoError(t, err)
	require.Len(t, losses, 200)

	assert.GreaterOrEqual(t, longestDecreasingRun(losses), 3)
	assert.Less(t, losses[len(losses)-1], losses[0])

	accuracy, err := net.Test(inputs, targets)
	require.NoError(t, err)
	assert.Equal(t, 1.0, accuracy)
}

// TestNetwork_TrainEndToEnd trains a 4-3-2 sigmoid network for 5 epochs and
// expects the mean loss to fall every epoch.
func TestNetwork_TrainEndToEnd(t *testing.T) {
	net := buildNetwork(t, 7, []int{4, 3, 2}, SigmoidActivation, SigmoidActivation)

	inputs := []*mat.VecDense{
		vec(1, 0, 0, 1),
		vec(0, 1, 1, 0),
		vec(1, 1, 0, 0),
		vec(0, 0, 1, 1),
	}
	targets := []*mat.VecDense{
		vec(1, 0),
		vec(0, 1),
		vec(1, 0),
		vec(0, 1),
	}

	var observed []EpochStats
	net.OnEpoch(func(s EpochStats) {
		observed = append(observed, s)
	})

	losses, err := net.Train(inputs, targets, 0.1, 5)
	require.NoError(t, err)
	require.Len(t, losses, 5)

	for i := 1; i < len(losses); i++ {
		assert.Less(t, losses[i], losses[i-1], "epoch %d loss did not decrease", i+1)
	}

	require.Len(t, observed, 5)
	for i, s := range observed {
		assert.Equal(t, i+1, s.Epoch)
		assert.Equal(t, 5, s.Epochs)
		assert.Equal(t, losses[i], s.Loss)
	}
}

// TestNetwork_TrainReportsPreUpdateLoss tests that a single epoch on a single
// sample reports the loss measured before the update.
func TestNetwork_TrainReportsPreUpdateLoss(t *testing.T) {
	net := buildNetwork(t, 3, []int{2, 2}, SigmoidActivation)
	input, target := vec(0.2, -0.7), vec(0, 1)

	require.NoError(t, net.Forward(input))
	want := MeanSquaredError(net.Output(), target)

	losses, err := net.Train([]*mat.VecDense{input}, []*mat.VecDense{target}, 0.1, 1)
	require.NoError(t, err)
	assert.InDelta(t, want, losses[0], 1e-12)
}

// constantNetwork returns a single-layer network whose output is σ([1, -1])
// for every input, so its argmax is always 0.
func constantNetwork(t *testing.T) *Network {
	t.Helper()
	layer, err := NewLayer(2, 2, SigmoidActivation)
	require.NoError(t, err)
	layer.weights = mat.NewDense(2, 2, nil)
	layer.biases = vec(1, -1)

	net, err := NewNetwork(layer)
	require.NoError(t, err)
	return net
}

// TestNetwork_TestAccuracy tests 0% and 100% accuracy on a constant network.
func TestNetwork_TestAccuracy(t *testing.T) {
	net := constantNetwork(t)
	inputs := []*mat.VecDense{vec(0, 0), vec(1, -3), vec(5, 2)}

	disagree := []*mat.VecDense{vec(0, 1), vec(0, 1), vec(0, 1)}
	accuracy, err := net.Test(inputs, disagree)
	require.NoError(t, err)
	assert.Equal(t, 0.0, accuracy)

	agree := []*mat.VecDense{vec(1, 0), vec(1, 0), vec(1, 0)}
	accuracy, err = net.Test(inputs, agree)
	require.NoError(t, err)
	assert.Equal(t, 1.0, accuracy)

	mixed := []*mat.VecDense{vec(1, 0), vec(0, 1), vec(0, 1)}
	accuracy, err = net.Test(inputs, mixed)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, accuracy, 1e-12)
}

// TestNetwork_Predict tests the argmax of the output.
func TestNetwork_Predict(t *testing.T) {
	net := constantNetwork(t)

	class, err := net.Predict(vec(3, 4))
	require.NoError(t, err)
	assert.Equal(t, 0, class)

	_, err = net.Predict(vec(3))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

// TestNetwork_NoData tests that empty datasets are reported, not averaged.
func TestNetwork_NoData(t *testing.T) {
	net := buildNetwork(t, 1, []int{2, 2}, SigmoidActivation)

	losses, err := net.Train(nil, nil, 0.1, 3)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Nil(t, losses)

	accuracy, err := net.Test([]*mat.VecDense{}, []*mat.VecDense{})
	assert.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, 0.0, accuracy)
}

// TestNetwork_LengthMismatch tests unequal input and target sequences.
func TestNetwork_LengthMismatch(t *testing.T) {
	net := buildNetwork(t, 1, []int{2, 2}, SigmoidActivation)
	inputs := []*mat.VecDense{vec(1, 0), vec(0, 1)}
	targets := []*mat.VecDense{vec(1, 0)}

	_, err := net.Train(inputs, targets, 0.1, 1)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = net.Test(inputs, targets)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

// TestNetwork_TrainEpochs tests zero and negative epoch counts.
func TestNetwork_TrainEpochs(t *testing.T) {
	net := buildNetwork(t, 1, []int{2, 2}, SigmoidActivation)
	inputs, targets := separableData()

	before := net.Layer(0).Weights()
	losses, err := net.Train(inputs, targets, 0.1, 0)
	require.NoError(t, err)
	assert.Empty(t, losses)
	assert.True(t, mat.Equal(before, net.Layer(0).Weights()))

	_, err = net.Train(inputs, targets, 0.1, -1)
	assert.ErrorIs(t, err, ErrInvalidEpochs)
}

// TestNetwork_TrainWrongSample tests that a malformed sample stops training
// with the epoch and sample in the error.
func TestNetwork_TrainWrongSample(t *testing.T) {
	net := buildNetwork(t, 1, []int{2, 2}, SigmoidActivation)
	inputs := []*mat.VecDense{vec(1, 0), vec(1, 0, 0)}
	targets := []*mat.VecDense{vec(1, 0), vec(0, 1)}

	_, err := net.Train(inputs, targets, 0.1, 2)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Contains(t, err.Error(), "epoch 1, sample 1")

	_, err = net.Test([]*mat.VecDense{vec(1, 0)}, []*mat.VecDense{vec(1)})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

// TestNetwork_LayerView tests read-only inspection.
func TestNetwork_LayerView(t *testing.T) {
	net := buildNetwork(t, 1, []int{3, 4, 2}, ReLUActivation, SigmoidActivation)

	view := net.Layer(1)
	assert.Equal(t, 4, view.InputSize())
	assert.Equal(t, 2, view.NeuronCount())
	assert.Equal(t, SigmoidActivation, view.Kind())

	w := view.Weights()
	w.Set(0, 0, 123)
	assert.NotEqual(t, 123.0, net.Layer(1).Weights().At(0, 0))

	_, isLayer := view.(*Layer)
	assert.False(t, isLayer, "view must not expose the mutable layer")

	assert.Panics(t, func() { net.Layer(2) })
	assert.Panics(t, func() { net.Layer(-1) })
}
