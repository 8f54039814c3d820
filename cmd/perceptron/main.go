// Package main provides the perceptron CLI: train a multilayer perceptron on
// MNIST (or embedded synthetic digits) and report test accuracy.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/klauspost/cpuid/v2"

	"github.com/born-ml/perceptron/internal/dataset"
	"github.com/born-ml/perceptron/internal/nn"
	"github.com/born-ml/perceptron/internal/parallel"
)

const version = "v0.1.0"

// options holds the command line configuration.
type options struct {
	dataDir    string
	synthetic  bool
	maxSamples int
	hidden     int
	activation string
	init       string
	epochs     int
	lr         float64
	seed       int64
	loadPath   string
	savePath   string
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("perceptron %s\n", version)
		return
	}

	var opts options
	flag.StringVar(&opts.dataDir, "data", "./data", "Directory containing MNIST IDX files")
	flag.BoolVar(&opts.synthetic, "synthetic", false, "Use embedded synthetic digits instead of MNIST files")
	flag.IntVar(&opts.maxSamples, "samples", 0, "Max samples to load per split (0 = all)")
	flag.IntVar(&opts.hidden, "hidden", 64, "Hidden layer size")
	flag.StringVar(&opts.activation, "activation", "sigmoid", "Activation for both layers: sigmoid, tanh or relu")
	flag.StringVar(&opts.init, "init", "uniform", "Weight initializer: uniform or xavier")
	flag.IntVar(&opts.epochs, "epochs", 3, "Number of training epochs")
	flag.Float64Var(&opts.lr, "lr", 0.1, "Learning rate")
	flag.Int64Var(&opts.seed, "seed", 0, "Random seed for weight initialization (0 = time based)")
	flag.StringVar(&opts.loadPath, "load", "", "Start from a network saved with -save instead of random weights")
	flag.StringVar(&opts.savePath, "save", "", "Write the trained network to this SafeTensors file")
	flag.Parse()

	fmt.Printf("perceptron %s\n", version)
	fmt.Printf("CPU: %s (%d cores used for data loading)\n", cpuid.CPU.BrandName, parallel.Cores())

	train, test, err := loadData(opts)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("\nError: MNIST data files not found!")
			fmt.Println("\nExpected in the -data directory:")
			fmt.Println("  train-images-idx3-ubyte, train-labels-idx1-ubyte")
			fmt.Println("  t10k-images-idx3-ubyte,  t10k-labels-idx1-ubyte")
			fmt.Println("\nOr run with -synthetic to use embedded test patterns.")
			os.Exit(1)
		}
		log.Fatalf("Failed to load data: %v", err)
	}
	fmt.Printf("Train: %d samples, Test: %d samples\n", train.Len(), test.Len())

	net, err := buildNetwork(opts, train.InputSize(), train.Classes())
	if err != nil {
		log.Fatalf("Failed to build network: %v", err)
	}
	printNetwork(net)

	net.OnEpoch(func(s nn.EpochStats) {
		fmt.Printf("Epoch %d/%d, Loss: %.6f\n", s.Epoch, s.Epochs, s.Loss)
	})

	start := time.Now()
	if _, err := net.Train(train.Inputs, train.Targets, opts.lr, opts.epochs); err != nil {
		log.Fatalf("Training failed: %v", err)
	}
	fmt.Printf("Training took %v\n", time.Since(start).Round(time.Millisecond))

	if opts.savePath != "" {
		if err := net.Save(opts.savePath); err != nil {
			log.Fatalf("Failed to save network: %v", err)
		}
		fmt.Printf("Saved network to %s\n", opts.savePath)
	}

	accuracy, err := net.Test(test.Inputs, test.Targets)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	fmt.Printf("Accuracy: %.2f%%\n", accuracy*100.0)
}

// loadData returns the train and test splits.
//
// The embedded synthetic set is used for both splits since it has one
// sample per class.
func loadData(opts options) (train, test *dataset.Dataset, err error) {
	if opts.synthetic {
		data := dataset.Embedded()
		return data, data, nil
	}

	train, err = dataset.LoadMNIST(opts.dataDir, true, opts.maxSamples)
	if err != nil {
		return nil, nil, err
	}
	test, err = dataset.LoadMNIST(opts.dataDir, false, opts.maxSamples)
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

// buildNetwork loads the network from opts.loadPath, or creates the
// two-layer network described by opts.
func buildNetwork(opts options, inputSize, classes int) (*nn.Network, error) {
	if opts.loadPath != "" {
		net, err := nn.Load(opts.loadPath)
		if err != nil {
			return nil, err
		}
		if net.InputSize() != inputSize || net.OutputSize() != classes {
			return nil, fmt.Errorf("loaded network is %d -> %d, data is %d -> %d: %w",
				net.InputSize(), net.OutputSize(), inputSize, classes, nn.ErrDimensionMismatch)
		}
		return net, nil
	}

	activation, err := nn.ParseActivation(opts.activation)
	if err != nil {
		return nil, err
	}
	initializer, err := parseInit(opts.init)
	if err != nil {
		return nil, err
	}

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	//nolint:gosec // Using math/rand for weight initialization (not security-critical)
	rng := rand.New(rand.NewSource(seed))

	hidden, err := nn.NewLayer(inputSize, opts.hidden, activation, nn.WithRand(rng), nn.WithInit(initializer))
	if err != nil {
		return nil, fmt.Errorf("hidden layer: %w", err)
	}
	output, err := nn.NewLayer(opts.hidden, classes, activation, nn.WithRand(rng), nn.WithInit(initializer))
	if err != nil {
		return nil, fmt.Errorf("output layer: %w", err)
	}
	return nn.NewNetwork(hidden, output)
}

func printNetwork(net *nn.Network) {
	fmt.Printf("Network: %d", net.InputSize())
	for i := 0; i < net.Len(); i++ {
		l := net.Layer(i)
		fmt.Printf(" -> %d (%s)", l.NeuronCount(), l.Kind())
	}
	fmt.Println()
}

func parseInit(name string) (nn.Initializer, error) {
	switch name {
	case "uniform":
		return nn.Uniform, nil
	case "xavier":
		return nn.Xavier, nil
	default:
		return nil, fmt.Errorf("unknown initializer %q", name)
	}
}
