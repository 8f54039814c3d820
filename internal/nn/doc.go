// Package nn implements dense layers and a multilayer perceptron trained by
// per-sample backpropagation on gonum vectors.
package nn
