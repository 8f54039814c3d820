package serialization

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Format constants.
const (
	DTypeF64    = "F64"          // Only element type written and accepted
	ElementSize = 8              // Bytes per F64 element
	MetadataKey = "__metadata__" // Reserved header key for string metadata
)

// TensorInfo describes a tensor in the SafeTensors header.
type TensorInfo struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"` // [start, end) within the data section
}

// Header is the JSON header of a SafeTensors file.
type Header struct {
	Metadata map[string]string
	Tensors  map[string]TensorInfo
}

// MarshalJSON flattens the header into a single JSON object.
func (h Header) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(h.Tensors)+1)
	if len(h.Metadata) > 0 {
		flat[MetadataKey] = h.Metadata
	}
	for name, info := range h.Tensors {
		flat[name] = info
	}
	return json.Marshal(flat)
}

// UnmarshalJSON splits the flat JSON object into metadata and tensors.
func (h *Header) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	h.Tensors = make(map[string]TensorInfo, len(raw))
	for name, value := range raw {
		if name == MetadataKey {
			if err := json.Unmarshal(value, &h.Metadata); err != nil {
				return fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
			continue
		}
		var info TensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return fmt.Errorf("failed to unmarshal tensor %q: %w", name, err)
		}
		h.Tensors[name] = info
	}
	return nil
}

// Tensor is a dense float64 array in row-major order.
type Tensor struct {
	Shape []int
	Data  []float64
}

// FromMatrix copies m into a tensor of shape [rows, cols].
func FromMatrix(m mat.Matrix) *Tensor {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return &Tensor{Shape: []int{r, c}, Data: data}
}

// FromVector copies v into a tensor of shape [len].
func FromVector(v mat.Vector) *Tensor {
	return &Tensor{Shape: []int{v.Len()}, Data: mat.Col(nil, 0, v)}
}

// NumElements returns the product of the shape.
func (t *Tensor) NumElements() int {
	n := 1
	for _, dim := range t.Shape {
		n *= dim
	}
	return n
}

// Dense returns the tensor as a matrix. The tensor must be two-dimensional.
func (t *Tensor) Dense() (*mat.Dense, error) {
	if len(t.Shape) != 2 {
		return nil, fmt.Errorf("%w: expected 2 dimensions, got shape %v", ErrShapeMismatch, t.Shape)
	}
	if err := t.check(); err != nil {
		return nil, err
	}
	data := make([]float64, len(t.Data))
	copy(data, t.Data)
	return mat.NewDense(t.Shape[0], t.Shape[1], data), nil
}

// VecDense returns the tensor as a vector. The tensor must be one-dimensional.
func (t *Tensor) VecDense() (*mat.VecDense, error) {
	if len(t.Shape) != 1 {
		return nil, fmt.Errorf("%w: expected 1 dimension, got shape %v", ErrShapeMismatch, t.Shape)
	}
	if err := t.check(); err != nil {
		return nil, err
	}
	data := make([]float64, len(t.Data))
	copy(data, t.Data)
	return mat.NewVecDense(t.Shape[0], data), nil
}

func (t *Tensor) check() error {
	for _, dim := range t.Shape {
		if dim <= 0 {
			return fmt.Errorf("%w: non-positive dimension in shape %v", ErrShapeMismatch, t.Shape)
		}
	}
	if t.NumElements() != len(t.Data) {
		return fmt.Errorf("%w: shape %v holds %d elements, data has %d",
			ErrShapeMismatch, t.Shape, t.NumElements(), len(t.Data))
	}
	return nil
}
