package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
)

// Write encodes tensors and metadata in SafeTensors format.
//
// Tensors are written in alphabetical order by name. A SHA-256 checksum of
// the data section is stored under ChecksumKey, replacing any caller value.
func Write(w io.Writer, tensors map[string]*Tensor, metadata map[string]string) error {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		names = append(names, name)
	}
	sort.Strings(names)

	header := Header{
		Metadata: make(map[string]string, len(metadata)+1),
		Tensors:  make(map[string]TensorInfo, len(tensors)),
	}
	for k, v := range metadata {
		header.Metadata[k] = v
	}

	var data bytes.Buffer
	var offset int64
	buf := make([]byte, ElementSize)
	for _, name := range names {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		t := tensors[name]
		if err := t.check(); err != nil {
			return fmt.Errorf("tensor %q: %w", name, err)
		}

		shape := make([]int64, len(t.Shape))
		for i, dim := range t.Shape {
			shape[i] = int64(dim)
		}
		size := int64(len(t.Data) * ElementSize)
		header.Tensors[name] = TensorInfo{
			DType:       DTypeF64,
			Shape:       shape,
			DataOffsets: [2]int64{offset, offset + size},
		}
		offset += size

		for _, v := range t.Data {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			data.Write(buf)
		}
	}

	sum := ComputeChecksum(data.Bytes())
	header.Metadata[ChecksumKey] = hex.EncodeToString(sum[:])

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(data.Bytes()); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}

// WriteFile writes tensors to a SafeTensors file at path.
func WriteFile(path string, tensors map[string]*Tensor, metadata map[string]string) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return Write(file, tensors, metadata)
}
