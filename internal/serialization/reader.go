package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
)

// ReaderOptions configures Read.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// Read decodes a SafeTensors stream with strict validation.
func Read(r io.Reader) (map[string]*Tensor, map[string]string, error) {
	return ReadWithOptions(r, ReaderOptions{ValidationLevel: ValidationStrict})
}

// ReadWithOptions decodes a SafeTensors stream.
//
// Returns the tensors by name and the header metadata. Files without a
// checksum entry are accepted; a present checksum must match.
func ReadWithOptions(r io.Reader, opts ReaderOptions) (map[string]*Tensor, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, nil, fmt.Errorf("failed to parse header: %w", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read tensor data: %w", err)
	}

	if err := ValidateHeader(&header, int64(len(data)), opts.ValidationLevel); err != nil {
		return nil, nil, fmt.Errorf("validation failed: %w", err)
	}
	if stored, ok := header.Metadata[ChecksumKey]; ok && !opts.SkipChecksumValidation {
		if err := ValidateChecksum(data, stored); err != nil {
			return nil, nil, err
		}
	}

	tensors := make(map[string]*Tensor, len(header.Tensors))
	for name, info := range header.Tensors {
		if info.DType != DTypeF64 {
			return nil, nil, fmt.Errorf("tensor %q: %w: %s", name, ErrUnsupportedDType, info.DType)
		}
		start, end := info.DataOffsets[0], info.DataOffsets[1]
		if start < 0 || end < start || end > int64(len(data)) || (end-start)%ElementSize != 0 {
			return nil, nil, fmt.Errorf("tensor %q: %w: offsets %v", name, ErrValidation, info.DataOffsets)
		}

		raw := data[start:end]
		values := make([]float64, len(raw)/ElementSize)
		for i := range values {
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*ElementSize:]))
		}
		shape := make([]int, len(info.Shape))
		for i, dim := range info.Shape {
			shape[i] = int(dim)
		}
		tensors[name] = &Tensor{Shape: shape, Data: values}
	}

	return tensors, header.Metadata, nil
}

// ReadFile reads a SafeTensors file with strict validation.
func ReadFile(path string) (map[string]*Tensor, map[string]string, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close() // Best effort close
	}()

	return Read(bufio.NewReader(file))
}
