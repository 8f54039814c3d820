package serialization

import (
	"fmt"
	"sort"
	"strings"
)

// Validation limits for security and resource protection.
const (
	MaxHeaderSize    = 100 * 1024 * 1024 // 100MB - maximum header size
	MaxTensorCount   = 100_000           // Maximum number of tensors in a file
	MaxTensorNameLen = 4096              // Maximum tensor name length
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal checks names, dtypes and shapes but not offset overlap.
	ValidationNormal
	// ValidationNone skips validation. Use only with trusted input.
	ValidationNone
)

// ValidateTensorName rejects names that are empty, too long or contain path
// separators, ".." or null bytes.
func ValidateTensorName(name string) error {
	if name == "" {
		return &ValidationError{Type: "invalid_name", Details: "empty tensor name"}
	}
	if len(name) > MaxTensorNameLen {
		return &ValidationError{
			Type:    "name_too_long",
			Tensor:  name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	}
	if strings.Contains(name, "..") {
		return &ValidationError{
			Type:    "invalid_name",
			Tensor:  name,
			Details: "contains '..' (path traversal attempt)",
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return &ValidationError{
			Type:    "invalid_name",
			Tensor:  name,
			Details: "contains path separator (/ or \\)",
		}
	}
	if strings.Contains(name, "\x00") {
		return &ValidationError{
			Type:    "invalid_name",
			Tensor:  name,
			Details: "contains null byte",
		}
	}
	return nil
}

// ValidateHeader checks every tensor entry against the data section size.
//
// All levels except ValidationNone check names, dtype, bounds and that the
// shape matches the offset span. ValidationStrict also rejects overlapping
// tensors.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}
	if len(h.Tensors) > MaxTensorCount {
		return &ValidationError{
			Type:    "too_many_tensors",
			Details: fmt.Sprintf("got %d, max %d", len(h.Tensors), MaxTensorCount),
		}
	}

	names := make([]string, 0, len(h.Tensors))
	for name := range h.Tensors {
		names = append(names, name)
	}
	sort.Strings(names)

	spans := make([]tensorSpan, 0, len(names))
	for _, name := range names {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		span, err := spanOf(name, h.Tensors[name], dataSize)
		if err != nil {
			return err
		}
		spans = append(spans, span)
	}

	if level != ValidationStrict {
		return nil
	}
	return checkOverlap(spans)
}

// tensorSpan is the byte range [start, end) of one tensor in the data section.
type tensorSpan struct {
	name       string
	start, end int64
}

// spanOf returns the byte range of one header entry after checking its dtype,
// bounds and shape.
func spanOf(name string, info TensorInfo, dataSize int64) (tensorSpan, error) {
	if info.DType != DTypeF64 {
		return tensorSpan{}, fmt.Errorf("tensor %q: %w: %s", name, ErrUnsupportedDType, info.DType)
	}

	start, end := info.DataOffsets[0], info.DataOffsets[1]
	if start < 0 || end < start {
		return tensorSpan{}, &ValidationError{
			Type:    "negative_offset",
			Tensor:  name,
			Details: fmt.Sprintf("data_offsets [%d, %d]", start, end),
		}
	}
	if end > dataSize {
		return tensorSpan{}, &ValidationError{
			Type:    "out_of_bounds",
			Tensor:  name,
			Details: fmt.Sprintf("end %d > data_size %d", end, dataSize),
		}
	}

	// The element count never exceeds what the data section holds, so the
	// running product cannot overflow.
	limit := dataSize / ElementSize
	elements := int64(1)
	for _, dim := range info.Shape {
		if dim <= 0 || elements > limit/dim {
			return tensorSpan{}, fmt.Errorf("tensor %q: %w: shape %v does not fit %d bytes",
				name, ErrShapeMismatch, info.Shape, dataSize)
		}
		elements *= dim
	}
	if elements*ElementSize != end-start {
		return tensorSpan{}, fmt.Errorf("tensor %q: %w: shape %v needs %d bytes, offsets span %d",
			name, ErrShapeMismatch, info.Shape, elements*ElementSize, end-start)
	}

	return tensorSpan{name: name, start: start, end: end}, nil
}

// checkOverlap reports the first pair of spans sharing a byte.
func checkOverlap(spans []tensorSpan) error {
	sort.Slice(spans, func(i, j int) bool {
		return spans[i].start < spans[j].start
	})
	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1], spans[i]
		if cur.start < prev.end {
			return &ValidationError{
				Type:    "offset_overlap",
				Tensor:  prev.name,
				Tensor2: cur.name,
				Details: fmt.Sprintf("[%d-%d] and [%d-%d]", prev.start, prev.end, cur.start, cur.end),
			}
		}
	}
	return nil
}
