package dataset

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// IDX magic numbers for unsigned-byte image and label files.
const (
	imageMagic = 2051 // 0x00000803
	labelMagic = 2049 // 0x00000801
)

// Header limits for IDX image files.
const (
	MaxImageDim   = 1 << 12 // rows and cols
	MaxImageCount = 1 << 28
)

// Images holds the raw pixels of an IDX image file.
type Images struct {
	Rows   int
	Cols   int
	Pixels [][]byte // [count][rows*cols], row-major
}

// ReadImages reads an IDX image file.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255)
//
// All header fields are big-endian.
func ReadImages(r io.Reader) (*Images, error) {
	var header [4]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if header[0] != imageMagic {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidMagic, header[0], imageMagic)
	}

	count, rows, cols := int64(header[1]), int64(header[2]), int64(header[3])
	if rows == 0 || cols == 0 || rows > MaxImageDim || cols > MaxImageDim {
		return nil, fmt.Errorf("%w: %dx%d images", ErrInvalidHeader, rows, cols)
	}
	if count == 0 || count > MaxImageCount {
		return nil, fmt.Errorf("%w: %d images", ErrInvalidHeader, count)
	}
	size := int(rows * cols)
	images := &Images{
		Rows:   int(rows),
		Cols:   int(cols),
		Pixels: make([][]byte, 0, min(int(count), 1<<16)),
	}
	for i := 0; i < int(count); i++ {
		img := make([]byte, size)
		if _, err := io.ReadFull(r, img); err != nil {
			return nil, fmt.Errorf("failed to read image %d: %w", i, err)
		}
		images.Pixels = append(images.Pixels, img)
	}
	return images, nil
}

// ReadLabels reads an IDX label file.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes
func ReadLabels(r io.Reader) ([]byte, error) {
	var header [2]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read label header: %w", err)
	}
	if header[0] != labelMagic {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidMagic, header[0], labelMagic)
	}

	labels, err := io.ReadAll(io.LimitReader(r, int64(header[1])))
	if err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	if len(labels) != int(header[1]) {
		return nil, fmt.Errorf("failed to read labels: got %d of %d: %w",
			len(labels), header[1], io.ErrUnexpectedEOF)
	}
	return labels, nil
}

func readImagesFile(path string) (*Images, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadImages(bufio.NewReader(file))
}

func readLabelsFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadLabels(bufio.NewReader(file))
}
