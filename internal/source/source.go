// Package source opens raw card images for block reading, unpacking
// xz-compressed dumps on the fly.
package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

const readBufferSize = 64 * 1024

// xzMagic starts every xz stream.
var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

// Image is an opened input image.
type Image struct {
	io.Reader
	file *os.File
	// Compressed is set when the image is read through an xz decoder.
	Compressed bool
}

// Open opens path read-only. With decompress set, an image starting with the
// xz magic is decoded transparently; everything else is read as is.
func Open(path string, decompress bool) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReaderSize(f, readBufferSize)

	if decompress {
		head, _ := br.Peek(len(xzMagic))
		if bytes.Equal(head, xzMagic) {
			xr, err := xz.NewReader(br)
			if err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("error opening xz stream in %s: %w", path, err)
			}
			return &Image{Reader: xr, file: f, Compressed: true}, nil
		}
	}
	return &Image{Reader: br, file: f}, nil
}

func (i *Image) Close() error {
	return i.file.Close()
}
