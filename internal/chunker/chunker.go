package chunker

import (
	"io"

	boxochunker "github.com/ipfs/boxo/chunker"
)

// DefaultBlockSize is the sector size of the card images jpgdig is built for.
const DefaultBlockSize = 512

// Chunker splits a stream of data into blocks.
type Chunker interface {
	// Next returns the next block of data. Every block but the last holds
	// exactly the configured block size; the last one may be shorter.
	// It returns io.EOF when there are no more blocks.
	Next() ([]byte, error)
}

// NewChunker creates a Chunker that cuts r into fixed-size blocks using the
// size splitter from boxo/chunker. A non-positive blockSize selects
// DefaultBlockSize.
func NewChunker(r io.Reader, blockSize int) Chunker {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &boxoChunkerWrapper{
		splitter: boxochunker.NewSizeSplitter(r, int64(blockSize)),
	}
}

type boxoChunkerWrapper struct {
	splitter boxochunker.Splitter
}

func (c *boxoChunkerWrapper) Next() ([]byte, error) {
	return c.splitter.NextBytes()
}
