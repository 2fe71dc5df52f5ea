package testutil

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

var RunLong = flag.Bool("long", false, "run long/heavy tests")

func RequireLong(t *testing.T) {
	t.Helper()
	if !*RunLong {
		t.Skip("skipping long test (use -long to enable)")
	}
}

// SignatureBlock returns a block of size bytes that starts with FF D8 FF and
// the given fourth byte. The remainder is filled with fill.
func SignatureBlock(size int, fourth, fill byte) []byte {
	b := DataBlock(size, fill)
	copy(b, []byte{0xFF, 0xD8, 0xFF, fourth})
	return b
}

// DataBlock returns a block of size bytes, all set to fill.
func DataBlock(size int, fill byte) []byte {
	return bytes.Repeat([]byte{fill}, size)
}

// WriteImage writes the concatenated blocks to dir/name and returns the path.
func WriteImage(t *testing.T, dir, name string, blocks ...[]byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, bytes.Join(blocks, nil), 0o644); err != nil {
		t.Fatalf("Failed to write image %s: %v", path, err)
	}
	return path
}

// ReadOutputs returns the content of every regular file in dir keyed by name.
func ReadOutputs(t *testing.T, dir string) map[string][]byte {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read directory %s: %v", dir, err)
	}
	out := make(map[string][]byte)
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("Failed to read %s: %v", e.Name(), err)
		}
		out[e.Name()] = data
	}
	return out
}
