package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		block []byte
		want  bool
	}{
		{"APP0", []byte{0xFF, 0xD8, 0xFF, 0xE0}, true},
		{"APP15", []byte{0xFF, 0xD8, 0xFF, 0xEF}, true},
		{"APP1 with trailing data", []byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00, 0x10, 'E', 'x', 'i', 'f'}, true},
		{"fourth byte below range", []byte{0xFF, 0xD8, 0xFF, 0xDF}, false},
		{"fourth byte above range", []byte{0xFF, 0xD8, 0xFF, 0xF0}, false},
		{"DQT after SOI", []byte{0xFF, 0xD8, 0xFF, 0xDB}, false},
		{"first byte off", []byte{0xFE, 0xD8, 0xFF, 0xE0}, false},
		{"second byte off", []byte{0xFF, 0xD9, 0xFF, 0xE0}, false},
		{"third byte off", []byte{0xFF, 0xD8, 0xFE, 0xE0}, false},
		{"zeroes", make([]byte, 512), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Match(tc.block))
		})
	}
}

// Blocks shorter than four bytes are rejected outright, even when the bytes
// they do carry agree with the prefix.
func TestMatchShortBlocks(t *testing.T) {
	short := [][]byte{
		nil,
		{},
		{0xFF},
		{0xFF, 0xD8},
		{0xFF, 0xD8, 0xFF},
	}
	for _, b := range short {
		assert.False(t, Match(b), "block % X", b)
	}

	// The fourth byte lives in the backing array but not in the slice.
	backing := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	assert.False(t, Match(backing[:3]))
	assert.True(t, Match(backing))
}

func TestMatchOnlyInspectsBlockStart(t *testing.T) {
	block := make([]byte, 512)
	copy(block[100:], []byte{0xFF, 0xD8, 0xFF, 0xE0})
	assert.False(t, Match(block))
}

func TestMatchWholeFourthByteRange(t *testing.T) {
	for b := 0; b <= 0xFF; b++ {
		block := []byte{0xFF, 0xD8, 0xFF, byte(b)}
		want := b >= 0xE0 && b <= 0xEF
		assert.Equal(t, want, Match(block), "fourth byte %#02x", b)
	}
}
