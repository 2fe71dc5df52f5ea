// Package signature detects the JPEG start-of-image pattern at the start of a
// block.
package signature

// Prefix is the SOI marker followed by the first byte of the next marker.
var Prefix = [3]byte{0xFF, 0xD8, 0xFF}

const (
	// FourthByteMin and FourthByteMax bound the APPn marker (APP0..APP15)
	// that must follow the prefix.
	FourthByteMin byte = 0xE0
	FourthByteMax byte = 0xEF

	// Size is the number of leading bytes the test inspects.
	Size = len(Prefix) + 1
)

// Match reports whether block begins a new JPEG. Blocks shorter than Size
// never match.
func Match(block []byte) bool {
	if len(block) < Size {
		return false
	}
	for i := range Prefix {
		if block[i] != Prefix[i] {
			return false
		}
	}
	fourth := block[len(Prefix)]
	return fourth >= FourthByteMin && fourth <= FourthByteMax
}
