package carver

import (
	"errors"
	"fmt"

	"github.com/GabrielSaul/jpgdig/pkg/signature"
)

const (
	// DefaultMaxFiles caps the file index counter. The counter may reach
	// DefaultMaxFiles+1 before a further signature is refused, so 000.jpg
	// through 999.jpg can all be created.
	DefaultMaxFiles = 999
	// DefaultNamePattern renders a file index into an output file name.
	DefaultNamePattern = "%03d.jpg"
)

var (
	ErrMaxFilesReached = errors.New("max number of files reached")
	ErrCreateOutput    = errors.New("could not create output file")
	ErrWriteOutput     = errors.New("could not write output file")
	ErrReadFault       = errors.New("read fault in input image")
)

// Policy holds the segmentation limits.
type Policy struct {
	MaxFiles    int
	NamePattern string
}

// DefaultPolicy returns the 999 file, %03d.jpg policy.
func DefaultPolicy() Policy {
	return Policy{MaxFiles: DefaultMaxFiles, NamePattern: DefaultNamePattern}
}

// Name renders the output file name for index.
func (p Policy) Name(index int) string {
	return fmt.Sprintf(p.NamePattern, index)
}

// State is the segmentation state threaded through a scan. The zero value is
// the initial state: no active file and a counter at zero.
type State struct {
	// Active is set while an output file is open.
	Active bool
	// Index of the active file; meaningless when Active is false.
	Index int
	// Next is the file index counter, the index the next signature gets.
	Next int
}

// Action lists the I/O a caller must perform for one block, in field order:
// close the active file, create Open, then write the block.
type Action struct {
	Close bool
	Open  string
	Write bool
}

// Step advances s by one block. On a signature it closes the active file (if
// any) and opens the next numbered one; the block is written whenever a file
// is active afterwards. A signature arriving after the counter has passed
// p.MaxFiles yields ErrMaxFilesReached and leaves s unchanged.
func Step(s State, block []byte, p Policy) (State, Action, error) {
	var a Action
	if signature.Match(block) {
		if s.Next > p.MaxFiles {
			return s, Action{}, fmt.Errorf("%w (%d)", ErrMaxFilesReached, s.Next)
		}
		a.Close = s.Active
		a.Open = p.Name(s.Next)
		s = State{Active: true, Index: s.Next, Next: s.Next + 1}
	}
	a.Write = s.Active
	return s, a, nil
}
