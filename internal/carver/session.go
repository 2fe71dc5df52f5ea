package carver

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// Sink creates output files.
type Sink interface {
	Create(name string) (io.WriteCloser, error)
}

// DirSink creates output files inside a directory, truncating existing ones.
type DirSink struct {
	Dir  string
	Perm os.FileMode
}

func (d DirSink) Create(name string) (io.WriteCloser, error) {
	perm := d.Perm
	if perm == 0 {
		perm = 0o644
	}
	return os.OpenFile(filepath.Join(d.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
}

// SessionInfo describes a closed output file.
type SessionInfo struct {
	Index  int
	Name   string
	Offset int64 // position of the trigger block in the input
	Size   int64
	Blocks int
}

// Recorder is told about every session once its file is closed.
type Recorder interface {
	Record(SessionInfo) error
}

type session struct {
	info SessionInfo
	f    io.WriteCloser
	w    *bufio.Writer
}

func openSession(sink Sink, index int, name string, offset int64, bufSize int) (*session, error) {
	f, err := sink.Create(name)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCreateOutput, name, err)
	}
	return &session{
		info: SessionInfo{Index: index, Name: name, Offset: offset},
		f:    f,
		w:    bufio.NewWriterSize(f, bufSize),
	}, nil
}

func (s *session) write(block []byte) error {
	if _, err := s.w.Write(block); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWriteOutput, s.info.Name, err)
	}
	s.info.Size += int64(len(block))
	s.info.Blocks++
	return nil
}

// close flushes and closes the file. The file is closed even if the flush
// fails.
func (s *session) close() error {
	var err error
	if ferr := s.w.Flush(); ferr != nil {
		err = fmt.Errorf("%w %s: %w", ErrWriteOutput, s.info.Name, ferr)
	}
	if cerr := s.f.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("closing %s: %w", s.info.Name, cerr))
	}
	return err
}
