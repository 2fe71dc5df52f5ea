// Package carver cuts a block stream into output files at JPEG signatures.
package carver

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/GabrielSaul/jpgdig/internal/chunker"
)

const defaultWriteBuffer = 64 * 1024

// Config configures a Carver. Sink is required.
type Config struct {
	Sink   Sink
	Policy Policy
	// StrictReads turns a read fault into ErrReadFault. When false a fault
	// ends the scan as if the input were exhausted.
	StrictReads bool
	// Recorder is optional.
	Recorder Recorder
	// WriteBuffer is the per-file buffer size; <= 0 uses 64KiB.
	WriteBuffer int
	Logger      *logrus.Logger
}

// Stats summarizes a scan.
type Stats struct {
	Files           int
	Blocks          int64
	BytesRead       int64
	BytesWritten    int64
	DiscardedBlocks int64
	// ReadFault holds the fault that ended a permissive scan early.
	ReadFault error
}

// Carver runs the segmentation loop over one input. It is single use.
type Carver struct {
	config Config
	log    *logrus.Logger

	state  State
	active *session
	offset int64
	stats  Stats
}

func New(config Config) (*Carver, error) {
	if config.Sink == nil {
		return nil, fmt.Errorf("carver: no sink configured")
	}
	if config.Policy.NamePattern == "" {
		config.Policy.NamePattern = DefaultNamePattern
	}
	if config.WriteBuffer <= 0 {
		config.WriteBuffer = defaultWriteBuffer
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	return &Carver{config: config, log: config.Logger}, nil
}

// Run consumes blocks from c until io.EOF or a fatal error. On return no
// output file is left open.
func (c *Carver) Run(blocks chunker.Chunker) (Stats, error) {
	for {
		block, err := blocks.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if c.config.StrictReads {
				return c.stats, c.abort(fmt.Errorf("%w at offset %d: %w", ErrReadFault, c.offset, err))
			}
			c.log.WithFields(logrus.Fields{
				"offset": c.offset,
				"error":  err,
			}).Warn("Read fault, treating as end of image")
			c.stats.ReadFault = err
			break
		}

		if err := c.consume(block); err != nil {
			return c.stats, c.abort(err)
		}
	}

	if err := c.closeActive(); err != nil {
		return c.stats, err
	}
	return c.stats, nil
}

func (c *Carver) consume(block []byte) error {
	next, action, err := Step(c.state, block, c.config.Policy)
	if err != nil {
		return err
	}

	if action.Close {
		if err := c.closeActive(); err != nil {
			return err
		}
	}
	if action.Open != "" {
		s, err := openSession(c.config.Sink, next.Index, action.Open, c.offset, c.config.WriteBuffer)
		if err != nil {
			return err
		}
		c.active = s
		c.stats.Files++
		c.log.WithFields(logrus.Fields{
			"file":   action.Open,
			"offset": c.offset,
		}).Debug("Signature found, opened output file")
	}
	c.state = next

	c.stats.Blocks++
	c.stats.BytesRead += int64(len(block))
	c.offset += int64(len(block))

	if !action.Write {
		c.stats.DiscardedBlocks++
		return nil
	}
	if err := c.active.write(block); err != nil {
		return err
	}
	c.stats.BytesWritten += int64(len(block))
	return nil
}

// closeActive closes the active session and hands it to the recorder. The
// session is dropped even if closing fails.
func (c *Carver) closeActive() error {
	s := c.active
	if s == nil {
		return nil
	}
	c.active = nil
	c.state.Active = false

	err := s.close()
	c.log.WithFields(logrus.Fields{
		"file":   s.info.Name,
		"size":   s.info.Size,
		"blocks": s.info.Blocks,
	}).Debug("Closed output file")

	if c.config.Recorder != nil {
		if rerr := c.config.Recorder.Record(s.info); rerr != nil {
			err = multierr.Append(err, fmt.Errorf("recording %s: %w", s.info.Name, rerr))
		}
	}
	return err
}

// abort releases the active session and returns cause together with any
// teardown error.
func (c *Carver) abort(cause error) error {
	return multierr.Append(cause, c.closeActive())
}
