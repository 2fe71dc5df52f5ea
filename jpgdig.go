/*
Package jpgdig recovers JPEG images from raw card images.

The image is read in fixed-size blocks. A block whose first bytes are a JPEG
start-of-image marker followed by an APPn marker starts a new numbered output
file; every following block is appended to that file until the next such block
or the end of the image. Recovered files are not validated.
*/
package jpgdig

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/GabrielSaul/jpgdig/internal/carver"
	"github.com/GabrielSaul/jpgdig/internal/chunker"
	"github.com/GabrielSaul/jpgdig/internal/diskspace"
	"github.com/GabrielSaul/jpgdig/internal/manifest"
	"github.com/GabrielSaul/jpgdig/internal/source"
)

var (
	ErrInvalidConfig     = errors.New("jpgdig: invalid config")
	ErrOpenInput         = errors.New("could not open")
	ErrManifest          = errors.New("manifest")
	ErrMaxFilesReached   = carver.ErrMaxFilesReached
	ErrCreateOutput      = carver.ErrCreateOutput
	ErrWriteOutput       = carver.ErrWriteOutput
	ErrReadFault         = carver.ErrReadFault
	ErrInsufficientSpace = diskspace.ErrInsufficientSpace
)

// Result summarizes one scan.
type Result struct {
	Files           int
	Blocks          int64
	BytesRead       int64
	BytesWritten    int64
	DiscardedBlocks int64
	// Compressed is set when the image was an xz stream.
	Compressed bool
	// ReadFault is the fault that ended the scan early when StrictReads is off.
	ReadFault error
}

// Digger recovers JPEGs from images according to its Config.
type Digger struct {
	log    *logrus.Logger
	config Config
}

// New validates conf and fills in defaults. It does not touch the disk.
func New(conf Config) (*Digger, error) {
	conf = conf.withDefaults()
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return &Digger{log: conf.Logger, config: conf}, nil
}

// Config returns the effective configuration.
func (d *Digger) Config() Config {
	return d.config
}

// Dig scans the image at imagePath once and writes every recovered file to the
// output directory. Files created before a fatal error are left in place,
// closed. All handles are released when Dig returns.
func (d *Digger) Dig(imagePath string) (res Result, err error) {
	img, err := source.Open(imagePath, !d.config.DisableDecompression)
	if err != nil {
		return res, fmt.Errorf("%w %s: %w", ErrOpenInput, imagePath, err)
	}
	defer func() {
		if cerr := img.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("closing %s: %w", imagePath, cerr))
		}
	}()
	res.Compressed = img.Compressed

	if err := diskspace.CheckDir(d.config.OutputDir); err != nil {
		return res, fmt.Errorf("output directory: %w", err)
	}
	if err := diskspace.CheckFree(d.config.OutputDir, d.config.MinimumFreeBytes, d.log); err != nil {
		return res, err
	}

	var recorder carver.Recorder
	if d.config.ManifestPath != "" {
		store, merr := manifest.Open(manifest.StoreConfig{Path: d.config.ManifestPath, Logger: d.log})
		if merr != nil {
			return res, fmt.Errorf("%w: %w", ErrManifest, merr)
		}
		defer func() {
			if cerr := store.Close(); cerr != nil {
				err = multierr.Append(err, fmt.Errorf("%w: %w", ErrManifest, cerr))
			}
		}()
		if merr := store.Reset(); merr != nil {
			return res, fmt.Errorf("%w: %w", ErrManifest, merr)
		}
		recorder = manifestRecorder{store: store}
	}

	c, err := carver.New(carver.Config{
		Sink:        carver.DirSink{Dir: d.config.OutputDir},
		Policy:      d.config.policy(),
		StrictReads: d.config.StrictReads,
		Recorder:    recorder,
		Logger:      d.log,
	})
	if err != nil {
		return res, err
	}

	stats, err := c.Run(chunker.NewChunker(img, d.config.BlockSize))
	res.Files = stats.Files
	res.Blocks = stats.Blocks
	res.BytesRead = stats.BytesRead
	res.BytesWritten = stats.BytesWritten
	res.DiscardedBlocks = stats.DiscardedBlocks
	res.ReadFault = stats.ReadFault

	fields := logrus.Fields{
		"image":      imagePath,
		"files":      res.Files,
		"blocks":     res.Blocks,
		"read":       humanize.Bytes(uint64(res.BytesRead)),
		"written":    humanize.Bytes(uint64(res.BytesWritten)),
		"discarded":  res.DiscardedBlocks,
		"compressed": res.Compressed,
	}
	if err != nil {
		d.log.WithFields(fields).WithError(err).Debug("Scan aborted")
		return res, err
	}
	d.log.WithFields(fields).Info("Scan finished")
	return res, nil
}

type manifestRecorder struct {
	store *manifest.Store
}

func (m manifestRecorder) Record(info carver.SessionInfo) error {
	return m.store.Put(manifest.Record{
		Index:  uint32(info.Index),
		Name:   info.Name,
		Offset: uint64(info.Offset),
		Size:   uint64(info.Size),
		Blocks: uint32(info.Blocks),
	})
}
