package jpgdig

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/GabrielSaul/jpgdig/internal/carver"
	"github.com/GabrielSaul/jpgdig/internal/chunker"
	"github.com/GabrielSaul/jpgdig/pkg/signature"
)

const (
	DefaultBlockSize   = chunker.DefaultBlockSize
	DefaultMaxFiles    = carver.DefaultMaxFiles
	DefaultNamePattern = carver.DefaultNamePattern
	DefaultOutputDir   = "."
)

// Config configures a Digger. Zero values select the defaults.
type Config struct {
	// OutputDir receives the recovered files. Defaults to the working directory.
	OutputDir string
	// BlockSize is the read unit in bytes; signatures are only looked for at
	// block starts. Defaults to 512.
	BlockSize int
	// MaxFiles caps the file index counter; MaxFiles+1 files can be created,
	// so 0 allows exactly one. Nil selects 999. See FileLimit.
	MaxFiles *int
	// NamePattern is a fmt pattern taking the file index. Defaults to %03d.jpg.
	NamePattern string
	// MinimumFreeBytes is the free space OutputDir must offer before a scan
	// starts. Zero disables the check.
	MinimumFreeBytes uint64
	// StrictReads reports a read fault as ErrReadFault instead of treating it
	// as the end of the image.
	StrictReads bool
	// DisableDecompression reads xz-compressed images as raw bytes.
	DisableDecompression bool
	// ManifestPath, when set, is a directory for the recovery manifest.
	ManifestPath string
	// Logger is an optional structured logger. If nil, a stderr logger at warn
	// level is used.
	Logger *logrus.Logger
}

func (c Config) withDefaults() Config {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.BlockSize == 0 {
		c.BlockSize = DefaultBlockSize
	}
	if c.MaxFiles == nil {
		c.MaxFiles = FileLimit(DefaultMaxFiles)
	}
	if c.NamePattern == "" {
		c.NamePattern = DefaultNamePattern
	}
	if c.Logger == nil {
		c.Logger = defaultLogger()
	}
	return c
}

func (c Config) validate() error {
	if c.BlockSize < signature.Size {
		return fmt.Errorf("%w: block size %d is below %d bytes", ErrInvalidConfig, c.BlockSize, signature.Size)
	}
	if *c.MaxFiles < 0 {
		return fmt.Errorf("%w: negative max files %d", ErrInvalidConfig, *c.MaxFiles)
	}
	name := fmt.Sprintf(c.NamePattern, 0)
	if strings.Contains(name, "%!") || name == fmt.Sprintf(c.NamePattern, 1) {
		return fmt.Errorf("%w: name pattern %q must contain one integer verb", ErrInvalidConfig, c.NamePattern)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: name pattern %q must not contain a path separator", ErrInvalidConfig, c.NamePattern)
	}
	return nil
}

func (c Config) policy() carver.Policy {
	return carver.Policy{MaxFiles: *c.MaxFiles, NamePattern: c.NamePattern}
}

// FileLimit returns a MaxFiles value.
func FileLimit(n int) *int {
	return &n
}

func defaultLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}
