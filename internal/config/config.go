package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v2"

	"github.com/GabrielSaul/jpgdig"
)

const (
	DecompressAuto  = "auto"
	DecompressNever = "never"
)

// File is the YAML configuration file. Empty fields leave the defaults alone;
// max_files is optional so that an explicit 0 is kept.
type File struct {
	OutputDir   string `yaml:"output_dir"`
	BlockSize   int    `yaml:"block_size"`
	MaxFiles    *int   `yaml:"max_files"`
	NamePattern string `yaml:"name_pattern"`
	// MinimumFree is a human readable size such as "64MB".
	MinimumFree string `yaml:"minimum_free"`
	StrictReads bool   `yaml:"strict_reads"`
	Decompress  string `yaml:"decompress"`
	Manifest    string `yaml:"manifest"`
	LogLevel    string `yaml:"log_level"`
}

// Load reads and parses a configuration file. Unknown keys are an error.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("error reading config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return File{}, fmt.Errorf("error parsing config: %w", err)
	}
	return f, nil
}

// Apply copies the set fields of f onto conf.
func (f File) Apply(conf *jpgdig.Config) error {
	if f.OutputDir != "" {
		conf.OutputDir = f.OutputDir
	}
	if f.BlockSize != 0 {
		conf.BlockSize = f.BlockSize
	}
	if f.MaxFiles != nil {
		conf.MaxFiles = jpgdig.FileLimit(*f.MaxFiles)
	}
	if f.NamePattern != "" {
		conf.NamePattern = f.NamePattern
	}
	if f.MinimumFree != "" {
		n, err := humanize.ParseBytes(f.MinimumFree)
		if err != nil {
			return fmt.Errorf("%w: minimum_free: %w", jpgdig.ErrInvalidConfig, err)
		}
		conf.MinimumFreeBytes = n
	}
	if f.StrictReads {
		conf.StrictReads = true
	}
	switch strings.ToLower(strings.TrimSpace(f.Decompress)) {
	case "", DecompressAuto:
	case DecompressNever:
		conf.DisableDecompression = true
	default:
		return fmt.Errorf("%w: decompress must be %q or %q, got %q",
			jpgdig.ErrInvalidConfig, DecompressAuto, DecompressNever, f.Decompress)
	}
	if f.Manifest != "" {
		conf.ManifestPath = f.Manifest
	}
	return nil
}
