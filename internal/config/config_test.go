package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielSaul/jpgdig"
)

func TestLoadAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jpgdig.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output_dir: /srv/recovered
block_size: 4096
max_files: 49
name_pattern: "img%05d.jpg"
minimum_free: 64MB
strict_reads: true
decompress: never
manifest: /srv/manifest
log_level: debug
`), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", f.LogLevel)

	var conf jpgdig.Config
	require.NoError(t, f.Apply(&conf))
	assert.Equal(t, jpgdig.Config{
		OutputDir:            "/srv/recovered",
		BlockSize:            4096,
		MaxFiles:             jpgdig.FileLimit(49),
		NamePattern:          "img%05d.jpg",
		MinimumFreeBytes:     64 * 1000 * 1000,
		StrictReads:          true,
		DisableDecompression: true,
		ManifestPath:         "/srv/manifest",
	}, conf)
}

func TestApplyKeepsUnsetFields(t *testing.T) {
	conf := jpgdig.Config{OutputDir: "out", BlockSize: 1024, ManifestPath: "m"}

	require.NoError(t, File{BlockSize: 2048}.Apply(&conf))

	assert.Equal(t, jpgdig.Config{OutputDir: "out", BlockSize: 2048, ManifestPath: "m"}, conf)
}

func TestParseKeepsExplicitZeroMaxFiles(t *testing.T) {
	f, err := Parse([]byte("max_files: 0\n"))
	require.NoError(t, err)

	var conf jpgdig.Config
	require.NoError(t, f.Apply(&conf))
	require.NotNil(t, conf.MaxFiles)
	assert.Equal(t, 0, *conf.MaxFiles)

	f, err = Parse([]byte("block_size: 1024\n"))
	require.NoError(t, err)
	conf = jpgdig.Config{}
	require.NoError(t, f.Apply(&conf))
	assert.Nil(t, conf.MaxFiles)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("blocksize: 512\n"))
	assert.Error(t, err)
}

func TestApplyRejectsBadValues(t *testing.T) {
	var conf jpgdig.Config

	assert.ErrorIs(t, File{Decompress: "gzip"}.Apply(&conf), jpgdig.ErrInvalidConfig)
	assert.ErrorIs(t, File{MinimumFree: "lots"}.Apply(&conf), jpgdig.ErrInvalidConfig)
}

func TestApplyDecompressAuto(t *testing.T) {
	conf := jpgdig.Config{}

	require.NoError(t, File{Decompress: " AUTO "}.Apply(&conf))
	assert.False(t, conf.DisableDecompression)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
