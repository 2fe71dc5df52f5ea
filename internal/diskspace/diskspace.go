// Package diskspace checks that an output directory can take the recovered
// files.
package diskspace

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/disk"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotDirectory      = errors.New("path is not a directory")
	ErrInsufficientSpace = errors.New("not enough space available on disk")
)

// CheckDir verifies that path exists and is a directory.
func CheckDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}
	return nil
}

// CheckFree fails with ErrInsufficientSpace when the filesystem holding path
// has fewer than minimum bytes available. A zero minimum skips the check.
func CheckFree(path string, minimum uint64, log *logrus.Logger) error {
	if minimum == 0 {
		return nil
	}
	usage, err := disk.Usage(path)
	if err != nil {
		return fmt.Errorf("error retrieving disk usage for %s: %w", path, err)
	}

	if log != nil {
		log.WithFields(logrus.Fields{
			"path":     path,
			"total":    humanize.Bytes(usage.Total),
			"free":     humanize.Bytes(usage.Free),
			"used":     fmt.Sprintf("%.2f%%", usage.UsedPercent),
			"required": humanize.Bytes(minimum),
		}).Debug("Disk usage")
	}

	if usage.Free < minimum {
		return fmt.Errorf("%w: %s free in %s, %s required", ErrInsufficientSpace,
			humanize.Bytes(usage.Free), path, humanize.Bytes(minimum))
	}
	return nil
}
