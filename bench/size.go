package bench

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ArtifactSize returns the size of a persisted index: the file size, or the
// total size of the regular files below a directory.
func ArtifactSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("bench: stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return info.Size(), nil
	}
	var total int64
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		total += fi.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("bench: size %s: %w", path, err)
	}
	return total, nil
}
