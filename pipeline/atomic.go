package pipeline

import (
	"os"
	"path/filepath"

	"xhcart/xherr"
)

// WriteAtomic replaces path with bs through a temporary file in the same
// directory, so readers see either the old image or the new one.
func WriteAtomic(path string, bs []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return xherr.IO(dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return xherr.IO(path, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(bs); err != nil {
		return xherr.IO(tmpPath, err)
	}
	if err = tmp.Sync(); err != nil {
		return xherr.IO(tmpPath, err)
	}
	if err = tmp.Close(); err != nil {
		return xherr.IO(tmpPath, err)
	}
	if err = os.Chmod(tmpPath, 0644); err != nil {
		return xherr.IO(tmpPath, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return xherr.IO(path, err)
	}
	return nil
}
