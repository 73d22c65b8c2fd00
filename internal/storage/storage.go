package storage

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// FileMode is used for every file the engine creates.
const FileMode os.FileMode = 0600

// Open returns a filesystem rooted at dir, creating dir if needed.
func Open(dir string) (afero.Fs, error) {
	osfs := afero.NewOsFs()
	if err := osfs.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return afero.NewBasePathFs(osfs, dir), nil
}

// WriteAtomic writes data to tmpPath, syncs it and renames it over path.
// On failure the staging file is removed and path is left untouched.
func WriteAtomic(fs afero.Fs, path, tmpPath string, data []byte) error {
	f, err := fs.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FileMode)
	if err != nil {
		return fmt.Errorf("failed to open staging file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		fs.Remove(tmpPath)
		return fmt.Errorf("failed to write staging file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		fs.Remove(tmpPath)
		return fmt.Errorf("failed to sync staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("failed to close staging file: %w", err)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("failed to rename staging file: %w", err)
	}
	return nil
}

// Copy duplicates src to dst, replacing dst.
func Copy(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FileMode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		fs.Remove(dst)
		return fmt.Errorf("failed to copy to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		fs.Remove(dst)
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}
	return nil
}

// Exists reports whether path exists.
func Exists(fs afero.Fs, path string) bool {
	ok, err := afero.Exists(fs, path)
	return err == nil && ok
}
