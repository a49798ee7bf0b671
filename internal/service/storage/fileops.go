package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// EnsureDir creates dir and any missing parents. An existing directory is not an error.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// MoveFile moves src into dir, keeping its base name, and returns the new path.
// A rename across devices falls back to copy and remove.
func MoveFile(dir, src string) (string, error) {
	if err := EnsureDir(dir); err != nil {
		return "", err
	}
	dst := filepath.Join(dir, filepath.Base(src))

	err := os.Rename(src, dst)
	if err == nil {
		return dst, nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return "", fmt.Errorf("failed to move %s: %w", src, err)
	}

	if err := copyFile(src, dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC); err != nil {
		return "", fmt.Errorf("failed to copy %s across devices: %w", src, err)
	}
	if err := os.Remove(src); err != nil {
		return "", fmt.Errorf("failed to remove %s after copy: %w", src, err)
	}
	return dst, nil
}

// CopyFileOnce copies src into dir unless a file with the same name already
// exists there. It returns the destination path and whether a copy was made.
func CopyFileOnce(dir, src string) (string, bool, error) {
	if err := EnsureDir(dir); err != nil {
		return "", false, err
	}
	dst := filepath.Join(dir, filepath.Base(src))

	err := copyFile(src, dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY)
	switch {
	case err == nil:
		return dst, true, nil
	case errors.Is(err, os.ErrExist):
		return dst, false, nil
	default:
		return "", false, fmt.Errorf("failed to copy %s: %w", src, err)
	}
}

// RemoveFile deletes path.
func RemoveFile(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

func copyFile(src, dst string, flag int) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, flag, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
