package model

import (
	"path/filepath"
	"strings"
)

// ImageRecord is one image file on disk together with the camera it came from.
type ImageRecord struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	CameraID string `json:"camera"`
}

// NewImageRecord builds a record for path, normalizing it to an absolute,
// forward-slash path.
func NewImageRecord(path, cameraID string) (ImageRecord, error) {
	abs, err := NormalizePath(path)
	if err != nil {
		return ImageRecord{}, err
	}
	return ImageRecord{
		Path:     abs,
		Name:     filepath.Base(abs),
		CameraID: cameraID,
	}, nil
}

// Stem returns the file name without its extension.
func (r ImageRecord) Stem() string {
	return strings.TrimSuffix(r.Name, filepath.Ext(r.Name))
}

// NormalizePath returns the absolute form of path using '/' separators.
func NormalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(abs), nil
}
