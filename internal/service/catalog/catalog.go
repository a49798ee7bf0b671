package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CavaJ/ImagingInterview/internal/model"
)

// LockFileName is the advisory lock taken on the image directory during a run.
const LockFileName = ".camdedup.lock"

// ParseCameraID extracts the camera id from a file name: the first token when
// the name is split on '-' if present, else on '_'. A name without either
// separator is its own camera id.
func ParseCameraID(fileName string) string {
	name := filepath.Base(fileName)
	sep := ""
	switch {
	case strings.Contains(name, "-"):
		sep = "-"
	case strings.Contains(name, "_"):
		sep = "_"
	default:
		return name
	}
	return strings.SplitN(name, sep, 2)[0]
}

// List returns a record for every regular file directly inside dir whose
// extension is in exts (case-insensitive), ordered by file name.
func List(dir string, exts []string) ([]model.ImageRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	var records []model.ImageRecord
	for _, entry := range entries {
		if !entry.Type().IsRegular() || entry.Name() == LockFileName {
			continue
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}
		rec, err := model.NewImageRecord(filepath.Join(dir, entry.Name()), ParseCameraID(entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", entry.Name(), err)
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records, nil
}

// Group partitions records by camera id.
func Group(records []model.ImageRecord) model.Groups {
	groups := make(model.Groups)
	for _, rec := range records {
		groups.Add(rec)
	}
	return groups
}
