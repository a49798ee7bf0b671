package catalog

import (
	"sort"

	"github.com/CavaJ/ImagingInterview/internal/dto"
	"github.com/CavaJ/ImagingInterview/internal/model"
)

// DimensionProbe reports the height and width of the image at path.
type DimensionProbe func(path string) (int, int, error)

type sizeKey struct {
	camera        string
	height, width int
}

// Survey counts frame sizes per camera. Images the probe cannot read are
// listed by path in Unreadable.
func Survey(records []model.ImageRecord, probe DimensionProbe) dto.SurveyReport {
	counts := make(map[sizeKey]int)
	report := dto.SurveyReport{}

	for _, rec := range records {
		h, w, err := probe(rec.Path)
		if err != nil {
			report.Unreadable = append(report.Unreadable, rec.Path)
			continue
		}
		counts[sizeKey{camera: rec.CameraID, height: h, width: w}]++
	}

	for key, count := range counts {
		stat := dto.FrameSizeStat{
			Camera: key.camera,
			Height: key.height,
			Width:  key.width,
			Count:  count,
		}
		if key.height > 0 {
			stat.AspectRatio = float64(key.width) / float64(key.height)
		}
		report.Stats = append(report.Stats, stat)
	}

	sort.Slice(report.Stats, func(i, j int) bool {
		a, b := report.Stats[i], report.Stats[j]
		if a.Camera != b.Camera {
			return a.Camera < b.Camera
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Height != b.Height {
			return a.Height < b.Height
		}
		return a.Width < b.Width
	})
	sort.Strings(report.Unreadable)
	return report
}
