package dto

// FrameSizeStat counts how many frames of one camera share a resolution.
type FrameSizeStat struct {
	Camera      string  `json:"camera"`
	Height      int     `json:"height"`
	Width       int     `json:"width"`
	Count       int     `json:"count"`
	AspectRatio float64 `json:"aspectRatio"`
}

// SurveyReport summarizes the frame sizes found in an image directory.
type SurveyReport struct {
	Root       string          `json:"root"`
	Stats      []FrameSizeStat `json:"stats"`
	Unreadable []string        `json:"unreadable"`
}
