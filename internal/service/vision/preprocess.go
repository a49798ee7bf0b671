package vision

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// BorderMask is the share of each edge, in percent, painted black before
// comparison. It hides timestamp overlays and vignetting.
type BorderMask struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// DefaultBorderMask covers 5% left, 10% top, 5% right and nothing at the bottom.
func DefaultBorderMask() BorderMask {
	return BorderMask{Left: 5, Top: 10, Right: 5, Bottom: 0}
}

// Rects returns the border rectangles for an image of the given size, skipping empty ones.
func (m BorderMask) Rects(height, width int) []image.Rectangle {
	xMin := int(m.Left * float64(width) / 100)
	xMax := width - int(m.Right*float64(width)/100)
	yMin := int(m.Top * float64(height) / 100)
	yMax := height - int(m.Bottom*float64(height)/100)

	candidates := []image.Rectangle{
		image.Rect(0, 0, xMin, height),
		image.Rect(0, 0, width, yMin),
		image.Rect(xMax, 0, width, height),
		image.Rect(0, yMax, width, height),
	}
	rects := make([]image.Rectangle, 0, len(candidates))
	for _, r := range candidates {
		if !r.Empty() {
			rects = append(rects, r)
		}
	}
	return rects
}

// Apply paints the border of img black in place.
func (m BorderMask) Apply(img *gocv.Mat) error {
	black := color.RGBA{R: 0, G: 0, B: 0, A: 0}
	for _, r := range m.Rects(img.Rows(), img.Cols()) {
		if err := gocv.Rectangle(img, r, black, -1); err != nil {
			return fmt.Errorf("failed to draw border mask: %w", err)
		}
	}
	return nil
}

// Preprocessor turns raw camera images into comparable frames.
type Preprocessor struct {
	mask BorderMask
}

// NewPreprocessor creates a Preprocessor that masks the given border.
func NewPreprocessor(mask BorderMask) *Preprocessor {
	return &Preprocessor{mask: mask}
}

// Prepare equalizes lighting, converts to grayscale, blurs with the given
// smoothing and masks the border. img is not modified.
func (p *Preprocessor) Prepare(img gocv.Mat, smoothing Smoothing) (Frame, error) {
	if img.Empty() {
		return Frame{}, ErrEmptyImage
	}

	gray, err := equalizedGray(img)
	if err != nil {
		return Frame{}, err
	}

	if kernels, ok := smoothing.Kernels(); ok {
		for _, k := range kernels {
			blurred := gocv.NewMat()
			if err := gocv.GaussianBlur(gray, &blurred, image.Pt(k, k), 0, 0, gocv.BorderDefault); err != nil {
				blurred.Close()
				gray.Close()
				return Frame{}, fmt.Errorf("failed to blur with kernel %d: %w", k, err)
			}
			gray.Close()
			gray = blurred
		}
	}

	if err := p.mask.Apply(&gray); err != nil {
		gray.Close()
		return Frame{}, err
	}
	return NewFrame(gray), nil
}

// equalizedGray returns a single-channel copy of img with the luma histogram equalized.
func equalizedGray(img gocv.Mat) (gocv.Mat, error) {
	switch img.Channels() {
	case 1:
		gray := gocv.NewMat()
		if err := gocv.EqualizeHist(img, &gray); err != nil {
			gray.Close()
			return gocv.Mat{}, fmt.Errorf("failed to equalize histogram: %w", err)
		}
		return gray, nil
	case 4:
		bgr := gocv.NewMat()
		defer bgr.Close()
		if err := gocv.CvtColor(img, &bgr, gocv.ColorBGRAToBGR); err != nil {
			return gocv.Mat{}, fmt.Errorf("failed to drop alpha channel: %w", err)
		}
		return equalizedGray(bgr)
	}

	equalized, err := EqualizeLighting(img)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer equalized.Close()

	gray := gocv.NewMat()
	if err := gocv.CvtColor(equalized, &gray, gocv.ColorBGRToGray); err != nil {
		gray.Close()
		return gocv.Mat{}, fmt.Errorf("failed to convert image to grayscale: %w", err)
	}
	return gray, nil
}

// EqualizeLighting equalizes the Y channel of a BGR image in YCrCb space and
// converts back to BGR, flattening exposure drift between captures.
func EqualizeLighting(img gocv.Mat) (gocv.Mat, error) {
	ycrcb := gocv.NewMat()
	defer ycrcb.Close()
	if err := gocv.CvtColor(img, &ycrcb, gocv.ColorBGRToYCrCb); err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to convert to YCrCb: %w", err)
	}

	channels := gocv.Split(ycrcb)
	defer func() {
		for _, ch := range channels {
			ch.Close()
		}
	}()

	luma := gocv.NewMat()
	if err := gocv.EqualizeHist(channels[0], &luma); err != nil {
		luma.Close()
		return gocv.Mat{}, fmt.Errorf("failed to equalize histogram: %w", err)
	}
	channels[0].Close()
	channels[0] = luma

	merged := gocv.NewMat()
	defer merged.Close()
	if err := gocv.Merge(channels, &merged); err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to merge channels: %w", err)
	}

	out := gocv.NewMat()
	if err := gocv.CvtColor(merged, &out, gocv.ColorYCrCbToBGR); err != nil {
		out.Close()
		return gocv.Mat{}, fmt.Errorf("failed to convert back to BGR: %w", err)
	}
	return out, nil
}
