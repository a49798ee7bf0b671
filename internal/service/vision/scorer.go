package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

const (
	// ChangeCutoff is the intensity difference above which a pixel counts as changed.
	ChangeCutoff = 45
	// DilationIterations merges fragmented change pixels into regions.
	DilationIterations = 2
)

// Region is one connected area of change that survived the area filter.
type Region struct {
	Bounds image.Rectangle
	Area   float64
}

// Outcome is the result of scoring two frames. Mask owns native memory.
type Outcome struct {
	Score   float64
	Regions []Region
	Mask    gocv.Mat
}

// Close releases the change mask.
func (o *Outcome) Close() error {
	return o.Mask.Close()
}

// Scorer measures how much two same-sized frames differ.
type Scorer struct{}

// NewScorer returns a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score sums the areas of the external change regions of a and b that are at
// least minRegionArea pixels large. Lower scores mean more similar frames.
func (s *Scorer) Score(a, b *Frame, minRegionArea float64) (Outcome, error) {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return Outcome{}, fmt.Errorf("%w: %s vs %s", ErrShapeMismatch, a.shape(), b.shape())
	}

	delta := gocv.NewMat()
	defer delta.Close()
	if err := gocv.AbsDiff(a.mat, b.mat, &delta); err != nil {
		return Outcome{}, fmt.Errorf("failed to compute absolute difference: %w", err)
	}

	mask := gocv.NewMat()
	gocv.Threshold(delta, &mask, ChangeCutoff, 255, gocv.ThresholdBinary)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()
	for i := 0; i < DilationIterations; i++ {
		dilated := gocv.NewMat()
		if err := gocv.Dilate(mask, &dilated, kernel); err != nil {
			dilated.Close()
			mask.Close()
			return Outcome{}, fmt.Errorf("failed to dilate change mask: %w", err)
		}
		mask.Close()
		mask = dilated
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	outcome := Outcome{Mask: mask}
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area < minRegionArea {
			continue
		}
		outcome.Regions = append(outcome.Regions, Region{
			Bounds: gocv.BoundingRect(contour),
			Area:   area,
		})
		outcome.Score += area
	}
	return outcome, nil
}
