package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// CommonSize returns the element-wise minimum of the two frames' shapes.
func CommonSize(a, b *Frame) (height, width int) {
	return min(a.Rows(), b.Rows()), min(a.Cols(), b.Cols())
}

// ResizeToCommon shrinks a and b in place to their common size using area
// interpolation. Frames are never enlarged. It reports whether either frame
// had to be resized.
func ResizeToCommon(a, b *Frame) (height, width int, resized bool, err error) {
	height, width = CommonSize(a, b)
	ra, err := shrink(a, height, width)
	if err != nil {
		return 0, 0, false, err
	}
	rb, err := shrink(b, height, width)
	if err != nil {
		return 0, 0, false, err
	}
	return height, width, ra || rb, nil
}

func shrink(f *Frame, height, width int) (bool, error) {
	if f.Rows() == height && f.Cols() == width {
		return false, nil
	}
	dst := gocv.NewMat()
	if err := gocv.Resize(f.mat, &dst, image.Pt(width, height), 0, 0, gocv.InterpolationArea); err != nil {
		dst.Close()
		return false, fmt.Errorf("failed to resize %s to %dx%d: %w", f.shape(), height, width, err)
	}
	f.mat.Close()
	f.mat = dst
	return true, nil
}
