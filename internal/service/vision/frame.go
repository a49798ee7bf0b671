package vision

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

var (
	// ErrEmptyImage is returned when an image cannot be decoded.
	ErrEmptyImage = errors.New("image is empty or unreadable")
	// ErrShapeMismatch is returned when two frames of different size are scored.
	ErrShapeMismatch = errors.New("frames differ in shape")
)

// Frame is a preprocessed single-channel image. It owns native memory and
// must be closed.
type Frame struct {
	mat gocv.Mat
}

// NewFrame wraps mat; the frame takes ownership.
func NewFrame(mat gocv.Mat) Frame {
	return Frame{mat: mat}
}

// Mat exposes the underlying matrix without transferring ownership.
func (f *Frame) Mat() gocv.Mat {
	return f.mat
}

// Rows returns the frame height.
func (f *Frame) Rows() int {
	return f.mat.Rows()
}

// Cols returns the frame width.
func (f *Frame) Cols() int {
	return f.mat.Cols()
}

// Clone returns an independent copy.
func (f *Frame) Clone() Frame {
	return Frame{mat: f.mat.Clone()}
}

// Close releases the native memory.
func (f *Frame) Close() error {
	return f.mat.Close()
}

func (f *Frame) shape() string {
	return fmt.Sprintf("%dx%d", f.Rows(), f.Cols())
}

// Load reads the image at path in 3-channel BGR.
func Load(path string) (gocv.Mat, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, fmt.Errorf("%w: %s", ErrEmptyImage, path)
	}
	return mat, nil
}

// Dimensions reads the image at path and returns its height and width.
func Dimensions(path string) (int, int, error) {
	mat, err := Load(path)
	if err != nil {
		return 0, 0, err
	}
	defer mat.Close()
	return mat.Rows(), mat.Cols(), nil
}
