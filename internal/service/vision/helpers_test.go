package vision

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

// uniformGray builds a height x width grayscale image filled with fill and,
// when patch is non-empty, the patch area filled with patchValue.
func uniformGray(height, width int, fill uint8, patch image.Rectangle, patchValue uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = fill
	}
	for y := patch.Min.Y; y < patch.Max.Y; y++ {
		for x := patch.Min.X; x < patch.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: patchValue})
		}
	}
	return img
}

func grayFrame(t *testing.T, img *image.Gray) Frame {
	t.Helper()
	mat, err := gocv.ImageGrayToMatGray(img)
	if err != nil {
		t.Fatalf("Failed to convert gray image: %v", err)
	}
	return NewFrame(mat)
}

// gradientBGR builds a color image whose intensity grows left to right.
func gradientBGR(t *testing.T, height, width int) gocv.Mat {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(x * 255 / (width - 1))
			img.Set(x, y, color.RGBA{R: v, G: v / 2, B: 255 - v, A: 255})
		}
	}
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		t.Fatalf("Failed to convert color image: %v", err)
	}
	return mat
}
