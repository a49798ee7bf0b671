package vision

import (
	"errors"
	"image"
	"testing"
)

func TestScorer_IdenticalFramesScoreZero(t *testing.T) {
	policy := DefaultPolicy()
	scorer := NewScorer()

	sizes := []struct{ height, width int }{
		{240, 320},
		{480, 640},
		{1080, 1920},
	}

	for _, size := range sizes {
		img := uniformGray(size.height, size.width, 80, image.Rect(20, 20, 60, 60), 200)
		a := grayFrame(t, img)
		b := grayFrame(t, img)

		params := policy.ForSize(size.height, size.width)
		outcome, err := scorer.Score(&a, &b, MinRegionArea(size.height, size.width, params.MinRegionFraction))
		if err != nil {
			t.Fatalf("Score failed: %v", err)
		}
		if outcome.Score != 0 || len(outcome.Regions) != 0 {
			t.Errorf("%dx%d: identical frames scored %v with %d regions", size.height, size.width, outcome.Score, len(outcome.Regions))
		}
		if !(outcome.Score < params.SimilarityThreshold) {
			t.Errorf("%dx%d: identical frames not below threshold %v", size.height, size.width, params.SimilarityThreshold)
		}
		outcome.Close()
		a.Close()
		b.Close()
	}
}

func TestScorer_LargePatchIsDistinct(t *testing.T) {
	policy := DefaultPolicy()
	params := policy.ForSize(1080, 1920)
	if params.Tier != TierHigh {
		t.Fatalf("Expected high tier, got %s", params.Tier)
	}

	base := grayFrame(t, uniformGray(1080, 1920, 50, image.Rectangle{}, 0))
	defer base.Close()
	patched := grayFrame(t, uniformGray(1080, 1920, 50, image.Rect(900, 500, 950, 550), 250))
	defer patched.Close()

	minArea := MinRegionArea(1080, 1920, params.MinRegionFraction)
	outcome, err := NewScorer().Score(&base, &patched, minArea)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	defer outcome.Close()

	if outcome.Score < 2500 {
		t.Errorf("Expected score >= 2500 for a 50x50 patch, got %v", outcome.Score)
	}
	if outcome.Score < params.SimilarityThreshold {
		t.Errorf("Score %v should not be below threshold %v", outcome.Score, params.SimilarityThreshold)
	}
	if len(outcome.Regions) != 1 {
		t.Fatalf("Expected 1 region, got %d", len(outcome.Regions))
	}
	if !outcome.Regions[0].Bounds.Overlaps(image.Rect(900, 500, 950, 550)) {
		t.Errorf("Region %v does not cover the patch", outcome.Regions[0].Bounds)
	}
	if outcome.Mask.Rows() != 1080 || outcome.Mask.Cols() != 1920 {
		t.Errorf("Mask has shape %dx%d", outcome.Mask.Rows(), outcome.Mask.Cols())
	}
}

func TestScorer_SmallPatchIsFilteredOut(t *testing.T) {
	policy := DefaultPolicy()
	params := policy.ForSize(1080, 1920)

	base := grayFrame(t, uniformGray(1080, 1920, 50, image.Rectangle{}, 0))
	defer base.Close()
	patched := grayFrame(t, uniformGray(1080, 1920, 50, image.Rect(900, 500, 910, 510), 250))
	defer patched.Close()

	outcome, err := NewScorer().Score(&base, &patched, MinRegionArea(1080, 1920, params.MinRegionFraction))
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	defer outcome.Close()

	if outcome.Score != 0 {
		t.Errorf("Expected score 0 for a 10x10 patch, got %v", outcome.Score)
	}
	if len(outcome.Regions) != 0 {
		t.Errorf("Expected no regions, got %d", len(outcome.Regions))
	}
}

func TestScorer_DifferenceBelowCutoffIgnored(t *testing.T) {
	base := grayFrame(t, uniformGray(240, 320, 100, image.Rectangle{}, 0))
	defer base.Close()
	patched := grayFrame(t, uniformGray(240, 320, 100, image.Rect(50, 50, 200, 200), 100+ChangeCutoff))
	defer patched.Close()

	outcome, err := NewScorer().Score(&base, &patched, 0)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	defer outcome.Close()

	if outcome.Score != 0 {
		t.Errorf("A difference of exactly %d should not register, got score %v", ChangeCutoff, outcome.Score)
	}
}

func TestScorer_ShapeMismatch(t *testing.T) {
	a := grayFrame(t, uniformGray(240, 320, 0, image.Rectangle{}, 0))
	defer a.Close()
	b := grayFrame(t, uniformGray(120, 176, 0, image.Rectangle{}, 0))
	defer b.Close()

	_, err := NewScorer().Score(&a, &b, 0)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("Expected ErrShapeMismatch, got %v", err)
	}
}
