package vision

import "testing"

func TestPolicy_Classify(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		height, width int
		expected      Tier
	}{
		{50, 50, TierVeryLow},
		{119, 1920, TierVeryLow},
		{1080, 175, TierVeryLow},
		{120, 176, TierLow},
		{479, 640, TierLow},
		{480, 639, TierLow},
		{480, 640, TierMid},
		{619, 1100, TierMid},
		{675, 1200, TierMid},
		{719, 1280, TierMid},
		{720, 1280, TierHigh},
		{1080, 1920, TierHigh},
		{1520, 2688, TierHigh},
	}

	for _, tt := range tests {
		got := policy.Classify(tt.height, tt.width)
		if got != tt.expected {
			t.Errorf("Classify(%d, %d) = %s, expected %s", tt.height, tt.width, got, tt.expected)
		}
	}
}

func TestPolicy_ClassifyMonotonicInArea(t *testing.T) {
	policy := DefaultPolicy()

	// Fixed width keeps every size above the very-low floor so only area varies.
	const width = 1280
	prev := TierVeryLow
	for height := 120; height <= 1200; height++ {
		tier := policy.Classify(height, width)
		if tier < prev {
			t.Fatalf("tier dropped from %s to %s at height %d", prev, tier, height)
		}
		prev = tier
	}
	if prev != TierHigh {
		t.Errorf("Expected largest size to reach high tier, got %s", prev)
	}
}

func TestPolicy_Params(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		tier      Tier
		kernels   []int
		fraction  float64
		threshold float64
	}{
		{TierLow, []int{1, 3}, 0.00025, 500},
		{TierMid, []int{3, 5}, 0.0005, 1000},
		{TierHigh, []int{5, 7, 9}, 0.001, 2000},
	}

	for _, tt := range tests {
		params := policy.Params(tt.tier)
		if params.Tier != tt.tier {
			t.Errorf("Params(%s).Tier = %s", tt.tier, params.Tier)
		}
		kernels, ok := params.Smoothing.Kernels()
		if !ok {
			t.Fatalf("Params(%s) should smooth", tt.tier)
		}
		if len(kernels) != len(tt.kernels) {
			t.Fatalf("Params(%s) kernels = %v, expected %v", tt.tier, kernels, tt.kernels)
		}
		for i := range kernels {
			if kernels[i] != tt.kernels[i] {
				t.Errorf("Params(%s) kernels = %v, expected %v", tt.tier, kernels, tt.kernels)
			}
		}
		if params.MinRegionFraction != tt.fraction {
			t.Errorf("Params(%s) fraction = %v, expected %v", tt.tier, params.MinRegionFraction, tt.fraction)
		}
		if params.SimilarityThreshold != tt.threshold {
			t.Errorf("Params(%s) threshold = %v, expected %v", tt.tier, params.SimilarityThreshold, tt.threshold)
		}
	}

	if _, ok := policy.Params(TierVeryLow).Smoothing.Kernels(); ok {
		t.Error("Very-low tier must not smooth")
	}
}

func TestSmoothing_KernelsAreCopied(t *testing.T) {
	sizes := []int{3, 5}
	s := GaussianKernels(sizes...)
	sizes[0] = 99

	kernels, ok := s.Kernels()
	if !ok || kernels[0] != 3 {
		t.Fatalf("Expected kernels [3 5], got %v (ok=%v)", kernels, ok)
	}
	kernels[1] = 99
	again, _ := s.Kernels()
	if again[1] != 5 {
		t.Errorf("Kernels() leaked internal slice: %v", again)
	}

	if k, ok := NoSmoothing().Kernels(); ok || k != nil {
		t.Errorf("NoSmoothing().Kernels() = %v, %v", k, ok)
	}
}

func TestMinRegionArea(t *testing.T) {
	got := MinRegionArea(1080, 1920, 0.001)
	if got < 2073 || got > 2074 {
		t.Errorf("MinRegionArea(1080, 1920, 0.001) = %v, expected ~2073.6", got)
	}
	if MinRegionArea(480, 640, 0) != 0 {
		t.Error("Zero fraction should give zero area")
	}
}
