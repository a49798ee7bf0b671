package vision

import "fmt"

// Tier buckets an image by resolution. Each tier carries its own smoothing,
// region-area and similarity parameters.
type Tier int

const (
	TierVeryLow Tier = iota
	TierLow
	TierMid
	TierHigh
)

const (
	// MinHeight and MinWidth are the floor below which an image is treated as unusable.
	MinHeight = 120
	MinWidth  = 176

	lowAreaLimit = 480 * 640
	midAreaLimit = 720 * 1280
)

func (t Tier) String() string {
	switch t {
	case TierVeryLow:
		return "very-low"
	case TierLow:
		return "low"
	case TierMid:
		return "mid"
	case TierHigh:
		return "high"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// IsVeryLowResolution reports whether an image is below the resolution floor.
func IsVeryLowResolution(height, width int) bool {
	return height < MinHeight || width < MinWidth
}

// Smoothing is either "no smoothing" or an ordered list of Gaussian kernel sizes.
type Smoothing struct {
	kernels []int
	enabled bool
}

// NoSmoothing leaves frames unblurred.
func NoSmoothing() Smoothing {
	return Smoothing{}
}

// GaussianKernels blurs once per size, in order, with a size x size kernel.
func GaussianKernels(sizes ...int) Smoothing {
	kernels := make([]int, len(sizes))
	copy(kernels, sizes)
	return Smoothing{kernels: kernels, enabled: true}
}

// Kernels returns the kernel sizes and whether smoothing is enabled at all.
func (s Smoothing) Kernels() ([]int, bool) {
	if !s.enabled {
		return nil, false
	}
	kernels := make([]int, len(s.kernels))
	copy(kernels, s.kernels)
	return kernels, true
}

// TierParams are the comparison parameters selected for a tier.
type TierParams struct {
	Tier                Tier
	Smoothing           Smoothing
	MinRegionFraction   float64
	SimilarityThreshold float64
}

// Policy maps image dimensions to tiers and tiers to parameters.
type Policy struct {
	params [4]TierParams
}

// DefaultPolicy returns the tuned CCTV defaults.
func DefaultPolicy() *Policy {
	return NewPolicy(
		TierParams{Smoothing: GaussianKernels(1, 3), MinRegionFraction: 0.00025, SimilarityThreshold: 500},
		TierParams{Smoothing: GaussianKernels(3, 5), MinRegionFraction: 0.0005, SimilarityThreshold: 1000},
		TierParams{Smoothing: GaussianKernels(5, 7, 9), MinRegionFraction: 0.001, SimilarityThreshold: 2000},
	)
}

// NewPolicy builds a policy from the parameters of the low, mid and high tiers.
// The very-low tier never smooths and never scores.
func NewPolicy(low, mid, high TierParams) *Policy {
	low.Tier, mid.Tier, high.Tier = TierLow, TierMid, TierHigh
	return &Policy{
		params: [4]TierParams{
			{Tier: TierVeryLow, Smoothing: NoSmoothing()},
			low,
			mid,
			high,
		},
	}
}

// Classify returns the tier of an image with the given dimensions.
func (p *Policy) Classify(height, width int) Tier {
	if IsVeryLowResolution(height, width) {
		return TierVeryLow
	}
	area := height * width
	switch {
	case area < lowAreaLimit:
		return TierLow
	case area < midAreaLimit:
		return TierMid
	default:
		return TierHigh
	}
}

// Params returns the parameters of tier t.
func (p *Policy) Params(t Tier) TierParams {
	if t < TierVeryLow || t > TierHigh {
		return p.params[TierVeryLow]
	}
	return p.params[t]
}

// ForSize classifies the dimensions and returns the matching parameters.
func (p *Policy) ForSize(height, width int) TierParams {
	return p.Params(p.Classify(height, width))
}

// MinRegionArea converts a tier fraction into an absolute pixel area.
func MinRegionArea(height, width int, fraction float64) float64 {
	return float64(height*width) * fraction
}
