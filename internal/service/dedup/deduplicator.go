package dedup

import (
	"context"
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/CavaJ/ImagingInterview/internal/logger"
	"github.com/CavaJ/ImagingInterview/internal/model"
	"github.com/CavaJ/ImagingInterview/internal/service/events"
	"github.com/CavaJ/ImagingInterview/internal/service/vision"
)

// Dispatcher resolves images that leave a camera group's working set.
type Dispatcher interface {
	Anomaly(rec model.ImageRecord) error
	Duplicate(base, candidate model.ImageRecord) error
}

// Report counts what a run did.
type Report struct {
	Groups      int `json:"groups"`
	Records     int `json:"records"`
	Comparisons int `json:"comparisons"`
	Duplicates  int `json:"duplicates"`
	Anomalies   int `json:"anomalies"`
	Failures    int `json:"failures"`
}

// Deduplicator runs the greedy near-duplicate sweep over camera groups.
type Deduplicator struct {
	policy       *vision.Policy
	preprocessor *vision.Preprocessor
	scorer       *vision.Scorer
	dispatcher   Dispatcher
	publisher    events.Publisher
	logger       *logger.Logger
	load         func(path string) (gocv.Mat, error)
}

// New creates a Deduplicator. A nil publisher discards events.
func New(policy *vision.Policy, preprocessor *vision.Preprocessor, dispatcher Dispatcher, publisher events.Publisher, logger *logger.Logger) *Deduplicator {
	if publisher == nil {
		publisher = events.Discard
	}
	return &Deduplicator{
		policy:       policy,
		preprocessor: preprocessor,
		scorer:       vision.NewScorer(),
		dispatcher:   dispatcher,
		publisher:    publisher,
		logger:       logger,
		load:         vision.Load,
	}
}

// sweep holds the state of one Run call.
type sweep struct {
	report   Report
	failures []error
}

// Run deduplicates every group in lexicographic camera order. Groups are
// consumed. Disposition failures do not stop the sweep; they are joined into
// the returned error. A cancelled context stops the run before the next base.
func (d *Deduplicator) Run(ctx context.Context, groups model.Groups) (Report, error) {
	s := &sweep{}
	s.report.Records = groups.Total()

	for _, id := range groups.CameraIDs() {
		group := groups[id]
		if group.Len() == 0 {
			continue
		}
		s.report.Groups++
		if err := d.runGroup(ctx, group, s); err != nil {
			s.failures = append(s.failures, err)
			break
		}
	}
	return s.report, errors.Join(s.failures...)
}

func (d *Deduplicator) runGroup(ctx context.Context, group *model.CameraGroup, s *sweep) error {
	d.publisher.Publish(model.Event{Kind: model.EventGroupStarted, CameraID: group.CameraID, Count: group.Len()})
	duplicates := s.report.Duplicates

	for group.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("sweep of camera %s interrupted: %w", group.CameraID, err)
		}
		base, _ := group.Pop()
		d.sweepBase(base, group, s)
	}

	d.publisher.Publish(model.Event{
		Kind:     model.EventGroupFinished,
		CameraID: group.CameraID,
		Count:    s.report.Duplicates - duplicates,
	})
	return nil
}

// sweepBase compares base with every record still in the group and resolves
// the duplicates it finds. base has already left the working set.
func (d *Deduplicator) sweepBase(base model.ImageRecord, group *model.CameraGroup, s *sweep) {
	baseFrame, ok := d.prepare(base, s)
	if !ok {
		return
	}
	defer baseFrame.Close()

	for _, candidate := range group.Snapshot() {
		if !group.Contains(candidate.Name) {
			continue
		}
		d.compare(base, &baseFrame, candidate, group, s)
	}

	d.publisher.Publish(model.Event{
		Kind:     model.EventRecordResolved,
		CameraID: base.CameraID,
		Path:     base.Path,
		Detail:   "kept",
	})
}

func (d *Deduplicator) compare(base model.ImageRecord, baseFrame *vision.Frame, candidate model.ImageRecord, group *model.CameraGroup, s *sweep) {
	candFrame, ok := d.prepare(candidate, s)
	if !ok {
		group.Remove(candidate.Name)
		return
	}
	defer candFrame.Close()

	left := baseFrame.Clone()
	defer left.Close()

	leftShape := fmt.Sprintf("%dx%d", left.Rows(), left.Cols())
	rightShape := fmt.Sprintf("%dx%d", candFrame.Rows(), candFrame.Cols())
	height, width, resized, err := vision.ResizeToCommon(&left, &candFrame)
	if err != nil {
		d.logger.Error("Failed to resize %s against %s: %v", candidate.Path, base.Path, err)
		return
	}
	if resized {
		d.publisher.Publish(model.Event{
			Kind:     model.EventDimensionMismatch,
			CameraID: candidate.CameraID,
			Path:     candidate.Path,
			BasePath: base.Path,
			Detail:   fmt.Sprintf("%s vs %s -> %dx%d", leftShape, rightShape, height, width),
		})
	}

	params := d.policy.ForSize(height, width)
	outcome, err := d.scorer.Score(&left, &candFrame, vision.MinRegionArea(height, width, params.MinRegionFraction))
	if err != nil {
		d.logger.Error("Failed to compare %s with %s: %v", candidate.Path, base.Path, err)
		return
	}
	defer outcome.Close()

	s.report.Comparisons++
	d.publisher.Publish(model.Event{
		Kind:      model.EventCompared,
		CameraID:  candidate.CameraID,
		Path:      candidate.Path,
		BasePath:  base.Path,
		Tier:      params.Tier.String(),
		Score:     outcome.Score,
		Threshold: params.SimilarityThreshold,
		Count:     len(outcome.Regions),
	})

	if outcome.Score >= params.SimilarityThreshold {
		return
	}

	s.report.Duplicates++
	group.Remove(candidate.Name)
	d.publisher.Publish(model.Event{
		Kind:      model.EventDuplicateFound,
		CameraID:  candidate.CameraID,
		Path:      candidate.Path,
		BasePath:  base.Path,
		Tier:      params.Tier.String(),
		Score:     outcome.Score,
		Threshold: params.SimilarityThreshold,
	})
	if err := d.dispatcher.Duplicate(base, candidate); err != nil {
		d.fail(candidate, fmt.Errorf("resolve duplicate %s: %w", candidate.Path, err), s)
	}
	d.resolved(candidate, "duplicate")
}

// prepare loads and preprocesses rec with the smoothing of its own tier.
// Unreadable, very-low-resolution and unprocessable images are dispatched as
// anomalies and reported as not ok.
func (d *Deduplicator) prepare(rec model.ImageRecord, s *sweep) (vision.Frame, bool) {
	img, err := d.load(rec.Path)
	if err != nil {
		d.anomaly(rec, "unreadable", s)
		return vision.Frame{}, false
	}
	defer img.Close()

	height, width := img.Rows(), img.Cols()
	params := d.policy.ForSize(height, width)
	if params.Tier == vision.TierVeryLow {
		d.anomaly(rec, fmt.Sprintf("resolution %dx%d below %dx%d", height, width, vision.MinHeight, vision.MinWidth), s)
		return vision.Frame{}, false
	}

	frame, err := d.preprocessor.Prepare(img, params.Smoothing)
	if err != nil {
		d.logger.Error("Failed to preprocess %s: %v", rec.Path, err)
		d.anomaly(rec, "preprocessing failed", s)
		return vision.Frame{}, false
	}
	return frame, true
}

func (d *Deduplicator) anomaly(rec model.ImageRecord, detail string, s *sweep) {
	s.report.Anomalies++
	d.publisher.Publish(model.Event{
		Kind:     model.EventCUIDetected,
		CameraID: rec.CameraID,
		Path:     rec.Path,
		Detail:   detail,
	})
	if err := d.dispatcher.Anomaly(rec); err != nil {
		d.fail(rec, fmt.Errorf("resolve anomaly %s: %w", rec.Path, err), s)
	}
	d.resolved(rec, "anomaly")
}

func (d *Deduplicator) fail(rec model.ImageRecord, err error, s *sweep) {
	s.report.Failures++
	s.failures = append(s.failures, err)
	d.publisher.Publish(model.Event{
		Kind:     model.EventDispositionFailed,
		CameraID: rec.CameraID,
		Path:     rec.Path,
		Error:    err.Error(),
	})
}

func (d *Deduplicator) resolved(rec model.ImageRecord, detail string) {
	d.publisher.Publish(model.Event{
		Kind:     model.EventRecordResolved,
		CameraID: rec.CameraID,
		Path:     rec.Path,
		Detail:   detail,
	})
}
