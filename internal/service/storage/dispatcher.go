package storage

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/CavaJ/ImagingInterview/internal/logger"
	"github.com/CavaJ/ImagingInterview/internal/model"
)

const (
	// AnomalyDir receives corrupted, unsupported or too-small images in move mode.
	AnomalyDir = "CUI"
	// DuplicateDir holds one folder per base image in move mode.
	DuplicateDir = "DUP"
)

// Dispatcher applies the configured action to images resolved by the sweep.
type Dispatcher struct {
	root   string
	action model.Action
	logger *logger.Logger
}

// NewDispatcher creates a Dispatcher writing its folders under root.
func NewDispatcher(root string, action model.Action, logger *logger.Logger) *Dispatcher {
	return &Dispatcher{
		root:   filepath.Clean(filepath.FromSlash(root)),
		action: action,
		logger: logger,
	}
}

// AnomalyPath returns the folder anomalies are moved to.
func (d *Dispatcher) AnomalyPath() string {
	return filepath.Join(d.root, AnomalyDir)
}

// DuplicatePath returns the folder that collects duplicates of base.
func (d *Dispatcher) DuplicatePath(base model.ImageRecord) string {
	return filepath.Join(d.root, DuplicateDir, base.Stem())
}

// Anomaly removes rec or moves it into the CUI folder.
func (d *Dispatcher) Anomaly(rec model.ImageRecord) error {
	src := filepath.FromSlash(rec.Path)
	switch d.action {
	case model.ActionRemove:
		if err := RemoveFile(src); err != nil {
			return err
		}
		d.logger.Debug("Removed CUI image %s", rec.Path)
	case model.ActionMove:
		dst, err := MoveFile(d.AnomalyPath(), src)
		if err != nil {
			return err
		}
		d.logger.Debug("Moved CUI image %s to %s", rec.Path, filepath.ToSlash(dst))
	default:
		return fmt.Errorf("%w: %q", model.ErrUnknownAction, d.action)
	}
	return nil
}

// Duplicate removes candidate, or moves it next to a copy of base inside
// DUP/<base-stem>. The base copy is made at most once.
func (d *Dispatcher) Duplicate(base, candidate model.ImageRecord) error {
	src := filepath.FromSlash(candidate.Path)
	switch d.action {
	case model.ActionRemove:
		if err := RemoveFile(src); err != nil {
			return err
		}
		d.logger.Debug("Removed duplicate %s of %s", candidate.Path, base.Path)
	case model.ActionMove:
		dir := d.DuplicatePath(base)
		if _, copied, err := CopyFileOnce(dir, filepath.FromSlash(base.Path)); err != nil {
			return err
		} else if copied {
			d.logger.Debug("Copied base %s to %s", base.Path, filepath.ToSlash(dir))
		}
		dst, err := MoveFile(dir, src)
		if err != nil {
			return err
		}
		d.logger.Debug("Moved duplicate %s to %s", candidate.Path, filepath.ToSlash(dst))
	default:
		return fmt.Errorf("%w: %q", model.ErrUnknownAction, d.action)
	}
	return nil
}

// Decision is a disposition recorded instead of executed.
type Decision struct {
	Action    model.Action
	Anomaly   bool
	Base      string
	Candidate string
}

// DryRunDispatcher records what a Dispatcher would do without touching the filesystem.
type DryRunDispatcher struct {
	action    model.Action
	logger    *logger.Logger
	decisions []Decision
	mu        sync.Mutex
}

// NewDryRunDispatcher creates a DryRunDispatcher.
func NewDryRunDispatcher(action model.Action, logger *logger.Logger) *DryRunDispatcher {
	return &DryRunDispatcher{action: action, logger: logger}
}

// Anomaly records rec as an anomaly.
func (d *DryRunDispatcher) Anomaly(rec model.ImageRecord) error {
	d.record(Decision{Action: d.action, Anomaly: true, Candidate: rec.Path})
	d.logger.Info("[dry-run] would %s CUI image %s", d.action, rec.Path)
	return nil
}

// Duplicate records candidate as a duplicate of base.
func (d *DryRunDispatcher) Duplicate(base, candidate model.ImageRecord) error {
	d.record(Decision{Action: d.action, Base: base.Path, Candidate: candidate.Path})
	d.logger.Info("[dry-run] would %s duplicate %s of %s", d.action, candidate.Path, base.Path)
	return nil
}

// Decisions returns the recorded decisions in dispatch order.
func (d *DryRunDispatcher) Decisions() []Decision {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Decision, len(d.decisions))
	copy(out, d.decisions)
	return out
}

func (d *DryRunDispatcher) record(dec Decision) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.decisions = append(d.decisions, dec)
}
