package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/CavaJ/ImagingInterview/internal/config"
	"github.com/CavaJ/ImagingInterview/internal/dto"
	"github.com/CavaJ/ImagingInterview/internal/handler"
	"github.com/CavaJ/ImagingInterview/internal/logger"
	"github.com/CavaJ/ImagingInterview/internal/model"
	"github.com/CavaJ/ImagingInterview/internal/repository/sqlite"
	"github.com/CavaJ/ImagingInterview/internal/route"
	"github.com/CavaJ/ImagingInterview/internal/service/catalog"
	"github.com/CavaJ/ImagingInterview/internal/service/dedup"
	"github.com/CavaJ/ImagingInterview/internal/service/events"
	"github.com/CavaJ/ImagingInterview/internal/service/ledger"
	"github.com/CavaJ/ImagingInterview/internal/service/storage"
	"github.com/CavaJ/ImagingInterview/internal/service/vision"
	hub "github.com/CavaJ/ImagingInterview/internal/service/websocket"
)

var (
	// ErrLocked is returned when another run holds the image directory.
	ErrLocked = errors.New("image directory is locked by another run")
	// ErrNoLedger is returned by history queries when no database is configured.
	ErrNoLedger = errors.New("no run ledger configured (set db_path or --db)")
)

// App wires configuration, logging, the optional ledger and the optional
// event stream around the deduplication sweep.
type App struct {
	config     *config.Config
	logger     *logger.Logger
	db         *sqlite.DB
	ledger     *ledger.Ledger
	hubService *hub.HubService
	server     *http.Server
}

// NewApp creates the logger and opens the ledger when a database path is configured.
func NewApp(cfg *config.Config) (*App, error) {
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	a := &App{config: cfg, logger: log}

	if cfg.DatabasePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
			log.Close()
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			log.Close()
			return nil, err
		}
		a.db = db
		a.ledger = ledger.NewLedger(sqlite.NewRunRepository(db), sqlite.NewEventRepository(db), log)
	}
	return a, nil
}

// Logger returns the application logger.
func (a *App) Logger() *logger.Logger {
	return a.logger
}

// Config returns the effective configuration.
func (a *App) Config() *config.Config {
	return a.config
}

// Dedup runs one sweep over the configured image directory. Extra observers
// receive every event of the run. The returned run is non-nil whenever the
// sweep started, even if it also returns an error.
func (a *App) Dedup(ctx context.Context, observers ...events.Observer) (*model.Run, error) {
	root, err := filepath.Abs(a.config.ImageDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve image directory: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("image directory %s is not accessible", root)
	}

	lock := flock.New(filepath.Join(root, catalog.LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			a.logger.Warning("Failed to release lock: %v", err)
		}
	}()

	records, err := catalog.List(root, a.config.Extensions)
	if err != nil {
		return nil, err
	}
	groups := catalog.Group(records)

	run := &model.Run{
		ID:        uuid.NewString(),
		Root:      filepath.ToSlash(root),
		Action:    a.config.Action,
		DryRun:    a.config.DryRun,
		StartedAt: time.Now(),
		Records:   len(records),
	}

	bus := events.NewBus(run.ID)
	bus.Subscribe(events.NewLogObserver(a.logger))
	if a.ledger != nil {
		if err := a.ledger.Start(run); err != nil {
			return nil, err
		}
		bus.Subscribe(a.ledger)
	}
	if a.config.ListenAddr != "" {
		if err := a.startServer(); err != nil {
			return nil, err
		}
		bus.Subscribe(a.hubService)
	}
	for _, o := range observers {
		bus.Subscribe(o)
	}

	deduplicator := dedup.New(
		a.policy(),
		vision.NewPreprocessor(a.borderMask()),
		a.dispatcher(root),
		bus,
		a.logger,
	)

	bus.Publish(model.Event{Kind: model.EventRunStarted, Path: run.Root, Count: len(records), Detail: string(run.Action)})
	report, runErr := deduplicator.Run(ctx, groups)

	run.FinishedAt = time.Now()
	run.Groups = report.Groups
	run.Comparisons = report.Comparisons
	run.Duplicates = report.Duplicates
	run.Anomalies = report.Anomalies
	run.Failures = report.Failures

	bus.Publish(model.Event{
		Kind:   model.EventRunFinished,
		Count:  report.Duplicates + report.Anomalies,
		Detail: fmt.Sprintf("%d duplicate(s), %d anomaly(ies), %d failure(s) in %s", report.Duplicates, report.Anomalies, report.Failures, run.Duration().Round(time.Millisecond)),
	})

	if a.ledger != nil {
		if err := a.ledger.Finish(run); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}
	return run, runErr
}

// Survey reports the frame sizes per camera found in the image directory.
func (a *App) Survey() (dto.SurveyReport, error) {
	root, err := filepath.Abs(a.config.ImageDirectory)
	if err != nil {
		return dto.SurveyReport{}, fmt.Errorf("failed to resolve image directory: %w", err)
	}
	records, err := catalog.List(root, a.config.Extensions)
	if err != nil {
		return dto.SurveyReport{}, err
	}
	report := catalog.Survey(records, vision.Dimensions)
	report.Root = filepath.ToSlash(root)
	return report, nil
}

// History lists the most recent runs recorded in the ledger.
func (a *App) History(limit int) ([]model.Run, error) {
	if a.ledger == nil {
		return nil, ErrNoLedger
	}
	return a.ledger.Runs(limit)
}

// RunEvents returns one run and its audited events.
func (a *App) RunEvents(id string) (*model.Run, []model.Event, error) {
	if a.ledger == nil {
		return nil, nil, ErrNoLedger
	}
	run, err := a.ledger.Run(id)
	if err != nil {
		return nil, nil, err
	}
	if run == nil {
		return nil, nil, fmt.Errorf("run %s not found", id)
	}
	evs, err := a.ledger.Events(id)
	if err != nil {
		return nil, nil, err
	}
	return run, evs, nil
}

// Close stops the event stream and releases the ledger and log files.
func (a *App) Close() error {
	var errs []error
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		errs = append(errs, a.server.Shutdown(ctx))
		cancel()
		a.hubService.Stop()
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	errs = append(errs, a.logger.Close())
	return errors.Join(errs...)
}

func (a *App) startServer() error {
	if a.server != nil {
		return nil
	}
	a.hubService = hub.NewHubService(a.logger)
	go a.hubService.Run()

	var history handler.RunHistory
	if a.ledger != nil {
		history = a.ledger
	}

	a.server = &http.Server{
		Addr:              a.config.ListenAddr,
		Handler:           route.SetupRoutes(a.hubService, history, a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		a.hubService.Stop()
		a.server = nil
		return fmt.Errorf("failed to start event stream on %s: %w", a.config.ListenAddr, err)
	case <-time.After(100 * time.Millisecond):
	}

	a.logger.Info("Event stream: ws://%s/api/events", a.config.ListenAddr)
	go func() {
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Event stream stopped: %v", err)
		}
	}()
	return nil
}

func (a *App) dispatcher(root string) dedup.Dispatcher {
	if a.config.DryRun {
		return storage.NewDryRunDispatcher(a.config.Action, a.logger)
	}
	return storage.NewDispatcher(root, a.config.Action, a.logger)
}

func (a *App) policy() *vision.Policy {
	t := a.config.Tiers
	return vision.NewPolicy(tierParams(t.Low), tierParams(t.Mid), tierParams(t.High))
}

func (a *App) borderMask() vision.BorderMask {
	m := a.config.Mask
	return vision.BorderMask{Left: m.Left, Top: m.Top, Right: m.Right, Bottom: m.Bottom}
}

func tierParams(s config.TierSettings) vision.TierParams {
	return vision.TierParams{
		Smoothing:           vision.GaussianKernels(s.Kernels...),
		MinRegionFraction:   s.MinRegionFraction,
		SimilarityThreshold: s.SimilarityThreshold,
	}
}
