package sync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sellerpulse/backend/internal/domain/cabinet"
	"github.com/sellerpulse/backend/internal/infrastructure/logger"
	"github.com/sellerpulse/backend/internal/infrastructure/marketplace"
	"go.uber.org/zap"
)

// RunOptions selects what a sync run covers. A zero CabinetID means
// every syncable cabinet; zero From/To fall back to the configured
// lookback window ending today.
type RunOptions struct {
	CabinetID uuid.UUID
	From      time.Time
	To        time.Time
}

// StageResult records the outcome of one pipeline stage for one cabinet
type StageResult struct {
	Stage    string
	Err      error
	Skipped  bool
	Duration time.Duration
}

// CabinetReport aggregates the stage outcomes of one cabinet
type CabinetReport struct {
	CabinetID uuid.UUID
	Name      string
	Stages    []StageResult
	Err       error
}

// Failed reports whether any stage failed or the run aborted
func (r CabinetReport) Failed() bool {
	if r.Err != nil {
		return true
	}
	for _, s := range r.Stages {
		if s.Err != nil {
			return true
		}
	}
	return false
}

// RunReport aggregates one orchestrator run over all cabinets
type RunReport struct {
	Started    time.Time
	Finished   time.Time
	Succeeded  int
	Failed     int
	PerCabinet []CabinetReport
}

// Orchestrator fans a sync run out over the eligible cabinets with a
// bounded worker pool. Work on a single cabinet is strictly sequential;
// cabinets run concurrently up to the worker count, and one cabinet's
// failure never aborts the others.
type Orchestrator struct {
	pipeline *Pipeline
	cabinets cabinet.Repository
	workers  int
	lookback int
	logger   *zap.Logger
	now      func() time.Time
}

// NewOrchestrator creates an Orchestrator running the given pipeline
// with the given worker count and default lookback window in days
func NewOrchestrator(pipeline *Pipeline, cabinets cabinet.Repository, workers, lookbackDays int, log *zap.Logger) *Orchestrator {
	if workers <= 0 {
		workers = 1
	}
	if lookbackDays <= 0 {
		lookbackDays = 7
	}
	return &Orchestrator{
		pipeline: pipeline,
		cabinets: cabinets,
		workers:  workers,
		lookback: lookbackDays,
		logger:   log,
		now:      time.Now,
	}
}

// Run executes the pipeline for every selected cabinet and returns the
// aggregate report. It blocks until all workers have drained.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	report := &RunReport{Started: o.now()}

	targets, err := o.selectCabinets(ctx, opts)
	if err != nil {
		return nil, err
	}
	window := o.window(opts)

	jobs := make(chan cabinet.Cabinet)
	results := make(chan CabinetReport, len(targets))

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cab := range jobs {
				results <- o.runCabinet(ctx, cab, window)
			}
		}()
	}

	for _, cab := range targets {
		jobs <- cab
	}
	close(jobs)
	wg.Wait()
	close(results)

	for r := range results {
		if r.Failed() {
			report.Failed++
		} else {
			report.Succeeded++
		}
		report.PerCabinet = append(report.PerCabinet, r)
	}
	report.Finished = o.now()

	o.logger.Info("sync run finished",
		zap.Int("cabinets", len(targets)),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Duration("elapsed", report.Finished.Sub(report.Started)))
	return report, nil
}

// selectCabinets resolves the run options to concrete cabinets
func (o *Orchestrator) selectCabinets(ctx context.Context, opts RunOptions) ([]cabinet.Cabinet, error) {
	if opts.CabinetID != uuid.Nil {
		cab, err := o.cabinets.FindByID(ctx, opts.CabinetID)
		if err != nil {
			return nil, err
		}
		if !cab.Syncable() {
			return nil, cabinet.ErrNotSyncable
		}
		return []cabinet.Cabinet{*cab}, nil
	}
	return o.cabinets.FindSyncable(ctx)
}

// window resolves the date range of the run
func (o *Orchestrator) window(opts RunOptions) Window {
	w := Window{From: opts.From, To: opts.To}
	if w.To.IsZero() {
		w.To = o.now()
	}
	if w.From.IsZero() {
		w.From = w.To.AddDate(0, 0, -o.lookback)
	}
	return w
}

// runCabinet runs every pipeline stage for one cabinet in order.
//
// A stage failing with an auth-scope error means the token lacks that
// capability; the stage is skipped and the run continues. Any other
// stage error is recorded and the remaining stages still run, except a
// missing-cursor configuration error which aborts the whole cabinet.
func (o *Orchestrator) runCabinet(ctx context.Context, cab cabinet.Cabinet, w Window) CabinetReport {
	ctx, log := logger.WithCabinet(ctx, o.logger, cab.ID.String())
	report := CabinetReport{CabinetID: cab.ID, Name: cab.Name}

	log.Info("cabinet sync started",
		zap.Time("from", w.From),
		zap.Time("to", w.To))

	for _, st := range o.pipeline.stages() {
		stageCtx, slog := logger.WithStage(ctx, log, st.name)

		start := o.now()
		err := st.run(stageCtx, &cab, w)
		result := StageResult{Stage: st.name, Duration: o.now().Sub(start)}

		switch {
		case err == nil:
			slog.Debug("stage done", zap.Duration("elapsed", result.Duration))
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			result.Err = err
			report.Stages = append(report.Stages, result)
			report.Err = err
			slog.Warn("cabinet sync cancelled", zap.Error(err))
			return report
		case errors.Is(err, marketplace.ErrCursorMissing):
			result.Err = err
			report.Stages = append(report.Stages, result)
			report.Err = err
			slog.Error("cabinet sync aborted", zap.Error(err))
			return report
		case marketplace.IsKind(err, marketplace.KindAuthScope):
			result.Skipped = true
			slog.Info("stage skipped, token lacks capability", zap.Error(err))
		default:
			result.Err = err
			slog.Error("stage failed", zap.Error(err))
		}
		report.Stages = append(report.Stages, result)
	}

	if !report.Failed() {
		cab.MarkSynced(o.now())
		if err := o.cabinets.Save(ctx, &cab); err != nil {
			log.Warn("failed to record sync completion", zap.Error(err))
		}
	}
	return report
}
