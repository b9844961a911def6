package scheduler

import (
	"context"

	appsync "github.com/sellerpulse/backend/internal/application/sync"
)

// OrchestratorExecutor adapts the sync orchestrator to the scheduler's
// executor interface
type OrchestratorExecutor struct {
	orchestrator *appsync.Orchestrator
}

// NewOrchestratorExecutor creates an executor over the orchestrator
func NewOrchestratorExecutor(orchestrator *appsync.Orchestrator) *OrchestratorExecutor {
	return &OrchestratorExecutor{orchestrator: orchestrator}
}

// Execute runs the orchestrator for the job's target and window and
// records the per-cabinet outcome on the job
func (e *OrchestratorExecutor) Execute(ctx context.Context, job *SyncJob) error {
	report, err := e.orchestrator.Run(ctx, appsync.RunOptions{
		CabinetID: job.CabinetID,
		From:      job.From,
		To:        job.To,
	})
	if err != nil {
		return err
	}
	job.Complete(report.Succeeded, report.Failed)
	return nil
}
