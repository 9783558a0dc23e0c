package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SLASweepJobName is the name of the lead response deadline sweep job
const SLASweepJobName = "lead_sla_sweep"

// LeadSLASweeper marks overdue new leads as breached and notifies dispatch.
// The interface keeps this package from importing the service package.
type LeadSLASweeper interface {
	SweepSLABreaches(ctx context.Context) (int, error)
}

// SLASweepJob periodically flags new leads whose response deadline has passed.
type SLASweepJob struct {
	leadService LeadSLASweeper
	logger      *zap.Logger
	timeout     time.Duration
}

// NewSLASweepJob creates a new lead response deadline sweep job.
func NewSLASweepJob(leadService LeadSLASweeper, logger *zap.Logger, timeout time.Duration) *SLASweepJob {
	return &SLASweepJob{
		leadService: leadService,
		logger:      logger,
		timeout:     timeout,
	}
}

// Run executes one sweep. This is called by the scheduler.
func (j *SLASweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	breached, err := j.leadService.SweepSLABreaches(ctx)
	if err != nil {
		j.logger.Error("lead response deadline sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if breached > 0 {
		j.logger.Info("lead response deadline sweep completed",
			zap.Int("newly_breached", breached),
			zap.Duration("duration", time.Since(start)))
	}
}

// RegisterSLASweepJob registers the lead response deadline sweep with the scheduler.
func RegisterSLASweepJob(scheduler *Scheduler, leadService LeadSLASweeper, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewSLASweepJob(leadService, logger, timeout)
	return scheduler.AddJob(SLASweepJobName, cronExpr, job.Run)
}
