package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// QuoteExpiryJobName is the name of the quote expiry sweep job
const QuoteExpiryJobName = "quote_expiry_sweep"

// QuoteExpirySweeper transitions sent quotes past their valid-until date to expired.
type QuoteExpirySweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// QuoteExpiryJob periodically expires stale open quotes so their public
// links stop accepting.
type QuoteExpiryJob struct {
	quoteService QuoteExpirySweeper
	logger       *zap.Logger
	timeout      time.Duration
}

// NewQuoteExpiryJob creates a new quote expiry sweep job.
func NewQuoteExpiryJob(quoteService QuoteExpirySweeper, logger *zap.Logger, timeout time.Duration) *QuoteExpiryJob {
	return &QuoteExpiryJob{
		quoteService: quoteService,
		logger:       logger,
		timeout:      timeout,
	}
}

// Run executes one sweep. This is called by the scheduler.
func (j *QuoteExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	expired, err := j.quoteService.SweepExpired(ctx)
	if err != nil {
		j.logger.Error("quote expiry sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if expired > 0 {
		j.logger.Info("quote expiry sweep completed",
			zap.Int("expired", expired),
			zap.Duration("duration", time.Since(start)))
	}
}

// RegisterQuoteExpiryJob registers the quote expiry sweep with the scheduler.
func RegisterQuoteExpiryJob(scheduler *Scheduler, quoteService QuoteExpirySweeper, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewQuoteExpiryJob(quoteService, logger, timeout)
	return scheduler.AddJob(QuoteExpiryJobName, cronExpr, job.Run)
}
