package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/credit"
	"credit-engine/internal/infrastructure/monitoring"
)

// InstallmentReportJob refreshes the gauges for credits in progress and
// first installments due within the coming week. Scheduled daily by the
// cron runner in cmd.
type InstallmentReportJob struct {
	creditRepo credit.Repository
	logger     *slog.Logger
}

func NewInstallmentReportJob(creditRepo credit.Repository, logger *slog.Logger) *InstallmentReportJob {
	if creditRepo == nil || logger == nil {
		panic("InstallmentReportJob dependencies cannot be nil")
	}
	return &InstallmentReportJob{
		creditRepo: creditRepo,
		logger:     logger.With("job", "InstallmentReport"),
	}
}

func (j *InstallmentReportJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting installment report job.")

	inProgress, err := j.creditRepo.CountByStatus(ctx, credit.StatusInProgress)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to count credits in progress, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to count credits in progress: %w", err)
	}

	now := time.Now()
	weekAhead := now.AddDate(0, 0, 7)
	upcoming, err := j.creditRepo.CountFirstInstallmentsBetween(ctx, now, weekAhead)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to count upcoming first installments, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to count upcoming installments: %w", err)
	}

	monitoring.Business.CreditsInProgress.Set(float64(inProgress))
	monitoring.Business.UpcomingInstallments.Set(float64(upcoming))

	j.logger.InfoContext(ctx, "Installment report job finished.",
		slog.Int64("creditsInProgress", inProgress),
		slog.Int64("upcomingFirstInstallments", upcoming),
		slog.Duration("duration", time.Since(startTime)))
	return nil
}
