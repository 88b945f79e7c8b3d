package workers

import (
	"context"
	"errors"
	"log/slog"

	application "tranche/contexts/token-vesting/schedule-service/application"
	"tranche/contexts/token-vesting/schedule-service/domain/entities"
	domainerrors "tranche/contexts/token-vesting/schedule-service/domain/errors"
)

// ReleaseRunner drives scheduled distribution for one schedule: it quotes
// every registered recipient and releases the ones with accrued balance in
// batches, acting as the configured distributor.
type ReleaseRunner struct {
	Service     application.Service
	ScheduleID  string
	Distributor string
	Logger      *slog.Logger
}

func (r ReleaseRunner) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)

	recipients, err := r.Service.ListRecipients(ctx, r.ScheduleID)
	if err != nil {
		logger.Error("release cycle recipient listing failed",
			"event", "vesting_release_cycle_list_failed",
			"module", "token-vesting/schedule-service",
			"layer", "worker",
			"schedule_id", r.ScheduleID,
			"error", err.Error(),
		)
		return err
	}

	due := make([]string, 0, len(recipients))
	for _, entry := range recipients {
		if entry.Revoked {
			continue
		}
		quote, err := r.Service.Quote(ctx, r.ScheduleID, entry.Wallet)
		if err != nil {
			if errors.Is(err, domainerrors.ErrBeforeStart) {
				return nil
			}
			return err
		}
		if quote.Releasable > 0 {
			due = append(due, entry.Wallet)
		}
	}
	if len(due) == 0 {
		return nil
	}

	released := 0
	for start := 0; start < len(due); start += entities.MaxBatchRelease {
		end := start + entities.MaxBatchRelease
		if end > len(due) {
			end = len(due)
		}
		results, err := r.Service.BatchRelease(ctx, r.Distributor, r.ScheduleID, due[start:end])
		if err != nil {
			if errors.Is(err, domainerrors.ErrSchedulePaused) ||
				errors.Is(err, domainerrors.ErrRecipientsNotSealed) ||
				errors.Is(err, domainerrors.ErrVaultNotExactlyFunded) {
				logger.Warn("release cycle skipped",
					"event", "vesting_release_cycle_skipped",
					"module", "token-vesting/schedule-service",
					"layer", "worker",
					"schedule_id", r.ScheduleID,
					"reason", err.Error(),
				)
				return nil
			}
			return err
		}
		released += len(results)
	}

	logger.Info("release cycle completed",
		"event", "vesting_release_cycle_completed",
		"module", "token-vesting/schedule-service",
		"layer", "worker",
		"schedule_id", r.ScheduleID,
		"released_count", released,
	)
	return nil
}
