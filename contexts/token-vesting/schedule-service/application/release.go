package application

import (
	"context"
	"strings"

	"tranche/contexts/token-vesting/schedule-service/domain/entities"
	domainerrors "tranche/contexts/token-vesting/schedule-service/domain/errors"
	"tranche/contexts/token-vesting/schedule-service/domain/services"
	"tranche/contexts/token-vesting/schedule-service/ports"
)

type ReleaseResult struct {
	Wallet        string
	MonthIndex    int
	Amount        uint64
	Allocation    uint64
	ReleasedTotal uint64
}

type plannedTransfer struct {
	wallet      string
	destination string
	amount      uint64
}

// ReleaseToRecipient computes and pays one recipient's owed amount for the
// current time. Zero owed (revoked, fully caught up, or before the first
// boundary) is a silent success with no transfer, keeping repeated calls
// within the same month idempotent.
//
// destination may be empty, in which case the canonical receiving address
// for (mint, wallet) is used; any other supplied destination is rejected.
func (s Service) ReleaseToRecipient(ctx context.Context, actor string, scheduleID string, wallet string, destination string) (ReleaseResult, error) {
	logger := ResolveLogger(s.Logger)

	var result ReleaseResult
	err := s.Repo.UpdateSchedule(ctx, scheduleID, func(agg *ports.ScheduleAggregate, outbox ports.OutboxAppender) error {
		monthIndex, vaultBalance, err := s.checkReleasePreconditions(ctx, actor, scheduleID, agg)
		if err != nil {
			return err
		}

		transfer, itemResult, err := s.planRelease(ctx, agg, monthIndex, wallet, destination)
		if err != nil {
			return err
		}
		result = itemResult
		if transfer.amount == 0 {
			return nil
		}
		if transfer.amount > vaultBalance {
			return domainerrors.ErrInsufficientVaultBalance
		}

		// Stage the event before moving funds: a failure here rolls back with
		// the vault untouched, while the staged append only commits with the
		// aggregate.
		if err := s.appendReleasedEvent(ctx, outbox, scheduleID, itemResult); err != nil {
			return err
		}
		return s.Ledger.Transfer(ctx, s.Addresses.VaultAddress(scheduleID), transfer.destination, transfer.amount)
	})
	if err != nil {
		return ReleaseResult{}, err
	}

	logger.Info("tokens released",
		"event", "vesting_tokens_released",
		"module", moduleTag,
		"layer", "application",
		"schedule_id", scheduleID,
		"wallet", result.Wallet,
		"month_index", result.MonthIndex,
		"amount", result.Amount,
		"released_total", result.ReleasedTotal,
	)
	return result, nil
}

// BatchRelease applies the single-release workflow to up to five wallets
// atomically: every wallet is validated against the staged registry before
// any transfer, and one failing member rejects the whole batch.
func (s Service) BatchRelease(ctx context.Context, actor string, scheduleID string, wallets []string) ([]ReleaseResult, error) {
	logger := ResolveLogger(s.Logger)

	if len(wallets) == 0 {
		return nil, domainerrors.ErrEmptyBatch
	}
	if len(wallets) > entities.MaxBatchRelease {
		return nil, domainerrors.ErrBatchTooLarge
	}

	var results []ReleaseResult
	err := s.Repo.UpdateSchedule(ctx, scheduleID, func(agg *ports.ScheduleAggregate, outbox ports.OutboxAppender) error {
		monthIndex, vaultBalance, err := s.checkReleasePreconditions(ctx, actor, scheduleID, agg)
		if err != nil {
			return err
		}

		// Phase 1: validate and stage every member before touching the vault.
		results = results[:0]
		transfers := make([]plannedTransfer, 0, len(wallets))
		var total uint64
		for _, wallet := range wallets {
			transfer, itemResult, err := s.planRelease(ctx, agg, monthIndex, wallet, "")
			if err != nil {
				return err
			}
			results = append(results, itemResult)
			if transfer.amount == 0 {
				continue
			}
			total += transfer.amount
			transfers = append(transfers, transfer)
		}
		if total > vaultBalance {
			return domainerrors.ErrInsufficientVaultBalance
		}

		// Phase 2: stage every event, then execute the validated plan. All
		// fallible bookkeeping happens before the first transfer so a failure
		// can still roll back cleanly.
		for _, itemResult := range results {
			if itemResult.Amount == 0 {
				continue
			}
			if err := s.appendReleasedEvent(ctx, outbox, scheduleID, itemResult); err != nil {
				return err
			}
		}
		vault := s.Addresses.VaultAddress(scheduleID)
		for _, transfer := range transfers {
			if err := s.Ledger.Transfer(ctx, vault, transfer.destination, transfer.amount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("batch release completed",
		"event", "vesting_batch_release_completed",
		"module", moduleTag,
		"layer", "application",
		"schedule_id", scheduleID,
		"batch_size", len(wallets),
	)
	return results, nil
}

// checkReleasePreconditions runs the schedule-level gates shared by single
// and batch release: sealed registry, not paused, distributor authorization,
// accrued month index, and the exact-funding check on the first release.
func (s Service) checkReleasePreconditions(ctx context.Context, actor string, scheduleID string, agg *ports.ScheduleAggregate) (int, uint64, error) {
	if !agg.Schedule.Sealed {
		return 0, 0, domainerrors.ErrRecipientsNotSealed
	}
	if agg.Schedule.Paused {
		return 0, 0, domainerrors.ErrSchedulePaused
	}
	if !agg.Schedule.IsDistributor(actor) {
		return 0, 0, domainerrors.ErrUnauthorizedDistributor
	}

	monthIndex, err := services.MonthIndex(s.now(), agg.Schedule.StartAt)
	if err != nil {
		return 0, 0, err
	}

	vaultBalance, err := s.Ledger.BalanceOf(ctx, s.Addresses.VaultAddress(scheduleID))
	if err != nil {
		return 0, 0, err
	}
	if agg.Schedule.FirstRelease() && vaultBalance != agg.Schedule.TotalSupply {
		return 0, 0, domainerrors.ErrVaultNotExactlyFunded
	}
	return monthIndex, vaultBalance, nil
}

// planRelease validates one wallet's destination, computes the owed amount
// and applies it to the staged aggregate. The ledger transfer happens later;
// a zero amount marks a deliberate no-op.
func (s Service) planRelease(ctx context.Context, agg *ports.ScheduleAggregate, monthIndex int, wallet string, destination string) (plannedTransfer, ReleaseResult, error) {
	wallet = strings.TrimSpace(wallet)
	entry := agg.FindRecipient(wallet)
	if entry == nil {
		return plannedTransfer{}, ReleaseResult{}, domainerrors.ErrRecipientNotFound
	}

	expected := s.Addresses.ReceivingAddress(agg.Schedule.Mint, wallet)
	if destination == "" {
		destination = expected
	}
	if destination != expected {
		return plannedTransfer{}, ReleaseResult{}, domainerrors.ErrInvalidRecipientTokenAccount
	}
	// The account must already exist; provisioning is the caller's job and a
	// missing account surfaces as the ledger's own not-found error.
	account, err := s.Ledger.GetAccount(ctx, destination)
	if err != nil {
		return plannedTransfer{}, ReleaseResult{}, err
	}
	if account.Mint != agg.Schedule.Mint {
		return plannedTransfer{}, ReleaseResult{}, domainerrors.ErrInvalidTokenMint
	}
	if account.Owner != wallet {
		return plannedTransfer{}, ReleaseResult{}, domainerrors.ErrInvalidTokenAccount
	}

	amount := services.ReleasableAmount(*entry, monthIndex)
	if amount > 0 {
		entry.ReleasedAmount += amount
		entry.UpdatedAt = s.now()
		agg.Schedule.ReleasedSupply += amount
		agg.Schedule.UpdatedAt = entry.UpdatedAt
	}

	return plannedTransfer{wallet: wallet, destination: destination, amount: amount}, ReleaseResult{
		Wallet:        wallet,
		MonthIndex:    monthIndex,
		Amount:        amount,
		Allocation:    entry.Allocation,
		ReleasedTotal: entry.ReleasedAmount,
	}, nil
}

func (s Service) appendReleasedEvent(ctx context.Context, outbox ports.OutboxAppender, scheduleID string, result ReleaseResult) error {
	envelope, err := s.newEnvelope(ctx, "vesting.tokens.released", result.Wallet, map[string]any{
		"schedule_id":    scheduleID,
		"wallet":         result.Wallet,
		"month_index":    result.MonthIndex,
		"amount":         result.Amount,
		"allocation":     result.Allocation,
		"released_total": result.ReleasedTotal,
	})
	if err != nil {
		return err
	}
	return outbox.Append(envelope)
}
