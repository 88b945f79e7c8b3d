package application

import (
	"context"
	"strings"

	domainerrors "tranche/contexts/token-vesting/schedule-service/domain/errors"
	"tranche/contexts/token-vesting/schedule-service/domain/services"
	"tranche/contexts/token-vesting/schedule-service/ports"
)

// DepositTokens moves funding from an admin-owned account into the vault.
// Deposits are a pre-launch-only operation: they stop at start_ts and may
// never push the vault past total_supply, which is what makes the
// exact-funding check at first release meaningful.
func (s Service) DepositTokens(ctx context.Context, actor string, scheduleID string, source string, amount uint64) (uint64, error) {
	logger := ResolveLogger(s.Logger)
	if amount == 0 {
		return 0, domainerrors.ErrInvalidConfig
	}

	var vaultBalance uint64
	err := s.Repo.UpdateSchedule(ctx, scheduleID, func(agg *ports.ScheduleAggregate, outbox ports.OutboxAppender) error {
		if !agg.Schedule.IsAdmin(actor) {
			return domainerrors.ErrUnauthorizedAdmin
		}
		if !s.now().Before(agg.Schedule.StartAt) {
			return domainerrors.ErrDepositAfterStart
		}

		sourceAccount, err := s.Ledger.GetAccount(ctx, source)
		if err != nil {
			return err
		}
		if sourceAccount.Mint != agg.Schedule.Mint {
			return domainerrors.ErrInvalidTokenMint
		}
		if sourceAccount.Owner != agg.Schedule.Admin {
			return domainerrors.ErrInvalidTokenAccount
		}

		vault := s.Addresses.VaultAddress(scheduleID)
		balance, err := s.Ledger.BalanceOf(ctx, vault)
		if err != nil {
			return err
		}
		if balance+amount > agg.Schedule.TotalSupply {
			return domainerrors.ErrOverDeposit
		}

		if err := s.Ledger.Transfer(ctx, source, vault, amount); err != nil {
			return err
		}
		vaultBalance = balance + amount
		agg.Schedule.UpdatedAt = s.now()

		envelope, err := s.newEnvelope(ctx, "vesting.tokens.deposited", scheduleID, map[string]any{
			"schedule_id":   scheduleID,
			"amount":        amount,
			"vault_balance": vaultBalance,
		})
		if err != nil {
			return err
		}
		return outbox.Append(envelope)
	})
	if err != nil {
		return 0, err
	}

	logger.Info("tokens deposited",
		"event", "vesting_tokens_deposited",
		"module", moduleTag,
		"layer", "application",
		"schedule_id", scheduleID,
		"amount", amount,
		"vault_balance", vaultBalance,
	)
	return vaultBalance, nil
}

// Pause blocks the transfer step of releases. Accrual is time-based and
// keeps running; unpausing allows immediate catch-up of missed months.
func (s Service) Pause(ctx context.Context, actor string, scheduleID string) error {
	return s.setPaused(ctx, actor, scheduleID, true)
}

func (s Service) Unpause(ctx context.Context, actor string, scheduleID string) error {
	return s.setPaused(ctx, actor, scheduleID, false)
}

func (s Service) setPaused(ctx context.Context, actor string, scheduleID string, paused bool) error {
	logger := ResolveLogger(s.Logger)

	err := s.Repo.UpdateSchedule(ctx, scheduleID, func(agg *ports.ScheduleAggregate, outbox ports.OutboxAppender) error {
		if !agg.Schedule.IsAdmin(actor) {
			return domainerrors.ErrUnauthorizedAdmin
		}
		if paused && agg.Schedule.Paused {
			return domainerrors.ErrSchedulePaused
		}
		if !paused && !agg.Schedule.Paused {
			return domainerrors.ErrScheduleNotPaused
		}
		agg.Schedule.Paused = paused
		agg.Schedule.UpdatedAt = s.now()

		eventType := "vesting.schedule.paused"
		if !paused {
			eventType = "vesting.schedule.unpaused"
		}
		envelope, err := s.newEnvelope(ctx, eventType, scheduleID, map[string]any{
			"schedule_id": scheduleID,
		})
		if err != nil {
			return err
		}
		return outbox.Append(envelope)
	})
	if err != nil {
		return err
	}

	logger.Info("schedule pause toggled",
		"event", "vesting_schedule_pause_toggled",
		"module", moduleTag,
		"layer", "application",
		"schedule_id", scheduleID,
		"paused", paused,
	)
	return nil
}

// SetDistributor rotates the release authority, with the same identity
// collision guards as initialization.
func (s Service) SetDistributor(ctx context.Context, actor string, scheduleID string, newDistributor string) error {
	logger := ResolveLogger(s.Logger)

	newDistributor = strings.TrimSpace(newDistributor)
	if newDistributor == "" {
		return domainerrors.ErrInvalidWallet
	}

	err := s.Repo.UpdateSchedule(ctx, scheduleID, func(agg *ports.ScheduleAggregate, outbox ports.OutboxAppender) error {
		if !agg.Schedule.IsAdmin(actor) {
			return domainerrors.ErrUnauthorizedAdmin
		}
		if err := s.checkDistributorIdentity(scheduleID, agg.Schedule.Admin, newDistributor); err != nil {
			return err
		}

		previous := agg.Schedule.Distributor
		agg.Schedule.Distributor = newDistributor
		agg.Schedule.UpdatedAt = s.now()

		envelope, err := s.newEnvelope(ctx, "vesting.distributor.rotated", scheduleID, map[string]any{
			"schedule_id":     scheduleID,
			"old_distributor": previous,
			"new_distributor": newDistributor,
		})
		if err != nil {
			return err
		}
		return outbox.Append(envelope)
	})
	if err != nil {
		return err
	}

	logger.Info("distributor rotated",
		"event", "vesting_distributor_rotated",
		"module", moduleTag,
		"layer", "application",
		"schedule_id", scheduleID,
		"new_distributor", newDistributor,
	)
	return nil
}

// RevokeRecipient freezes all future accrual for a wallet. Already-released
// amounts stay paid and the allocation field keeps its value for reporting.
func (s Service) RevokeRecipient(ctx context.Context, actor string, scheduleID string, wallet string) error {
	logger := ResolveLogger(s.Logger)

	wallet = strings.TrimSpace(wallet)
	err := s.Repo.UpdateSchedule(ctx, scheduleID, func(agg *ports.ScheduleAggregate, outbox ports.OutboxAppender) error {
		if !agg.Schedule.IsAdmin(actor) {
			return domainerrors.ErrUnauthorizedAdmin
		}
		entry := agg.FindRecipient(wallet)
		if entry == nil {
			return domainerrors.ErrRecipientNotFound
		}
		if entry.Revoked {
			return domainerrors.ErrRecipientRevoked
		}
		entry.Revoked = true
		entry.UpdatedAt = s.now()
		agg.Schedule.UpdatedAt = entry.UpdatedAt

		envelope, err := s.newEnvelope(ctx, "vesting.recipient.revoked", wallet, map[string]any{
			"schedule_id": scheduleID,
			"wallet":      wallet,
		})
		if err != nil {
			return err
		}
		return outbox.Append(envelope)
	})
	if err != nil {
		return err
	}

	logger.Info("recipient revoked",
		"event", "vesting_recipient_revoked",
		"module", moduleTag,
		"layer", "application",
		"schedule_id", scheduleID,
		"wallet", wallet,
	)
	return nil
}

// AdminWithdraw is an unconditional emergency extraction from the vault. By
// explicit operational policy it is NOT tied to released_supply or any other
// schedule invariant; treat it as a privileged escape hatch in any review.
// queryID is an opaque caller-supplied correlation token for off-chain
// auditing, echoed in the emitted event and otherwise uninterpreted.
func (s Service) AdminWithdraw(ctx context.Context, actor string, scheduleID string, destination string, amount uint64, queryID uint64) error {
	logger := ResolveLogger(s.Logger)
	if amount == 0 {
		return domainerrors.ErrInvalidConfig
	}

	err := s.Repo.UpdateSchedule(ctx, scheduleID, func(agg *ports.ScheduleAggregate, outbox ports.OutboxAppender) error {
		if !agg.Schedule.IsAdmin(actor) {
			return domainerrors.ErrUnauthorizedAdmin
		}
		if err := s.checkAdminDestination(ctx, agg, destination); err != nil {
			return err
		}

		vault := s.Addresses.VaultAddress(scheduleID)
		balance, err := s.Ledger.BalanceOf(ctx, vault)
		if err != nil {
			return err
		}
		if balance < amount {
			return domainerrors.ErrInsufficientVaultBalance
		}
		if err := s.Ledger.Transfer(ctx, vault, destination, amount); err != nil {
			return err
		}

		envelope, err := s.newEnvelope(ctx, "vesting.admin.withdrawn", scheduleID, map[string]any{
			"schedule_id": scheduleID,
			"amount":      amount,
			"query_id":    queryID,
		})
		if err != nil {
			return err
		}
		return outbox.Append(envelope)
	})
	if err != nil {
		return err
	}

	logger.Warn("admin withdrawal executed",
		"event", "vesting_admin_withdrawn",
		"module", moduleTag,
		"layer", "application",
		"schedule_id", scheduleID,
		"amount", amount,
		"query_id", queryID,
	)
	return nil
}

// SweepDustAfterEnd recovers the residual vault balance (floor-division dust
// plus unclaimed revoked allocation) once the 12th boundary has passed and
// every non-revoked recipient has collected all twelve tranches.
func (s Service) SweepDustAfterEnd(ctx context.Context, actor string, scheduleID string, destination string) (uint64, error) {
	logger := ResolveLogger(s.Logger)

	var swept uint64
	err := s.Repo.UpdateSchedule(ctx, scheduleID, func(agg *ports.ScheduleAggregate, outbox ports.OutboxAppender) error {
		if !agg.Schedule.IsAdmin(actor) {
			return domainerrors.ErrUnauthorizedAdmin
		}
		if !services.AfterHorizon(s.now(), agg.Schedule.StartAt) {
			return domainerrors.ErrSweepBeforeEnd
		}
		for _, entry := range agg.Recipients {
			if !entry.Revoked && !entry.FullyReleased() {
				return domainerrors.ErrSweepOutstanding
			}
		}
		if err := s.checkAdminDestination(ctx, agg, destination); err != nil {
			return err
		}

		vault := s.Addresses.VaultAddress(scheduleID)
		balance, err := s.Ledger.BalanceOf(ctx, vault)
		if err != nil {
			return err
		}
		swept = balance
		if balance > 0 {
			if err := s.Ledger.Transfer(ctx, vault, destination, balance); err != nil {
				return err
			}
		}

		envelope, err := s.newEnvelope(ctx, "vesting.dust.swept", scheduleID, map[string]any{
			"schedule_id": scheduleID,
			"amount":      swept,
		})
		if err != nil {
			return err
		}
		return outbox.Append(envelope)
	})
	if err != nil {
		return 0, err
	}

	logger.Info("dust swept",
		"event", "vesting_dust_swept",
		"module", moduleTag,
		"layer", "application",
		"schedule_id", scheduleID,
		"amount", swept,
	)
	return swept, nil
}

func (s Service) checkAdminDestination(ctx context.Context, agg *ports.ScheduleAggregate, destination string) error {
	account, err := s.Ledger.GetAccount(ctx, destination)
	if err != nil {
		return err
	}
	if account.Mint != agg.Schedule.Mint {
		return domainerrors.ErrInvalidTokenMint
	}
	if account.Owner != agg.Schedule.Admin {
		return domainerrors.ErrInvalidTokenAccount
	}
	return nil
}
