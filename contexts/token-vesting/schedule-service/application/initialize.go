package application

import (
	"context"
	"strings"
	"time"

	"tranche/contexts/token-vesting/schedule-service/domain/entities"
	domainerrors "tranche/contexts/token-vesting/schedule-service/domain/errors"
	"tranche/contexts/token-vesting/schedule-service/ports"
)

type InitializeScheduleInput struct {
	ScheduleID  string
	Mint        string
	Distributor string
	StartAt     time.Time
	TotalSupply uint64
}

// InitializeSchedule creates the schedule, its empty recipient registry and
// the vault custody account. One-time per schedule id.
func (s Service) InitializeSchedule(ctx context.Context, actor string, input InitializeScheduleInput) (entities.Schedule, error) {
	logger := ResolveLogger(s.Logger)

	actor = strings.TrimSpace(actor)
	if actor == "" {
		return entities.Schedule{}, domainerrors.ErrUnauthorizedAdmin
	}
	scheduleID := strings.TrimSpace(input.ScheduleID)
	mint := strings.TrimSpace(input.Mint)
	distributor := strings.TrimSpace(input.Distributor)
	if scheduleID == "" || mint == "" {
		return entities.Schedule{}, domainerrors.ErrInvalidConfig
	}
	if input.TotalSupply == 0 {
		return entities.Schedule{}, domainerrors.ErrInvalidConfig
	}
	if input.StartAt.IsZero() || input.StartAt.Unix() <= 0 {
		return entities.Schedule{}, domainerrors.ErrInvalidTimestamp
	}
	if distributor == "" {
		return entities.Schedule{}, domainerrors.ErrInvalidWallet
	}
	if err := s.checkDistributorIdentity(scheduleID, actor, distributor); err != nil {
		return entities.Schedule{}, err
	}

	now := s.now()
	schedule := entities.Schedule{
		ScheduleID:     scheduleID,
		Mint:           mint,
		Admin:          actor,
		Distributor:    distributor,
		StartAt:        input.StartAt.UTC(),
		DurationMonths: entities.DurationMonths,
		Paused:         false,
		TotalSupply:    input.TotalSupply,
		ReleasedSupply: 0,
		RecipientCount: 0,
		Sealed:         false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.Repo.CreateSchedule(ctx, ports.ScheduleAggregate{Schedule: schedule}); err != nil {
		return entities.Schedule{}, err
	}

	vault := s.Addresses.VaultAddress(scheduleID)
	if err := s.Ledger.CreateAccount(ctx, vault, s.Addresses.ScheduleAddress(scheduleID), mint); err != nil {
		return entities.Schedule{}, err
	}

	if s.Outbox != nil {
		envelope, err := s.newEnvelope(ctx, "vesting.schedule.initialized", scheduleID, map[string]any{
			"schedule_id":  scheduleID,
			"mint":         mint,
			"admin":        actor,
			"distributor":  distributor,
			"start_at":     schedule.StartAt.Format(time.RFC3339),
			"total_supply": schedule.TotalSupply,
		})
		if err != nil {
			return entities.Schedule{}, err
		}
		if err := s.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return entities.Schedule{}, err
		}
	}

	logger.Info("schedule initialized",
		"event", "vesting_schedule_initialized",
		"module", moduleTag,
		"layer", "application",
		"schedule_id", scheduleID,
		"mint", mint,
		"distributor", distributor,
		"start_at", schedule.StartAt.Format(time.RFC3339),
		"total_supply", schedule.TotalSupply,
	)
	return schedule, nil
}

// checkDistributorIdentity enforces the self-reference guards: the
// distributor can never be the admin or one of the schedule's own derived
// addresses, none of which can authorize a release.
func (s Service) checkDistributorIdentity(scheduleID string, admin string, distributor string) error {
	if distributor == admin {
		return domainerrors.ErrInvalidConfig
	}
	for _, derived := range []string{
		s.Addresses.ScheduleAddress(scheduleID),
		s.Addresses.VaultAddress(scheduleID),
		s.Addresses.RegistryAddress(scheduleID),
	} {
		if distributor == derived {
			return domainerrors.ErrInvalidConfig
		}
	}
	return nil
}
