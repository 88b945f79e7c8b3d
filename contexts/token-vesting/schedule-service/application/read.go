package application

import (
	"context"

	"tranche/contexts/token-vesting/schedule-service/domain/entities"
)

func (s Service) GetSchedule(ctx context.Context, scheduleID string) (entities.Schedule, error) {
	return s.Repo.GetSchedule(ctx, scheduleID)
}

func (s Service) ListRecipients(ctx context.Context, scheduleID string) ([]entities.RecipientEntry, error) {
	if _, err := s.Repo.GetSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	return s.Repo.ListRecipients(ctx, scheduleID)
}

// VaultBalance reads the current custody balance for a schedule's vault.
func (s Service) VaultBalance(ctx context.Context, scheduleID string) (uint64, error) {
	if _, err := s.Repo.GetSchedule(ctx, scheduleID); err != nil {
		return 0, err
	}
	return s.Ledger.BalanceOf(ctx, s.Addresses.VaultAddress(scheduleID))
}
