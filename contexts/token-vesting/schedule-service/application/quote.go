package application

import (
	"context"
	"strings"

	"tranche/contexts/token-vesting/schedule-service/domain/services"
)

type QuoteResult struct {
	Wallet         string
	MonthIndex     int
	VestedAmount   uint64
	ReleasedAmount uint64
	Releasable     uint64
	Revoked        bool
}

// Quote recomputes a recipient's current entitlement without mutating any
// state: no repository write, no outbox append. Used by monitoring to
// cross-check on-ledger balances against the accounting state.
func (s Service) Quote(ctx context.Context, scheduleID string, wallet string) (QuoteResult, error) {
	schedule, err := s.Repo.GetSchedule(ctx, scheduleID)
	if err != nil {
		return QuoteResult{}, err
	}
	entry, err := s.Repo.GetRecipient(ctx, scheduleID, strings.TrimSpace(wallet))
	if err != nil {
		return QuoteResult{}, err
	}

	monthIndex, err := services.MonthIndex(s.now(), schedule.StartAt)
	if err != nil {
		return QuoteResult{}, err
	}

	return QuoteResult{
		Wallet:         entry.Wallet,
		MonthIndex:     monthIndex,
		VestedAmount:   services.VestedAmount(entry, monthIndex),
		ReleasedAmount: entry.ReleasedAmount,
		Releasable:     services.ReleasableAmount(entry, monthIndex),
		Revoked:        entry.Revoked,
	}, nil
}
