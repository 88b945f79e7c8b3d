package application

import (
	"context"
	"strings"

	"tranche/contexts/token-vesting/schedule-service/domain/entities"
	domainerrors "tranche/contexts/token-vesting/schedule-service/domain/errors"
	"tranche/contexts/token-vesting/schedule-service/domain/services"
	"tranche/contexts/token-vesting/schedule-service/ports"
)

type AddRecipientsResult struct {
	Added          int
	RecipientCount int
	AllocationSum  uint64
	Sealed         bool
}

// AddRecipients appends wallet+allocation pairs to an open registry and
// optionally seals it. A rejected seal does not roll back valid appends from
// the same call: the registry commits and the seal error is returned after.
func (s Service) AddRecipients(ctx context.Context, actor string, scheduleID string, inputs []entities.RecipientInput, seal bool) (AddRecipientsResult, error) {
	logger := ResolveLogger(s.Logger)

	var result AddRecipientsResult
	sealRejected := false

	err := s.Repo.UpdateSchedule(ctx, scheduleID, func(agg *ports.ScheduleAggregate, outbox ports.OutboxAppender) error {
		if !agg.Schedule.IsAdmin(actor) {
			return domainerrors.ErrUnauthorizedAdmin
		}
		if agg.Schedule.Sealed {
			return domainerrors.ErrRecipientsSealed
		}

		now := s.now()
		for i, input := range inputs {
			wallet := strings.TrimSpace(input.Wallet)
			if wallet == "" {
				return domainerrors.ErrInvalidWallet
			}
			if input.Allocation == 0 {
				return domainerrors.ErrInvalidAllocation
			}
			if len(agg.Recipients) >= entities.MaxRecipients {
				return domainerrors.ErrRecipientListFull
			}
			if agg.FindRecipient(wallet) != nil {
				return domainerrors.ErrDuplicateRecipient
			}
			for j := 0; j < i; j++ {
				if strings.TrimSpace(inputs[j].Wallet) == wallet {
					return domainerrors.ErrDuplicateRecipient
				}
			}

			agg.Recipients = append(agg.Recipients, entities.RecipientEntry{
				ScheduleID:    scheduleID,
				Wallet:        wallet,
				Allocation:    input.Allocation,
				MonthlyAmount: services.MonthlyAmount(input.Allocation),
				Position:      len(agg.Recipients),
				RegisteredAt:  now,
				UpdatedAt:     now,
			})
		}

		sum := agg.AllocationSum()
		if sum > agg.Schedule.TotalSupply {
			return domainerrors.ErrAllocationSumExceedsTotalSupply
		}

		agg.Schedule.RecipientCount = len(agg.Recipients)
		agg.Schedule.UpdatedAt = now

		if seal {
			if sum == agg.Schedule.TotalSupply {
				agg.Schedule.Sealed = true
			} else {
				// Appends still commit; the seal rejection is reported after.
				sealRejected = true
			}
		}

		result = AddRecipientsResult{
			Added:          len(inputs),
			RecipientCount: len(agg.Recipients),
			AllocationSum:  sum,
			Sealed:         agg.Schedule.Sealed,
		}

		envelope, err := s.newEnvelope(ctx, "vesting.recipients.added", scheduleID, map[string]any{
			"schedule_id":    scheduleID,
			"count_added":    len(inputs),
			"new_total":      len(agg.Recipients),
			"allocation_sum": sum,
			"sealed":         agg.Schedule.Sealed,
		})
		if err != nil {
			return err
		}
		return outbox.Append(envelope)
	})
	if err != nil {
		return AddRecipientsResult{}, err
	}

	logger.Info("recipients added",
		"event", "vesting_recipients_added",
		"module", moduleTag,
		"layer", "application",
		"schedule_id", scheduleID,
		"count_added", result.Added,
		"new_total", result.RecipientCount,
		"sealed", result.Sealed,
	)

	if sealRejected {
		return result, domainerrors.ErrAllocationSumMismatchAtSeal
	}
	return result, nil
}
