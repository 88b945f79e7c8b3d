package services

import "tranche/contexts/token-vesting/schedule-service/domain/entities"

// VestedAmount is the cumulative amount unlocked for an entry after
// monthIndex boundaries: monthly_amount per boundary, nothing for the
// floor-division remainder. The remainder (dust) is only recoverable through
// the post-horizon sweep.
func VestedAmount(entry entities.RecipientEntry, monthIndex int) uint64 {
	if monthIndex < 0 {
		return 0
	}
	if monthIndex > entities.DurationMonths {
		monthIndex = entities.DurationMonths
	}
	return entry.MonthlyAmount * uint64(monthIndex)
}

// ReleasableAmount is the amount currently owed to an entry: vested minus
// already released, floored at zero. Revoked entries are always owed zero.
func ReleasableAmount(entry entities.RecipientEntry, monthIndex int) uint64 {
	if entry.Revoked {
		return 0
	}
	vested := VestedAmount(entry, monthIndex)
	if vested <= entry.ReleasedAmount {
		return 0
	}
	return vested - entry.ReleasedAmount
}

// MonthlyAmount is the per-boundary tranche for an allocation.
func MonthlyAmount(allocation uint64) uint64 {
	return allocation / entities.DurationMonths
}
