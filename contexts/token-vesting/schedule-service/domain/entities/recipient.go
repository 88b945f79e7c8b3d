package entities

import "time"

// RecipientEntry is one row of the recipient registry. Allocation and
// MonthlyAmount are fixed at registration; ReleasedAmount is monotone and
// never exceeds Allocation. Entries are never deleted, revocation only stops
// future accrual.
type RecipientEntry struct {
	ScheduleID     string
	Wallet         string
	Allocation     uint64
	MonthlyAmount  uint64
	ReleasedAmount uint64
	Revoked        bool
	Position       int
	RegisteredAt   time.Time
	UpdatedAt      time.Time
}

// RecipientInput is the wallet+allocation pair accepted by registration.
type RecipientInput struct {
	Wallet     string
	Allocation uint64
}

// FullyReleased reports whether the entry has collected all twelve tranches.
// Rounding dust (allocation − monthly*12) is intentionally not releasable.
func (e RecipientEntry) FullyReleased() bool {
	return e.ReleasedAmount == e.MonthlyAmount*DurationMonths
}
