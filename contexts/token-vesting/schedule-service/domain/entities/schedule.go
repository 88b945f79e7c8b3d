package entities

import "time"

const (
	// MaxRecipients is the registry capacity per schedule.
	MaxRecipients = 35

	// MaxBatchRelease caps the wallets processed by one batch release.
	MaxBatchRelease = 5

	// DurationMonths is the fixed vesting horizon in calendar months.
	DurationMonths = 12
)

// Schedule is the singleton vesting configuration plus running totals.
// TotalSupply is immutable after initialization; ReleasedSupply only grows.
type Schedule struct {
	ScheduleID     string
	Mint           string
	Admin          string
	Distributor    string
	StartAt        time.Time
	DurationMonths int
	Paused         bool
	TotalSupply    uint64
	ReleasedSupply uint64
	RecipientCount int
	Sealed         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (s Schedule) IsAdmin(actor string) bool {
	return actor != "" && actor == s.Admin
}

func (s Schedule) IsDistributor(actor string) bool {
	return actor != "" && actor == s.Distributor
}

// FirstRelease reports whether the next successful release would be the very
// first one for the whole schedule, which triggers the exact-funding check.
func (s Schedule) FirstRelease() bool {
	return s.ReleasedSupply == 0
}
