package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type InitializeScheduleRequest struct {
	ScheduleID  string `json:"schedule_id"`
	Mint        string `json:"mint"`
	Distributor string `json:"distributor"`
	StartAt     string `json:"start_at"`
	TotalSupply uint64 `json:"total_supply"`
}

type ScheduleDTO struct {
	ScheduleID     string `json:"schedule_id"`
	Mint           string `json:"mint"`
	Admin          string `json:"admin"`
	Distributor    string `json:"distributor"`
	StartAt        string `json:"start_at"`
	DurationMonths int    `json:"duration_months"`
	Paused         bool   `json:"paused"`
	TotalSupply    uint64 `json:"total_supply"`
	ReleasedSupply uint64 `json:"released_supply"`
	RecipientCount int    `json:"recipient_count"`
	Sealed         bool   `json:"sealed"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type ScheduleResponse struct {
	Status string      `json:"status"`
	Data   ScheduleDTO `json:"data"`
}

type RecipientInputDTO struct {
	Wallet     string `json:"wallet"`
	Allocation uint64 `json:"allocation"`
}

type AddRecipientsRequest struct {
	Recipients []RecipientInputDTO `json:"recipients"`
	Seal       bool                `json:"seal"`
}

type AddRecipientsResponse struct {
	Status string `json:"status"`
	Data   struct {
		Added          int    `json:"added"`
		RecipientCount int    `json:"recipient_count"`
		AllocationSum  uint64 `json:"allocation_sum"`
		Sealed         bool   `json:"sealed"`
	} `json:"data"`
}

type RecipientDTO struct {
	Wallet         string `json:"wallet"`
	Allocation     uint64 `json:"allocation"`
	MonthlyAmount  uint64 `json:"monthly_amount"`
	ReleasedAmount uint64 `json:"released_amount"`
	Revoked        bool   `json:"revoked"`
	Position       int    `json:"position"`
	RegisteredAt   string `json:"registered_at"`
}

type RecipientListResponse struct {
	Status string         `json:"status"`
	Data   []RecipientDTO `json:"data"`
}

type ReleaseRequest struct {
	Wallet      string `json:"wallet"`
	Destination string `json:"destination,omitempty"`
}

type BatchReleaseRequest struct {
	Wallets []string `json:"wallets"`
}

type ReleaseDTO struct {
	Wallet        string `json:"wallet"`
	MonthIndex    int    `json:"month_index"`
	Amount        uint64 `json:"amount"`
	Allocation    uint64 `json:"allocation"`
	ReleasedTotal uint64 `json:"released_total"`
}

type ReleaseResponse struct {
	Status string     `json:"status"`
	Data   ReleaseDTO `json:"data"`
}

type BatchReleaseResponse struct {
	Status string       `json:"status"`
	Data   []ReleaseDTO `json:"data"`
}

type QuoteResponse struct {
	Status string `json:"status"`
	Data   struct {
		Wallet         string `json:"wallet"`
		MonthIndex     int    `json:"month_index"`
		VestedAmount   uint64 `json:"vested_amount"`
		ReleasedAmount uint64 `json:"released_amount"`
		Releasable     uint64 `json:"releasable"`
		Revoked        bool   `json:"revoked"`
	} `json:"data"`
}

type DepositRequest struct {
	Source string `json:"source"`
	Amount uint64 `json:"amount"`
}

type DepositResponse struct {
	Status string `json:"status"`
	Data   struct {
		VaultBalance uint64 `json:"vault_balance"`
	} `json:"data"`
}

type SetDistributorRequest struct {
	Distributor string `json:"distributor"`
}

type RevokeRecipientRequest struct {
	Wallet string `json:"wallet"`
}

type WithdrawRequest struct {
	Destination string `json:"destination"`
	Amount      uint64 `json:"amount"`
	QueryID     uint64 `json:"query_id"`
}

type SweepRequest struct {
	Destination string `json:"destination"`
}

type SweepResponse struct {
	Status string `json:"status"`
	Data   struct {
		Swept uint64 `json:"swept"`
	} `json:"data"`
}

type AckResponse struct {
	Status string `json:"status"`
}
