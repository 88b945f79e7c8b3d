package errors

import "errors"

var (
	ErrUnauthorizedAdmin       = errors.New("unauthorized: admin identity required")
	ErrUnauthorizedDistributor = errors.New("unauthorized: distributor identity required")

	ErrInvalidWallet    = errors.New("invalid wallet identity")
	ErrInvalidConfig    = errors.New("invalid schedule configuration")
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	ErrScheduleExists   = errors.New("schedule already initialized")
	ErrScheduleNotFound = errors.New("schedule not found")

	ErrRecipientsSealed    = errors.New("recipient registry is sealed")
	ErrRecipientsNotSealed = errors.New("recipient registry is not sealed")
	ErrRecipientListFull   = errors.New("recipient registry is full")
	ErrDuplicateRecipient  = errors.New("duplicate recipient wallet")
	ErrInvalidAllocation   = errors.New("invalid allocation (must be > 0)")
	ErrRecipientNotFound   = errors.New("recipient not found")
	ErrRecipientRevoked    = errors.New("recipient is already revoked")

	ErrAllocationSumExceedsTotalSupply = errors.New("allocation sum would exceed total supply")
	ErrAllocationSumMismatchAtSeal     = errors.New("allocation sum does not equal total supply at seal")

	ErrSchedulePaused    = errors.New("schedule is paused")
	ErrScheduleNotPaused = errors.New("schedule is not paused")

	ErrBeforeStart           = errors.New("release requested before start timestamp")
	ErrVaultNotExactlyFunded = errors.New("vault must be exactly funded to total supply before first release")
	ErrOverDeposit           = errors.New("deposit would exceed total supply")
	ErrDepositAfterStart     = errors.New("deposit after start timestamp is not allowed")

	ErrInvalidTokenMint             = errors.New("invalid token mint")
	ErrInvalidTokenAccount          = errors.New("invalid token account")
	ErrInvalidRecipientTokenAccount = errors.New("invalid receiving account for recipient")
	ErrInsufficientVaultBalance     = errors.New("insufficient vault balance")

	ErrBatchTooLarge = errors.New("batch size too large")
	ErrEmptyBatch    = errors.New("empty batch")

	ErrSweepBeforeEnd   = errors.New("sweep not allowed before vesting end")
	ErrSweepOutstanding = errors.New("sweep not allowed: unreleased non-revoked tranches remain")
)
