package memory

import (
	"context"
	"strings"
	"sync"

	"tranche/contexts/token-vesting/schedule-service/ports"
)

// The shared ledger sentinels live in ports; re-exported here so callers of
// the memory adapter keep a local name for them.
var (
	ErrAccountNotFound      = ports.ErrAccountNotFound
	ErrAccountExists        = ports.ErrAccountExists
	ErrInsufficientBalance  = ports.ErrInsufficientBalance
	ErrInvalidLedgerRequest = ports.ErrInvalidLedgerRequest
)

// Ledger is an in-memory stand-in for the external custody mechanism. In
// production deployments this boundary is the chain itself; the adapter
// exists so the core and its tooling run against real transfer semantics.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[string]ports.TokenAccount
}

func NewLedger() *Ledger {
	return &Ledger{accounts: make(map[string]ports.TokenAccount)}
}

func (l *Ledger) CreateAccount(_ context.Context, address string, owner string, mint string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	address = strings.TrimSpace(address)
	if address == "" || strings.TrimSpace(mint) == "" {
		return ErrInvalidLedgerRequest
	}
	if _, exists := l.accounts[address]; exists {
		return ErrAccountExists
	}
	l.accounts[address] = ports.TokenAccount{
		Address: address,
		Owner:   strings.TrimSpace(owner),
		Mint:    strings.TrimSpace(mint),
	}
	return nil
}

func (l *Ledger) GetAccount(_ context.Context, address string) (ports.TokenAccount, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	account, ok := l.accounts[strings.TrimSpace(address)]
	if !ok {
		return ports.TokenAccount{}, ErrAccountNotFound
	}
	return account, nil
}

func (l *Ledger) BalanceOf(_ context.Context, address string) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	account, ok := l.accounts[strings.TrimSpace(address)]
	if !ok {
		return 0, ErrAccountNotFound
	}
	return account.Balance, nil
}

func (l *Ledger) Transfer(_ context.Context, from string, to string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount == 0 {
		return ErrInvalidLedgerRequest
	}
	source, ok := l.accounts[strings.TrimSpace(from)]
	if !ok {
		return ErrAccountNotFound
	}
	dest, ok := l.accounts[strings.TrimSpace(to)]
	if !ok {
		return ErrAccountNotFound
	}
	if source.Mint != dest.Mint {
		return ErrInvalidLedgerRequest
	}
	if source.Balance < amount {
		return ErrInsufficientBalance
	}
	source.Balance -= amount
	dest.Balance += amount
	l.accounts[source.Address] = source
	l.accounts[dest.Address] = dest
	return nil
}

// Mint credits an account out of thin air. Test and tooling helper; the real
// custody ledger has its own issuance rules.
func (l *Ledger) Mint(_ context.Context, address string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[strings.TrimSpace(address)]
	if !ok {
		return ErrAccountNotFound
	}
	account.Balance += amount
	l.accounts[account.Address] = account
	return nil
}
