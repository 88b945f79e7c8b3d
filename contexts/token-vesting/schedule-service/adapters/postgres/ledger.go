package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tranche/contexts/token-vesting/schedule-service/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger is the durable custody adapter. Vault and receiving accounts live in
// the same database as the schedule state, so every process (api, worker,
// provisioner) and every restart sees the same balances.
type Ledger struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewLedger(db *gorm.DB, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		db:     db,
		logger: logger,
	}
}

func (l *Ledger) CreateAccount(ctx context.Context, address string, owner string, mint string) error {
	address = strings.TrimSpace(address)
	if address == "" || strings.TrimSpace(mint) == "" {
		return ports.ErrInvalidLedgerRequest
	}
	row := tokenAccountModel{
		Address:   address,
		Owner:     strings.TrimSpace(owner),
		Mint:      strings.TrimSpace(mint),
		Balance:   0,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrAccountExists
		}
		return err
	}
	return nil
}

func (l *Ledger) GetAccount(ctx context.Context, address string) (ports.TokenAccount, error) {
	var row tokenAccountModel
	err := l.db.WithContext(ctx).
		Where("address = ?", strings.TrimSpace(address)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.TokenAccount{}, ports.ErrAccountNotFound
		}
		return ports.TokenAccount{}, err
	}
	return row.toPort(), nil
}

func (l *Ledger) BalanceOf(ctx context.Context, address string) (uint64, error) {
	account, err := l.GetAccount(ctx, address)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// Transfer moves units between two accounts of the same mint. Both rows are
// locked for the duration of the transaction; rows are locked in address
// order so two opposing transfers cannot deadlock.
func (l *Ledger) Transfer(ctx context.Context, from string, to string, amount uint64) error {
	if amount == 0 {
		return ports.ErrInvalidLedgerRequest
	}
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)

	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		first, second := from, to
		if second < first {
			first, second = second, first
		}
		rows := make(map[string]*tokenAccountModel, 2)
		for _, address := range []string{first, second} {
			var row tokenAccountModel
			err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("address = ?", address).
				First(&row).
				Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ports.ErrAccountNotFound
				}
				return err
			}
			rows[address] = &row
		}

		source := rows[from]
		dest := rows[to]
		if source.Mint != dest.Mint {
			return ports.ErrInvalidLedgerRequest
		}
		if source.Balance < amount {
			return ports.ErrInsufficientBalance
		}

		now := time.Now().UTC()
		if err := tx.
			Model(&tokenAccountModel{}).
			Where("address = ?", source.Address).
			Updates(map[string]any{
				"balance":    source.Balance - amount,
				"updated_at": now,
			}).
			Error; err != nil {
			return err
		}
		return tx.
			Model(&tokenAccountModel{}).
			Where("address = ?", dest.Address).
			Updates(map[string]any{
				"balance":    dest.Balance + amount,
				"updated_at": now,
			}).
			Error
	})
}

// Mint credits an account directly. Operator tooling only; the production
// custody mechanism has its own issuance rules.
func (l *Ledger) Mint(ctx context.Context, address string, amount uint64) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row tokenAccountModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("address = ?", strings.TrimSpace(address)).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrAccountNotFound
			}
			return err
		}
		return tx.
			Model(&tokenAccountModel{}).
			Where("address = ?", row.Address).
			Updates(map[string]any{
				"balance":    row.Balance + amount,
				"updated_at": time.Now().UTC(),
			}).
			Error
	})
}

type tokenAccountModel struct {
	Address   string    `gorm:"column:address;primaryKey"`
	Owner     string    `gorm:"column:owner"`
	Mint      string    `gorm:"column:mint"`
	Balance   uint64    `gorm:"column:balance"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (tokenAccountModel) TableName() string {
	return "vesting_token_accounts"
}

func (m tokenAccountModel) toPort() ports.TokenAccount {
	return ports.TokenAccount{
		Address: m.Address,
		Owner:   m.Owner,
		Mint:    m.Mint,
		Balance: m.Balance,
	}
}
