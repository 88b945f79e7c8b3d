package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"tranche/contexts/token-vesting/schedule-service/domain/entities"
	domainerrors "tranche/contexts/token-vesting/schedule-service/domain/errors"
	"tranche/contexts/token-vesting/schedule-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateSchedule(ctx context.Context, aggregate ports.ScheduleAggregate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := scheduleModelFromEntity(aggregate.Schedule)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrScheduleExists
			}
			return err
		}
		for _, entry := range aggregate.Recipients {
			entryRow := recipientModelFromEntity(entry)
			if err := tx.Create(&entryRow).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrDuplicateRecipient
				}
				return err
			}
		}
		return nil
	})
}

func (r *Repository) GetSchedule(ctx context.Context, scheduleID string) (entities.Schedule, error) {
	var row scheduleModel
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Schedule{}, domainerrors.ErrScheduleNotFound
		}
		return entities.Schedule{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListRecipients(ctx context.Context, scheduleID string) ([]entities.RecipientEntry, error) {
	var rows []recipientModel
	if err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("position ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.RecipientEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetRecipient(ctx context.Context, scheduleID string, wallet string) (entities.RecipientEntry, error) {
	var row recipientModel
	err := r.db.WithContext(ctx).
		Where("schedule_id = ? AND wallet = ?", scheduleID, wallet).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.RecipientEntry{}, domainerrors.ErrRecipientNotFound
		}
		return entities.RecipientEntry{}, err
	}
	return row.toEntity(), nil
}

// UpdateSchedule stages the aggregate inside a transaction holding a row
// lock on the schedule, so concurrent operations against the same schedule
// serialize at the database and a failed mutation rolls everything back.
func (r *Repository) UpdateSchedule(ctx context.Context, scheduleID string, mutate func(*ports.ScheduleAggregate, ports.OutboxAppender) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var scheduleRow scheduleModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("schedule_id = ?", scheduleID).
			First(&scheduleRow).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrScheduleNotFound
			}
			return err
		}

		var recipientRows []recipientModel
		if err := tx.
			Where("schedule_id = ?", scheduleID).
			Order("position ASC").
			Find(&recipientRows).
			Error; err != nil {
			return err
		}

		staged := ports.ScheduleAggregate{
			Schedule:   scheduleRow.toEntity(),
			Recipients: make([]entities.RecipientEntry, 0, len(recipientRows)),
		}
		for _, row := range recipientRows {
			staged.Recipients = append(staged.Recipients, row.toEntity())
		}
		collector := &outboxCollector{}

		if err := mutate(&staged, collector); err != nil {
			return err
		}

		updated := scheduleModelFromEntity(staged.Schedule)
		if err := tx.
			Model(&scheduleModel{}).
			Where("schedule_id = ?", scheduleID).
			Updates(map[string]any{
				"distributor":     updated.Distributor,
				"paused":          updated.Paused,
				"released_supply": updated.ReleasedSupply,
				"recipient_count": updated.RecipientCount,
				"sealed":          updated.Sealed,
				"updated_at":      updated.UpdatedAt,
			}).
			Error; err != nil {
			return err
		}

		for _, entry := range staged.Recipients {
			entryRow := recipientModelFromEntity(entry)
			if err := tx.
				Clauses(clause.OnConflict{
					Columns: []clause.Column{{Name: "schedule_id"}, {Name: "wallet"}},
					DoUpdates: clause.AssignmentColumns([]string{
						"released_amount", "revoked", "updated_at",
					}),
				}).
				Create(&entryRow).
				Error; err != nil {
				return err
			}
		}

		for _, envelope := range collector.envelopes {
			if err := appendOutboxTx(tx, envelope); err != nil {
				return err
			}
		}
		return nil
	})
}

type outboxCollector struct {
	envelopes []ports.EventEnvelope
}

func (c *outboxCollector) Append(envelope ports.EventEnvelope) error {
	c.envelopes = append(c.envelopes, envelope)
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	return appendOutboxTx(r.db.WithContext(ctx), envelope)
}

func appendOutboxTx(tx *gorm.DB, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if err := tx.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row).
		Error; err != nil {
		return err
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outboxStatusSent,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrScheduleNotFound
	}
	return nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type scheduleModel struct {
	ScheduleID     string    `gorm:"column:schedule_id;primaryKey"`
	Mint           string    `gorm:"column:mint"`
	Admin          string    `gorm:"column:admin"`
	Distributor    string    `gorm:"column:distributor"`
	StartAt        time.Time `gorm:"column:start_at"`
	DurationMonths int       `gorm:"column:duration_months"`
	Paused         bool      `gorm:"column:paused"`
	TotalSupply    uint64    `gorm:"column:total_supply"`
	ReleasedSupply uint64    `gorm:"column:released_supply"`
	RecipientCount int       `gorm:"column:recipient_count"`
	Sealed         bool      `gorm:"column:sealed"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (scheduleModel) TableName() string {
	return "vesting_schedules"
}

func scheduleModelFromEntity(schedule entities.Schedule) scheduleModel {
	return scheduleModel{
		ScheduleID:     schedule.ScheduleID,
		Mint:           schedule.Mint,
		Admin:          schedule.Admin,
		Distributor:    schedule.Distributor,
		StartAt:        schedule.StartAt.UTC(),
		DurationMonths: schedule.DurationMonths,
		Paused:         schedule.Paused,
		TotalSupply:    schedule.TotalSupply,
		ReleasedSupply: schedule.ReleasedSupply,
		RecipientCount: schedule.RecipientCount,
		Sealed:         schedule.Sealed,
		CreatedAt:      schedule.CreatedAt.UTC(),
		UpdatedAt:      schedule.UpdatedAt.UTC(),
	}
}

func (m scheduleModel) toEntity() entities.Schedule {
	return entities.Schedule{
		ScheduleID:     m.ScheduleID,
		Mint:           m.Mint,
		Admin:          m.Admin,
		Distributor:    m.Distributor,
		StartAt:        m.StartAt.UTC(),
		DurationMonths: m.DurationMonths,
		Paused:         m.Paused,
		TotalSupply:    m.TotalSupply,
		ReleasedSupply: m.ReleasedSupply,
		RecipientCount: m.RecipientCount,
		Sealed:         m.Sealed,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

type recipientModel struct {
	ScheduleID     string    `gorm:"column:schedule_id;primaryKey"`
	Wallet         string    `gorm:"column:wallet;primaryKey"`
	Allocation     uint64    `gorm:"column:allocation"`
	MonthlyAmount  uint64    `gorm:"column:monthly_amount"`
	ReleasedAmount uint64    `gorm:"column:released_amount"`
	Revoked        bool      `gorm:"column:revoked"`
	Position       int       `gorm:"column:position"`
	RegisteredAt   time.Time `gorm:"column:registered_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (recipientModel) TableName() string {
	return "vesting_recipients"
}

func recipientModelFromEntity(entry entities.RecipientEntry) recipientModel {
	return recipientModel{
		ScheduleID:     entry.ScheduleID,
		Wallet:         entry.Wallet,
		Allocation:     entry.Allocation,
		MonthlyAmount:  entry.MonthlyAmount,
		ReleasedAmount: entry.ReleasedAmount,
		Revoked:        entry.Revoked,
		Position:       entry.Position,
		RegisteredAt:   entry.RegisteredAt.UTC(),
		UpdatedAt:      entry.UpdatedAt.UTC(),
	}
}

func (m recipientModel) toEntity() entities.RecipientEntry {
	return entities.RecipientEntry{
		ScheduleID:     m.ScheduleID,
		Wallet:         m.Wallet,
		Allocation:     m.Allocation,
		MonthlyAmount:  m.MonthlyAmount,
		ReleasedAmount: m.ReleasedAmount,
		Revoked:        m.Revoked,
		Position:       m.Position,
		RegisteredAt:   m.RegisteredAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "vesting_outbox"
}

func (m outboxModel) toPort() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      append([]byte(nil), m.Payload...),
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
