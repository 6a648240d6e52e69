// Package sqlite provides a GORM/SQLite record backend. The table keeps an
// explicit position column so insertion order survives the round trip.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/rentdesk/pkg/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// rentalRow is the table layout of one record.
type rentalRow struct {
	Position         int    `gorm:"primaryKey;autoIncrement:false"`
	Date             string `gorm:"index;not null"`
	LastName         string `gorm:"not null"`
	FirstName        string `gorm:"not null"`
	IDDocumentType   string
	IDDocumentNumber string
	Phone            string
	IsMember         bool
	RentalKind       string `gorm:"index"`
	RentalVariant    string
	SlotIdentifier   string
	Duration         string
	PaymentMethod    string
	AmountCents      int64
	AmountCurrency   string
	ReceiptPhotoRef  string
	Notes            string
	CreatedAt        time.Time `gorm:"autoCreateTime:false"`
}

func (rentalRow) TableName() string { return "rentals" }

func toRow(pos int, r domain.RentalRecord) rentalRow {
	return rentalRow{
		Position:         pos,
		Date:             r.Date,
		LastName:         r.LastName,
		FirstName:        r.FirstName,
		IDDocumentType:   string(r.IDDocumentType),
		IDDocumentNumber: r.IDDocumentNumber,
		Phone:            r.Phone,
		IsMember:         r.IsMember,
		RentalKind:       string(r.RentalKind),
		RentalVariant:    r.RentalVariant,
		SlotIdentifier:   r.SlotIdentifier,
		Duration:         r.Duration,
		PaymentMethod:    string(r.PaymentMethod),
		AmountCents:      r.Amount.Cents,
		AmountCurrency:   r.Amount.Currency,
		ReceiptPhotoRef:  r.ReceiptPhotoRef,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt.UTC(),
	}
}

func (row rentalRow) record() domain.RentalRecord {
	return domain.RentalRecord{
		Date:             row.Date,
		LastName:         row.LastName,
		FirstName:        row.FirstName,
		IDDocumentType:   domain.DocumentType(row.IDDocumentType),
		IDDocumentNumber: row.IDDocumentNumber,
		Phone:            row.Phone,
		IsMember:         row.IsMember,
		RentalKind:       domain.RentalKind(row.RentalKind),
		RentalVariant:    row.RentalVariant,
		SlotIdentifier:   row.SlotIdentifier,
		Duration:         row.Duration,
		PaymentMethod:    domain.PaymentMethod(row.PaymentMethod),
		Amount:           domain.Amount{Cents: row.AmountCents, Currency: row.AmountCurrency},
		ReceiptPhotoRef:  row.ReceiptPhotoRef,
		Notes:            row.Notes,
		CreatedAt:        row.CreatedAt.UTC(),
	}
}

// Backend implements ports.RecordBackend on a SQLite database.
type Backend struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path and migrates the table.
func Open(path string) (*Backend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return New(db)
}

// New wraps an existing GORM handle and migrates the table.
func New(db *gorm.DB) (*Backend, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: databases shared.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&rentalRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate rentals table: %w", err)
	}
	return &Backend{db: db}, nil
}

// Load returns the rows ordered by position.
func (b *Backend) Load(ctx context.Context) ([]domain.RentalRecord, error) {
	var rows []rentalRow
	if err := b.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	records := make([]domain.RentalRecord, len(rows))
	for i, row := range rows {
		records[i] = row.record()
	}
	return records, nil
}

// Save rewrites the table in one transaction.
func (b *Backend) Save(ctx context.Context, records []domain.RentalRecord) error {
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&rentalRow{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		rows := make([]rentalRow, len(records))
		for i, r := range records {
			rows[i] = toRow(i, r)
		}
		return tx.CreateInBatches(rows, 200).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Close releases the database handle.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
