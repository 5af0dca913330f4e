package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/models"
	"github.com/myoungji/website/internal/sqlite"
)

// createdAtLayout has a fixed width so that the stored text sorts in time order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// InquiryRepository stores consultation requests in the local inquiries table.
type InquiryRepository struct {
	dbs    *sqlite.Database
	reader *sqlx.DB
	logger *slog.Logger
}

func NewInquiryRepository(dbs *sqlite.Database, logger *slog.Logger) *InquiryRepository {
	return &InquiryRepository{
		dbs:    dbs,
		reader: sqlx.NewDb(dbs.ReadOnly, "sqlite3"),
		logger: logger.With("source", "InquiryRepository"),
	}
}

// inquiryRow mirrors the inquiries table. Timestamps are stored as UTC RFC 3339 text with nanoseconds.
type inquiryRow struct {
	ID                int64  `db:"id"`
	Company           string `db:"company"`
	Name              string `db:"name"`
	Phone             string `db:"phone"`
	Email             string `db:"email"`
	VehicleType       string `db:"vehicle_type"`
	HasExistingSystem string `db:"has_existing_system"`
	Purpose           string `db:"purpose"`
	CreatedAt         string `db:"created_at"`
}

// Insert stores inquiry. A zero CreatedAt is set to the current time.
func (r *InquiryRepository) Insert(ctx context.Context, inquiry models.Inquiry) error {
	if inquiry.CreatedAt.IsZero() {
		inquiry.CreatedAt = time.Now()
	}
	stmt := `INSERT INTO inquiries (company, name, phone, email, vehicle_type, has_existing_system, purpose, created_at)
VALUES (:company, :name, :phone, :email, :vehicle_type, :has_existing_system, :purpose, :created_at)`
	params := []any{
		sql.Named("company", inquiry.Company),
		sql.Named("name", inquiry.Name),
		sql.Named("phone", inquiry.Phone),
		sql.Named("email", inquiry.Email),
		sql.Named("vehicle_type", inquiry.VehicleType),
		sql.Named("has_existing_system", inquiry.HasExistingSystem),
		sql.Named("purpose", inquiry.Purpose),
		sql.Named("created_at", inquiry.CreatedAt.UTC().Format(createdAtLayout)),
	}
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, params...); err != nil {
		return errors.Wrap(err, "insert inquiry")
	}
	return nil
}

// List returns the stored inquiries, newest first.
func (r *InquiryRepository) List(ctx context.Context) ([]models.Inquiry, error) {
	var rows []inquiryRow
	stmt := `SELECT id, company, name, phone, email, vehicle_type, has_existing_system, purpose, created_at
FROM inquiries
ORDER BY created_at DESC, id DESC`
	if err := r.reader.SelectContext(ctx, &rows, stmt); err != nil {
		return nil, errors.Wrap(err, "select inquiries")
	}

	inquiries := make([]models.Inquiry, 0, len(rows))
	for _, row := range rows {
		createdAt, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "parse created_at", slog.Int64("id", row.ID))
		}
		inquiries = append(inquiries, models.Inquiry{
			ID:                row.ID,
			Company:           row.Company,
			Name:              row.Name,
			Phone:             row.Phone,
			Email:             row.Email,
			VehicleType:       row.VehicleType,
			HasExistingSystem: row.HasExistingSystem,
			Purpose:           row.Purpose,
			CreatedAt:         createdAt,
		})
	}
	return inquiries, nil
}
