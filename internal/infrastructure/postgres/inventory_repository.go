// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	schemaSQL = `CREATE TABLE IF NOT EXISTS acquired_numbers (
		phone_number  TEXT PRIMARY KEY,
		external_id   TEXT NOT NULL,
		country       TEXT NOT NULL DEFAULT '',
		number_type   TEXT NOT NULL DEFAULT '',
		monthly_price NUMERIC(10,4),
		batch_id      TEXT NOT NULL,
		acquired_at   TIMESTAMPTZ NOT NULL
	)`

	insertSQL = `INSERT INTO acquired_numbers (phone_number, external_id, country, number_type, monthly_price, batch_id, acquired_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (phone_number) DO NOTHING`

	listSQL = `SELECT phone_number, external_id, country, number_type, monthly_price, batch_id, acquired_at
		FROM acquired_numbers
		ORDER BY acquired_at DESC, phone_number
		LIMIT $1 OFFSET $2`
)

// DB is the subset of *pgxpool.Pool used by the repository
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// InventoryRepository stores purchased numbers in PostgreSQL.
// It implements port.InventoryRepository.
type InventoryRepository struct {
	db DB
}

// EnsureSchema creates the table when it does not exist
func (r *InventoryRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create acquired_numbers table: %w", err)
	}
	return nil
}

// Save inserts records in one transaction; numbers already stored are skipped
func (r *InventoryRepository) Save(ctx context.Context, records []model.AcquisitionRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.NewServiceUnavailable("failed to begin inventory transaction", err)
	}

	inserted := int64(0)
	for _, rec := range records {
		tag, err := tx.Exec(ctx, insertSQL,
			rec.PhoneNumber,
			rec.ExternalID,
			rec.Country,
			string(rec.NumberType),
			priceArg(rec.MonthlyPrice),
			rec.BatchID,
			rec.AcquiredAt,
		)
		if err != nil {
			slog.ErrorContext(ctx, "failed to insert acquired number",
				"phone_number", rec.PhoneNumber,
				"error", err,
			)
			if errRollback := tx.Rollback(ctx); errRollback != nil {
				slog.WarnContext(ctx, "failed to roll back inventory transaction", "error", errRollback)
			}
			return errors.NewUnexpected("failed to save acquired number", err)
		}
		inserted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.NewUnexpected("failed to commit inventory transaction", err)
	}

	slog.DebugContext(ctx, "saved acquired numbers",
		"requested", len(records),
		"inserted", inserted,
	)
	return nil
}

// List returns stored numbers, newest first
func (r *InventoryRepository) List(ctx context.Context, limit, offset int) ([]model.AcquisitionRecord, error) {
	rows, err := r.db.Query(ctx, listSQL, limit, offset)
	if err != nil {
		return nil, errors.NewServiceUnavailable("failed to query acquired numbers", err)
	}
	defer rows.Close()

	out := []model.AcquisitionRecord{}
	for rows.Next() {
		var (
			rec        model.AcquisitionRecord
			numberType string
			price      sql.NullString
		)
		if err := rows.Scan(&rec.PhoneNumber, &rec.ExternalID, &rec.Country, &numberType, &price, &rec.BatchID, &rec.AcquiredAt); err != nil {
			return nil, errors.NewUnexpected("failed to scan acquired number", err)
		}
		rec.NumberType = model.NumberType(numberType)
		if price.Valid {
			d, err := decimal.NewFromString(price.String)
			if err != nil {
				return nil, errors.NewUnexpected("invalid monthly price in inventory", err)
			}
			rec.MonthlyPrice = decimal.NewNullDecimal(d)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewUnexpected("failed to read acquired numbers", err)
	}

	return out, nil
}

// IsReady pings the database
func (r *InventoryRepository) IsReady(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return errors.NewServiceUnavailable("inventory database is not reachable", err)
	}
	return nil
}

func priceArg(p decimal.NullDecimal) *string {
	if !p.Valid {
		return nil
	}
	s := p.Decimal.String()
	return &s
}

// NewInventoryRepository creates a repository over db
func NewInventoryRepository(db DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}
