// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/internal/domain/port"
	errs "github.com/numbersmith/number-inventory-service/pkg/errors"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertPattern = `INSERT INTO acquired_numbers`
	listPattern   = `SELECT phone_number, external_id, country, number_type, monthly_price, batch_id, acquired_at\s+FROM acquired_numbers`
)

var _ port.InventoryRepository = (*InventoryRepository)(nil)

func setupInventoryTest(t *testing.T) (*InventoryRepository, pgxmock.PgxPoolIface) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewInventoryRepository(mockPool), mockPool
}

func TestInventoryRepositorySave(t *testing.T) {
	acquiredAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	records := []model.AcquisitionRecord{
		{
			PhoneNumber:  "+14155550037",
			ExternalID:   "PN1",
			Country:      "US",
			NumberType:   model.NumberTypeLocal,
			MonthlyPrice: decimal.NewNullDecimal(decimal.RequireFromString("1.15")),
			BatchID:      "batch-1",
			AcquiredAt:   acquiredAt,
		},
		{
			PhoneNumber: "+14155550074",
			ExternalID:  "PN2",
			BatchID:     "batch-1",
			AcquiredAt:  acquiredAt,
		},
	}
	price := "1.15"

	t.Run("Success", func(t *testing.T) {
		repo, mockPool := setupInventoryTest(t)

		mockPool.ExpectBegin()
		mockPool.ExpectExec(insertPattern).
			WithArgs("+14155550037", "PN1", "US", "local", &price, "batch-1", acquiredAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectExec(insertPattern).
			WithArgs("+14155550074", "PN2", "", "", (*string)(nil), "batch-1", acquiredAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))
		mockPool.ExpectCommit()

		require.NoError(t, repo.Save(context.Background(), records))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("InsertFailsRollsBack", func(t *testing.T) {
		repo, mockPool := setupInventoryTest(t)

		mockPool.ExpectBegin()
		mockPool.ExpectExec(insertPattern).
			WithArgs("+14155550037", "PN1", "US", "local", &price, "batch-1", acquiredAt).
			WillReturnError(errors.New("constraint violated"))
		mockPool.ExpectRollback()

		err := repo.Save(context.Background(), records)
		require.Error(t, err)
		assert.IsType(t, errs.Unexpected{}, err)
		assert.Contains(t, err.Error(), "constraint violated")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("BeginFails", func(t *testing.T) {
		repo, mockPool := setupInventoryTest(t)

		mockPool.ExpectBegin().WillReturnError(errors.New("connection refused"))

		err := repo.Save(context.Background(), records)
		require.Error(t, err)
		assert.IsType(t, errs.ServiceUnavailable{}, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("EmptyIsNoop", func(t *testing.T) {
		repo, mockPool := setupInventoryTest(t)
		require.NoError(t, repo.Save(context.Background(), nil))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestInventoryRepositoryList(t *testing.T) {
	acquiredAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	columns := []string{"phone_number", "external_id", "country", "number_type", "monthly_price", "batch_id", "acquired_at"}

	t.Run("Found", func(t *testing.T) {
		repo, mockPool := setupInventoryTest(t)

		rows := mockPool.NewRows(columns).
			AddRow("+14155550037", "PN1", "US", "local", "1.1500", "batch-1", acquiredAt).
			AddRow("+14155550074", "PN2", "US", "local", nil, "batch-1", acquiredAt.Add(-time.Minute))
		mockPool.ExpectQuery(listPattern).WithArgs(20, 0).WillReturnRows(rows)

		got, err := repo.List(context.Background(), 20, 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "+14155550037", got[0].PhoneNumber)
		assert.Equal(t, model.NumberTypeLocal, got[0].NumberType)
		require.True(t, got[0].MonthlyPrice.Valid)
		assert.True(t, decimal.RequireFromString("1.15").Equal(got[0].MonthlyPrice.Decimal))
		assert.False(t, got[1].MonthlyPrice.Valid)
		assert.Equal(t, acquiredAt, got[0].AcquiredAt)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Empty", func(t *testing.T) {
		repo, mockPool := setupInventoryTest(t)
		mockPool.ExpectQuery(listPattern).WithArgs(5, 10).WillReturnRows(mockPool.NewRows(columns))

		got, err := repo.List(context.Background(), 5, 10)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DBError", func(t *testing.T) {
		repo, mockPool := setupInventoryTest(t)
		mockPool.ExpectQuery(listPattern).WithArgs(5, 0).WillReturnError(errors.New("db down"))

		_, err := repo.List(context.Background(), 5, 0)
		require.Error(t, err)
		assert.IsType(t, errs.ServiceUnavailable{}, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestInventoryRepositoryEnsureSchema(t *testing.T) {
	repo, mockPool := setupInventoryTest(t)

	mockPool.ExpectExec(`CREATE TABLE IF NOT EXISTS acquired_numbers`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mockPool.ExpectExec(`CREATE TABLE IF NOT EXISTS acquired_numbers`).
		WillReturnError(errors.New("permission denied"))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	err := repo.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
