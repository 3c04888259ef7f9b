package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockBalanceRepository creates a GormBalanceRepository with a mocked SQL connection
func newMockBalanceRepository(t *testing.T) (*GormBalanceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormBalanceRepository(gormDB), mock, mockDB
}

func TestGormBalanceRepository_FindByID(t *testing.T) {
	t.Run("finds existing balance", func(t *testing.T) {
		repo, mock, mockDB := newMockBalanceRepository(t)
		defer mockDB.Close()

		balanceID := uuid.New()
		orgID := uuid.New()
		projectID := uuid.New()
		cycleID := uuid.New()
		productID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "org_id", "project_id", "cycle_id", "product_id",
			"quantity", "unit_cost", "version",
		}).AddRow(
			balanceID, orgID, projectID, cycleID, productID,
			decimal.NewFromInt(100), decimal.NewFromFloat(12.5000), 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "inventory_balances" WHERE org_id = \$1 AND id = \$2`).
			WithArgs(orgID, balanceID, 1).
			WillReturnRows(rows)

		b, err := repo.FindByID(context.Background(), orgID, balanceID)

		assert.NoError(t, err)
		assert.NotNil(t, b)
		assert.Equal(t, balanceID, b.ID)
		assert.Equal(t, productID, b.ProductID)
		assert.True(t, b.Quantity.Equal(decimal.NewFromInt(100)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing balance", func(t *testing.T) {
		repo, mock, mockDB := newMockBalanceRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		balanceID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "inventory_balances" WHERE org_id = \$1 AND id = \$2`).
			WithArgs(orgID, balanceID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		b, err := repo.FindByID(context.Background(), orgID, balanceID)

		assert.Error(t, err)
		assert.Nil(t, b)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBalanceRepository_FindByScope(t *testing.T) {
	t.Run("finds balance by composite scope", func(t *testing.T) {
		repo, mock, mockDB := newMockBalanceRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		projectID := uuid.New()
		cycleID := uuid.New()
		productID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "org_id", "project_id", "cycle_id", "product_id",
			"quantity", "unit_cost", "version",
		}).AddRow(
			uuid.New(), orgID, projectID, cycleID, productID,
			decimal.NewFromInt(40), decimal.NewFromFloat(3.25), 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "inventory_balances" WHERE org_id = \$1 AND project_id = \$2 AND cycle_id = \$3 AND product_id = \$4`).
			WithArgs(orgID, projectID, cycleID, productID, 1).
			WillReturnRows(rows)

		b, err := repo.FindByScope(context.Background(), orgID, projectID, cycleID, productID)

		assert.NoError(t, err)
		require.NotNil(t, b)
		assert.Equal(t, cycleID, b.CycleID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBalanceRepository_FindByScopeForUpdate(t *testing.T) {
	t.Run("locks the balance row", func(t *testing.T) {
		repo, mock, mockDB := newMockBalanceRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		projectID := uuid.New()
		cycleID := uuid.New()
		productID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "org_id", "project_id", "cycle_id", "product_id",
			"quantity", "unit_cost", "version",
		}).AddRow(
			uuid.New(), orgID, projectID, cycleID, productID,
			decimal.NewFromInt(7), decimal.NewFromFloat(1.1), 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "inventory_balances" WHERE .* FOR UPDATE`).
			WithArgs(orgID, projectID, cycleID, productID, 1).
			WillReturnRows(rows)

		b, err := repo.FindByScopeForUpdate(context.Background(), orgID, projectID, cycleID, productID)

		assert.NoError(t, err)
		require.NotNil(t, b)
		assert.Equal(t, productID, b.ProductID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when no balance exists yet", func(t *testing.T) {
		repo, mock, mockDB := newMockBalanceRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		projectID := uuid.New()
		cycleID := uuid.New()
		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "inventory_balances" WHERE .* FOR UPDATE`).
			WithArgs(orgID, projectID, cycleID, productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		b, err := repo.FindByScopeForUpdate(context.Background(), orgID, projectID, cycleID, productID)

		assert.Nil(t, b)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBalanceRepository_FindNonEmptyForCycle(t *testing.T) {
	t.Run("returns only balances holding stock", func(t *testing.T) {
		repo, mock, mockDB := newMockBalanceRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		cycleID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "org_id", "cycle_id", "product_id", "quantity", "unit_cost", "version",
		}).
			AddRow(uuid.New(), orgID, cycleID, uuid.New(), decimal.NewFromInt(5), decimal.NewFromFloat(2.0), 1).
			AddRow(uuid.New(), orgID, cycleID, uuid.New(), decimal.NewFromInt(3), decimal.NewFromFloat(4.0), 1)

		mock.ExpectQuery(`SELECT \* FROM "inventory_balances" WHERE org_id = \$1 AND cycle_id = \$2 AND quantity > 0 ORDER BY product_id ASC`).
			WithArgs(orgID, cycleID).
			WillReturnRows(rows)

		balances, err := repo.FindNonEmptyForCycle(context.Background(), orgID, cycleID)

		assert.NoError(t, err)
		assert.Len(t, balances, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBalanceRepository_SumValueForCycle(t *testing.T) {
	t.Run("sums quantity times unit cost", func(t *testing.T) {
		repo, mock, mockDB := newMockBalanceRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		cycleID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity \* unit_cost\), 0\) as total FROM "inventory_balances"`).
			WithArgs(orgID, cycleID).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("1250.7500"))

		total, err := repo.SumValueForCycle(context.Background(), orgID, cycleID)

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("1250.7500")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns zero for empty cycle", func(t *testing.T) {
		repo, mock, mockDB := newMockBalanceRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		cycleID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity \* unit_cost\), 0\) as total FROM "inventory_balances"`).
			WithArgs(orgID, cycleID).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("0"))

		total, err := repo.SumValueForCycle(context.Background(), orgID, cycleID)

		assert.NoError(t, err)
		assert.True(t, total.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
