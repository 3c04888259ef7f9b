package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/finance"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockExpenseRepository creates a GormExpenseRepository with a mocked SQL connection
func newMockExpenseRepository(t *testing.T) (*GormExpenseRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormExpenseRepository(gormDB), mock, mockDB
}

func TestGormExpenseRepository_FindByID(t *testing.T) {
	t.Run("finds existing expense record", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		expenseID := uuid.New()
		orgID := uuid.New()
		projectID := uuid.New()
		cycleID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "org_id", "project_id", "cycle_id",
			"category", "description", "amount", "incurred_on", "status", "version",
		}).AddRow(
			expenseID, orgID, projectID, cycleID,
			"MATERIALS", "Workshop paint", decimal.NewFromFloat(45.90),
			time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), "PENDING", 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "expense_records" WHERE org_id = \$1 AND id = \$2`).
			WithArgs(orgID, expenseID, 1).
			WillReturnRows(rows)

		e, err := repo.FindByID(context.Background(), orgID, expenseID)

		assert.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, expenseID, e.ID)
		assert.Equal(t, finance.ExpenseStatusPending, e.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing record", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		expenseID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "expense_records" WHERE org_id = \$1 AND id = \$2`).
			WithArgs(orgID, expenseID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		e, err := repo.FindByID(context.Background(), orgID, expenseID)

		assert.Nil(t, e)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExpenseRepository_SumForCycle(t *testing.T) {
	t.Run("sums approved expenses for a cycle", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		cycleID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) as total FROM "expense_records" WHERE org_id = \$1 AND cycle_id = \$2 AND status = \$3`).
			WithArgs(orgID, cycleID, string(finance.ExpenseStatusApproved)).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("321.45"))

		total, err := repo.SumForCycle(context.Background(), orgID, cycleID, nil)

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("321.45")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("restricts to one category when given", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		cycleID := uuid.New()
		category := finance.ExpenseCategoryMaterials

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) as total FROM "expense_records" WHERE \(org_id = \$1 AND cycle_id = \$2 AND status = \$3\) AND category = \$4`).
			WithArgs(orgID, cycleID, string(finance.ExpenseStatusApproved), string(category)).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("80.00"))

		total, err := repo.SumForCycle(context.Background(), orgID, cycleID, &category)

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("80.00")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExpenseRepository_CountForCycle(t *testing.T) {
	t.Run("counts records with status filter", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		cycleID := uuid.New()

		filter := shared.Filter{Filters: map[string]interface{}{"status": "PENDING"}}

		mock.ExpectQuery(`SELECT count\(\*\) FROM "expense_records"`).
			WithArgs(orgID, cycleID, "PENDING").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.CountForCycle(context.Background(), orgID, cycleID, filter)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
