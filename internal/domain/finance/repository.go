package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ExpenseRepository defines the interface for expense record persistence
type ExpenseRepository interface {
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*ExpenseRecord, error)
	FindAllForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) ([]ExpenseRecord, error)
	Save(ctx context.Context, e *ExpenseRecord) error
	CountForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) (int64, error)
	// SumForCycle totals approved expense amounts, optionally restricted to
	// one category
	SumForCycle(ctx context.Context, orgID, cycleID uuid.UUID, category *ExpenseCategory) (decimal.Decimal, error)
}

// InvoiceRepository defines the interface for invoice persistence.
// FindByID loads the invoice lines with the invoice.
type InvoiceRepository interface {
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, orgID uuid.UUID, number string) (*Invoice, error)
	FindAllForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	Save(ctx context.Context, inv *Invoice) error
	CountForCycle(ctx context.Context, orgID, cycleID uuid.UUID, filter shared.Filter) (int64, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID) (int64, error)
}
