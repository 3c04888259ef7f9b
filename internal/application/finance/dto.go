package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest is the request to record an expense
type CreateExpenseRequest struct {
	ProjectID   uuid.UUID       `json:"project_id" binding:"required"`
	CycleID     uuid.UUID       `json:"cycle_id" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description" binding:"required,max=255"`
	Amount      decimal.Decimal `json:"amount" binding:"required,dgt0"`
	IncurredOn  time.Time       `json:"incurred_on" time_format:"2006-01-02"`
	ReceiptRef  string          `json:"receipt_ref" binding:"max=255"`
}

// UpdateExpenseRequest is the request to update a pending expense
type UpdateExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description" binding:"required,max=255"`
	Amount      decimal.Decimal `json:"amount" binding:"required,dgt0"`
	IncurredOn  time.Time       `json:"incurred_on" time_format:"2006-01-02"`
	ReceiptRef  string          `json:"receipt_ref" binding:"max=255"`
}

// DecideExpenseRequest approves or rejects a pending expense
type DecideExpenseRequest struct {
	DeciderID uuid.UUID `json:"decider_id"`
	Note      string    `json:"note" binding:"max=255"`
}

// ExpenseListFilter contains filter options for expense queries
type ExpenseListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Category string `form:"category"`
	Status   string `form:"status"`
}

// ExpenseResponse is the response representation of an expense record
type ExpenseResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProjectID    uuid.UUID       `json:"project_id"`
	CycleID      uuid.UUID       `json:"cycle_id"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	IncurredOn   time.Time       `json:"incurred_on"`
	ReceiptRef   string          `json:"receipt_ref,omitempty"`
	Status       string          `json:"status"`
	DecidedAt    *time.Time      `json:"decided_at,omitempty"`
	DecidedBy    *uuid.UUID      `json:"decided_by,omitempty"`
	DecisionNote string          `json:"decision_note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToExpenseResponse converts a domain expense record to its response representation
func ToExpenseResponse(e *finance.ExpenseRecord) ExpenseResponse {
	return ExpenseResponse{
		ID:           e.ID,
		ProjectID:    e.ProjectID,
		CycleID:      e.CycleID,
		Category:     string(e.Category),
		Description:  e.Description,
		Amount:       e.Amount,
		IncurredOn:   e.IncurredOn,
		ReceiptRef:   e.ReceiptRef,
		Status:       string(e.Status),
		DecidedAt:    e.DecidedAt,
		DecidedBy:    e.DecidedBy,
		DecisionNote: e.DecisionNote,
		CreatedAt:    e.CreatedAt,
	}
}

// ToExpenseResponses converts a slice of expense records
func ToExpenseResponses(expenses []finance.ExpenseRecord) []ExpenseResponse {
	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(&expenses[i])
	}
	return responses
}

// ExpenseSummaryResponse totals approved expenses for a cycle
type ExpenseSummaryResponse struct {
	CycleID  uuid.UUID       `json:"cycle_id"`
	Category string          `json:"category,omitempty"`
	Total    decimal.Decimal `json:"total"`
}

// InvoiceLineRequest is one billed line of an invoice
type InvoiceLineRequest struct {
	Description string          `json:"description" binding:"required,max=255"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required,dgt0"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required,dgte0"`
}

// CreateInvoiceRequest is the request to draft an invoice. When SaleID is
// set and no lines are given, the lines are derived from the posted sale.
type CreateInvoiceRequest struct {
	ProjectID    uuid.UUID            `json:"project_id" binding:"required"`
	CycleID      uuid.UUID            `json:"cycle_id" binding:"required"`
	SaleID       *uuid.UUID           `json:"sale_id"`
	CustomerName string               `json:"customer_name" binding:"max=150"`
	Currency     string               `json:"currency" binding:"omitempty,len=3"`
	Lines        []InvoiceLineRequest `json:"lines" binding:"omitempty,dive"`
}

// IssueInvoiceRequest finalizes a draft invoice
type IssueInvoiceRequest struct {
	IssuedOn time.Time  `json:"issued_on" time_format:"2006-01-02"`
	DueOn    *time.Time `json:"due_on" time_format:"2006-01-02"`
}

// VoidInvoiceRequest voids an invoice
type VoidInvoiceRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// InvoiceListFilter contains filter options for invoice queries
type InvoiceListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
}

// InvoiceLineResponse is the response representation of an invoice line
type InvoiceLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse is the response representation of an invoice
type InvoiceResponse struct {
	ID           uuid.UUID             `json:"id"`
	Number       string                `json:"number"`
	ProjectID    uuid.UUID             `json:"project_id"`
	CycleID      uuid.UUID             `json:"cycle_id"`
	SaleID       *uuid.UUID            `json:"sale_id,omitempty"`
	CustomerName string                `json:"customer_name"`
	Lines        []InvoiceLineResponse `json:"lines"`
	TotalAmount  decimal.Decimal       `json:"total_amount"`
	Currency     string                `json:"currency"`
	Status       string                `json:"status"`
	IssuedOn     *time.Time            `json:"issued_on,omitempty"`
	DueOn        *time.Time            `json:"due_on,omitempty"`
	PaidAt       *time.Time            `json:"paid_at,omitempty"`
	VoidedAt     *time.Time            `json:"voided_at,omitempty"`
	VoidReason   string                `json:"void_reason,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// ToInvoiceResponse converts a domain invoice to its response representation
func ToInvoiceResponse(inv *finance.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, len(inv.Lines))
	for i, line := range inv.Lines {
		lines[i] = InvoiceLineResponse{
			ID:          line.ID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount,
		}
	}
	return InvoiceResponse{
		ID:           inv.ID,
		Number:       inv.Number,
		ProjectID:    inv.ProjectID,
		CycleID:      inv.CycleID,
		SaleID:       inv.SaleID,
		CustomerName: inv.CustomerName,
		Lines:        lines,
		TotalAmount:  inv.TotalAmount,
		Currency:     string(inv.Currency),
		Status:       string(inv.Status),
		IssuedOn:     inv.IssuedOn,
		DueOn:        inv.DueOn,
		PaidAt:       inv.PaidAt,
		VoidedAt:     inv.VoidedAt,
		VoidReason:   inv.VoidReason,
		CreatedAt:    inv.CreatedAt,
	}
}

// ToInvoiceResponses converts a slice of invoices
func ToInvoiceResponses(invoices []finance.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}
