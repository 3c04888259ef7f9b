package finance

import (
	"github.com/ledgerline/backend/internal/domain/shared"
)

// Event types for the finance context
const (
	EventTypeExpenseRecorded = "finance.expense.recorded"
	EventTypeExpenseApproved = "finance.expense.approved"
	EventTypeExpenseRejected = "finance.expense.rejected"
	EventTypeInvoiceCreated  = "finance.invoice.created"
	EventTypeInvoiceIssued   = "finance.invoice.issued"
	EventTypeInvoicePaid     = "finance.invoice.paid"
	EventTypeInvoiceVoided   = "finance.invoice.voided"
)

// ExpenseRecordedEvent is emitted when an expense is recorded
type ExpenseRecordedEvent struct {
	shared.BaseDomainEvent
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

// NewExpenseRecordedEvent creates a new ExpenseRecordedEvent
func NewExpenseRecordedEvent(e *ExpenseRecord) *ExpenseRecordedEvent {
	return &ExpenseRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseRecorded, "ExpenseRecord", e.ID, e.OrgID),
		Category:        string(e.Category),
		Amount:          e.Amount.String(),
	}
}

// ExpenseApprovedEvent is emitted when a pending expense is approved
type ExpenseApprovedEvent struct {
	shared.BaseDomainEvent
	Amount string `json:"amount"`
}

// NewExpenseApprovedEvent creates a new ExpenseApprovedEvent
func NewExpenseApprovedEvent(e *ExpenseRecord) *ExpenseApprovedEvent {
	return &ExpenseApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseApproved, "ExpenseRecord", e.ID, e.OrgID),
		Amount:          e.Amount.String(),
	}
}

// ExpenseRejectedEvent is emitted when a pending expense is rejected
type ExpenseRejectedEvent struct {
	shared.BaseDomainEvent
	Note string `json:"note"`
}

// NewExpenseRejectedEvent creates a new ExpenseRejectedEvent
func NewExpenseRejectedEvent(e *ExpenseRecord) *ExpenseRejectedEvent {
	return &ExpenseRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseRejected, "ExpenseRecord", e.ID, e.OrgID),
		Note:            e.DecisionNote,
	}
}

// InvoiceCreatedEvent is emitted when a draft invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	Number       string `json:"number"`
	CustomerName string `json:"customer_name"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, "Invoice", inv.ID, inv.OrgID),
		Number:          inv.Number,
		CustomerName:    inv.CustomerName,
	}
}

// InvoiceIssuedEvent is emitted when an invoice is issued
type InvoiceIssuedEvent struct {
	shared.BaseDomainEvent
	Number      string `json:"number"`
	TotalAmount string `json:"total_amount"`
}

// NewInvoiceIssuedEvent creates a new InvoiceIssuedEvent
func NewInvoiceIssuedEvent(inv *Invoice) *InvoiceIssuedEvent {
	return &InvoiceIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceIssued, "Invoice", inv.ID, inv.OrgID),
		Number:          inv.Number,
		TotalAmount:     inv.TotalAmount.String(),
	}
}

// InvoicePaidEvent is emitted when an invoice is marked paid
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, "Invoice", inv.ID, inv.OrgID),
		Number:          inv.Number,
	}
}

// InvoiceVoidedEvent is emitted when an invoice is voided
type InvoiceVoidedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
	Reason string `json:"reason"`
}

// NewInvoiceVoidedEvent creates a new InvoiceVoidedEvent
func NewInvoiceVoidedEvent(inv *Invoice, reason string) *InvoiceVoidedEvent {
	return &InvoiceVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceVoided, "Invoice", inv.ID, inv.OrgID),
		Number:          inv.Number,
		Reason:          reason,
	}
}
