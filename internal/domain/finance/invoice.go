package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "DRAFT"
	InvoiceStatusIssued InvoiceStatus = "ISSUED"
	InvoiceStatusPaid   InvoiceStatus = "PAID"
	InvoiceStatusVoid   InvoiceStatus = "VOID"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusVoid:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusIssued || target == InvoiceStatusVoid
	case InvoiceStatusIssued:
		return target == InvoiceStatusPaid || target == InvoiceStatusVoid
	case InvoiceStatusPaid, InvoiceStatusVoid:
		return false
	}
	return false
}

// InvoiceLine is one billed line of an invoice
type InvoiceLine struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(255);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// Invoice is a billing document issued to a customer, optionally derived
// from a posted sale. Issued invoices are immutable; corrections require
// voiding and reissuing.
type Invoice struct {
	shared.OrgAggregateRoot
	Number       string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_org_number,priority:2"`
	ProjectID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	CycleID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	SaleID       *uuid.UUID           `gorm:"type:uuid;index"`
	CustomerName string               `gorm:"type:varchar(150);not null"`
	Lines        []InvoiceLine        `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	TotalAmount  decimal.Decimal      `gorm:"type:decimal(20,2);not null;default:0"`
	Currency     valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	Status       InvoiceStatus        `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	IssuedOn     *time.Time           `gorm:"type:date"`
	DueOn        *time.Time           `gorm:"type:date"`
	PaidAt       *time.Time           `gorm:"type:timestamptz"`
	VoidedAt     *time.Time           `gorm:"type:timestamptz"`
	VoidReason   string               `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceNumber formats an invoice number from an org-scoped sequence
func InvoiceNumber(seq int64) string {
	return fmt.Sprintf("INV-%06d", seq)
}

// NewInvoice creates a new draft invoice
func NewInvoice(orgID, projectID, cycleID uuid.UUID, number, customerName string, currency valueobject.Currency) (*Invoice, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORG", "Organization ID cannot be empty")
	}
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if cycleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CYCLE", "Cycle ID cannot be empty")
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	inv := &Invoice{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Number:           number,
		ProjectID:        projectID,
		CycleID:          cycleID,
		CustomerName:     customerName,
		Lines:            make([]InvoiceLine, 0),
		TotalAmount:      decimal.Zero,
		Currency:         currency,
		Status:           InvoiceStatusDraft,
	}
	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// LinkSale associates the invoice with the sale it bills
func (inv *Invoice) LinkSale(saleID uuid.UUID) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.ErrInvalidState
	}
	if saleID == uuid.Nil {
		return shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}
	inv.SaleID = &saleID
	inv.Touch()
	inv.IncrementVersion()
	return nil
}

// AddLine adds a billed line. Only allowed in DRAFT status.
func (inv *Invoice) AddLine(description string, quantity decimal.Decimal, unitPrice valueobject.Money) (*InvoiceLine, error) {
	if inv.Status != InvoiceStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft invoice")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Line description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	line := InvoiceLine{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   inv.ID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Amount:      quantity.Mul(unitPrice.Amount()).Round(2),
	}
	inv.Lines = append(inv.Lines, line)
	inv.recalculateTotal()
	inv.Touch()
	inv.IncrementVersion()
	return &inv.Lines[len(inv.Lines)-1], nil
}

// Issue finalizes the invoice and starts the payment clock
func (inv *Invoice) Issue(issuedOn time.Time, dueOn *time.Time) error {
	if !inv.Status.CanTransitionTo(InvoiceStatusIssued) {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be issued")
	}
	if len(inv.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot issue an invoice without lines")
	}
	if issuedOn.IsZero() {
		issuedOn = time.Now()
	}
	if dueOn != nil && dueOn.Before(issuedOn) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before issue date")
	}

	inv.Status = InvoiceStatusIssued
	inv.IssuedOn = &issuedOn
	inv.DueOn = dueOn
	inv.Touch()
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))
	return nil
}

// MarkPaid records full payment of an issued invoice
func (inv *Invoice) MarkPaid() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", "Only issued invoices can be marked paid")
	}
	now := time.Now()
	inv.Status = InvoiceStatusPaid
	inv.PaidAt = &now
	inv.Touch()
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	return nil
}

// Void cancels the invoice. Paid invoices cannot be voided.
func (inv *Invoice) Void(reason string) error {
	if !inv.Status.CanTransitionTo(InvoiceStatusVoid) {
		return shared.NewDomainError("INVALID_STATE", "Invoice cannot be voided in its current state")
	}
	now := time.Now()
	inv.Status = InvoiceStatusVoid
	inv.VoidedAt = &now
	inv.VoidReason = reason
	inv.Touch()
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoiceVoidedEvent(inv, reason))
	return nil
}

// IsOverdue returns true if the invoice is issued, unpaid and past due
func (inv *Invoice) IsOverdue(now time.Time) bool {
	return inv.Status == InvoiceStatusIssued && inv.DueOn != nil && now.Truncate(24*time.Hour).After(*inv.DueOn)
}

func (inv *Invoice) recalculateTotal() {
	total := decimal.Zero
	for _, line := range inv.Lines {
		total = total.Add(line.Amount)
	}
	inv.TotalAmount = total
}
