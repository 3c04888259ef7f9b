package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseCategory classifies an expense for reporting
type ExpenseCategory string

const (
	ExpenseCategoryMaterials ExpenseCategory = "MATERIALS"
	ExpenseCategoryTransport ExpenseCategory = "TRANSPORT"
	ExpenseCategoryLabor     ExpenseCategory = "LABOR"
	ExpenseCategoryUtilities ExpenseCategory = "UTILITIES"
	ExpenseCategoryMarketing ExpenseCategory = "MARKETING"
	ExpenseCategoryRent      ExpenseCategory = "RENT"
	ExpenseCategoryOther     ExpenseCategory = "OTHER"
)

// IsValid returns true if the category is a known ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryMaterials,
		ExpenseCategoryTransport,
		ExpenseCategoryLabor,
		ExpenseCategoryUtilities,
		ExpenseCategoryMarketing,
		ExpenseCategoryRent,
		ExpenseCategoryOther:
		return true
	}
	return false
}

// ExpenseStatus represents the approval state of an expense record
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "PENDING"
	ExpenseStatusApproved ExpenseStatus = "APPROVED"
	ExpenseStatusRejected ExpenseStatus = "REJECTED"
)

// IsValid checks if the status is a valid ExpenseStatus
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpenseStatusPending, ExpenseStatusApproved, ExpenseStatusRejected:
		return true
	}
	return false
}

// ExpenseRecord is a money outflow recorded against a budget cycle. Records
// start PENDING and are approved or rejected exactly once. The receipt
// reference points at externally stored evidence; files are not handled
// here. Records cannot be created into a locked cycle.
type ExpenseRecord struct {
	shared.OrgAggregateRoot
	ProjectID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CycleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Category     ExpenseCategory `gorm:"type:varchar(30);not null;index"`
	Description  string          `gorm:"type:varchar(255);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	IncurredOn   time.Time       `gorm:"type:date;not null"`
	ReceiptRef   string          `gorm:"type:varchar(255)"`
	Status       ExpenseStatus   `gorm:"type:varchar(20);not null;default:'PENDING'"`
	DecidedAt    *time.Time      `gorm:"type:timestamptz"`
	DecidedBy    *uuid.UUID      `gorm:"type:uuid"`
	DecisionNote string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (ExpenseRecord) TableName() string {
	return "expense_records"
}

// NewExpenseRecord records a new pending expense
func NewExpenseRecord(orgID, projectID, cycleID uuid.UUID, category ExpenseCategory, description string, amount valueobject.Money, incurredOn time.Time, receiptRef string) (*ExpenseRecord, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORG", "Organization ID cannot be empty")
	}
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if cycleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CYCLE", "Cycle ID cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown expense category")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Expense description cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if incurredOn.IsZero() {
		incurredOn = time.Now()
	}

	e := &ExpenseRecord{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		ProjectID:        projectID,
		CycleID:          cycleID,
		Category:         category,
		Description:      description,
		Amount:           amount.Amount().Round(2),
		IncurredOn:       incurredOn,
		ReceiptRef:       receiptRef,
		Status:           ExpenseStatusPending,
	}
	e.AddDomainEvent(NewExpenseRecordedEvent(e))
	return e, nil
}

// Update changes the mutable fields. Only pending records can change.
func (e *ExpenseRecord) Update(category ExpenseCategory, description string, amount valueobject.Money, incurredOn time.Time, receiptRef string) error {
	if e.Status != ExpenseStatusPending {
		return shared.ErrInvalidState
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown expense category")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Expense description cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}

	e.Category = category
	e.Description = description
	e.Amount = amount.Amount().Round(2)
	e.ReceiptRef = receiptRef
	if !incurredOn.IsZero() {
		e.IncurredOn = incurredOn
	}
	e.Touch()
	e.IncrementVersion()
	return nil
}

// Approve accepts a pending expense
func (e *ExpenseRecord) Approve(deciderID uuid.UUID, note string) error {
	if e.Status != ExpenseStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending expenses can be approved")
	}
	now := time.Now()
	e.Status = ExpenseStatusApproved
	e.DecidedAt = &now
	if deciderID != uuid.Nil {
		e.DecidedBy = &deciderID
	}
	e.DecisionNote = note
	e.Touch()
	e.IncrementVersion()
	e.AddDomainEvent(NewExpenseApprovedEvent(e))
	return nil
}

// Reject declines a pending expense
func (e *ExpenseRecord) Reject(deciderID uuid.UUID, note string) error {
	if e.Status != ExpenseStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending expenses can be rejected")
	}
	now := time.Now()
	e.Status = ExpenseStatusRejected
	e.DecidedAt = &now
	if deciderID != uuid.Nil {
		e.DecidedBy = &deciderID
	}
	e.DecisionNote = note
	e.Touch()
	e.IncrementVersion()
	e.AddDomainEvent(NewExpenseRejectedEvent(e))
	return nil
}

// IsPending returns true if the record awaits a decision
func (e *ExpenseRecord) IsPending() bool {
	return e.Status == ExpenseStatusPending
}
