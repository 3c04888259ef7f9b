package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the status of a sale
type SaleStatus string

const (
	SaleStatusDraft     SaleStatus = "DRAFT"
	SaleStatusPosted    SaleStatus = "POSTED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusDraft, SaleStatusPosted, SaleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	switch s {
	case SaleStatusDraft:
		return target == SaleStatusPosted || target == SaleStatusCancelled
	case SaleStatusPosted, SaleStatusCancelled:
		return false
	}
	return false
}

// SaleLine is one product line of a sale. Revenue figures are set when the
// line is added; for goods lines, cost of goods sold is captured at posting
// from the weighted average cost the stock was issued at. Service lines
// carry zero COGS.
type SaleLine struct {
	shared.BaseEntity
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(150);not null"`
	SKU         string          `gorm:"type:varchar(50);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	UnitCOGS    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	COGSAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (SaleLine) TableName() string {
	return "sale_lines"
}

// Sale records a customer sale within a budget cycle. Posting the sale
// issues stock for every goods line and captures the cost of goods sold, so
// margin on a posted sale is fixed even if later receipts move the average
// cost.
type Sale struct {
	shared.OrgAggregateRoot
	Number       string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_sale_org_number,priority:2"`
	ProjectID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CycleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName string          `gorm:"type:varchar(150);not null"`
	Lines        []SaleLine      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	TotalCOGS    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	Status       SaleStatus      `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	SoldOn       time.Time       `gorm:"type:date;not null"`
	Remark       string          `gorm:"type:varchar(255)"`
	PostedAt     *time.Time      `gorm:"type:timestamptz"`
	CancelledAt  *time.Time      `gorm:"type:timestamptz"`
	CancelReason string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// SaleNumber formats a sale number from an org-scoped sequence
func SaleNumber(seq int64) string {
	return fmt.Sprintf("SAL-%06d", seq)
}

// NewSale creates a new draft sale
func NewSale(orgID, projectID, cycleID uuid.UUID, number, customerName string, soldOn time.Time) (*Sale, error) {
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
		return nil, shared.NewDomainError("INVALID_NUMBER", "Sale number cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if soldOn.IsZero() {
		soldOn = time.Now()
	}

	s := &Sale{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Number:           number,
		ProjectID:        projectID,
		CycleID:          cycleID,
		CustomerName:     customerName,
		Lines:            make([]SaleLine, 0),
		TotalAmount:      decimal.Zero,
		TotalCOGS:        decimal.Zero,
		Status:           SaleStatusDraft,
		SoldOn:           soldOn,
	}
	s.AddDomainEvent(NewSaleCreatedEvent(s))
	return s, nil
}

// AddLine adds a product line to the sale. Only allowed in DRAFT status;
// a product can appear at most once per sale.
func (s *Sale) AddLine(productID uuid.UUID, productName, sku string, quantity decimal.Decimal, unitPrice valueobject.Money) (*SaleLine, error) {
	if s.Status != SaleStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft sale")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	for _, line := range s.Lines {
		if line.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already present on sale")
		}
	}

	line := SaleLine{
		BaseEntity:  shared.NewBaseEntity(),
		SaleID:      s.ID,
		ProductID:   productID,
		ProductName: productName,
		SKU:         sku,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Amount:      quantity.Mul(unitPrice.Amount()).Round(2),
	}
	s.Lines = append(s.Lines, line)
	s.recalculateTotals()
	s.Touch()
	s.IncrementVersion()
	return &s.Lines[len(s.Lines)-1], nil
}

// RemoveLine removes a product line. Only allowed in DRAFT status.
func (s *Sale) RemoveLine(lineID uuid.UUID) error {
	if s.Status != SaleStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft sale")
	}
	for i, line := range s.Lines {
		if line.ID == lineID {
			s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
			s.recalculateTotals()
			s.Touch()
			s.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Sale line not found")
}

// Post fixes the sale and captures cost of goods sold. lineCosts maps line
// ID to the weighted average unit cost the stock was issued at; lines absent
// from the map are service lines and carry zero COGS. The caller issues the
// stock in the same transaction.
func (s *Sale) Post(lineCosts map[uuid.UUID]decimal.Decimal) error {
	if !s.Status.CanTransitionTo(SaleStatusPosted) {
		return shared.NewDomainError("INVALID_STATE", "Only draft sales can be posted")
	}
	if len(s.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot post a sale without lines")
	}

	totalCOGS := decimal.Zero
	for i := range s.Lines {
		line := &s.Lines[i]
		cost, ok := lineCosts[line.ID]
		if !ok {
			continue
		}
		if cost.IsNegative() {
			return shared.NewDomainError("INVALID_COST", "Issue cost cannot be negative")
		}
		line.UnitCOGS = cost
		line.COGSAmount = line.Quantity.Mul(cost)
		totalCOGS = totalCOGS.Add(line.COGSAmount)
	}

	now := time.Now()
	s.TotalCOGS = totalCOGS
	s.Status = SaleStatusPosted
	s.PostedAt = &now
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewSalePostedEvent(s))
	return nil
}

// Cancel discards a draft sale
func (s *Sale) Cancel(reason string) error {
	if !s.Status.CanTransitionTo(SaleStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Only draft sales can be cancelled")
	}
	now := time.Now()
	s.Status = SaleStatusCancelled
	s.CancelledAt = &now
	s.CancelReason = reason
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewSaleCancelledEvent(s, reason))
	return nil
}

// GrossMargin returns revenue minus cost of goods sold. Only meaningful on
// posted sales.
func (s *Sale) GrossMargin() decimal.Decimal {
	return s.TotalAmount.Sub(s.TotalCOGS)
}

// IsPosted returns true if the sale has been posted
func (s *Sale) IsPosted() bool {
	return s.Status == SaleStatusPosted
}

func (s *Sale) recalculateTotals() {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.Amount)
	}
	s.TotalAmount = total
}
