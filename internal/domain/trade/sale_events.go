package trade

import (
	"github.com/ledgerline/backend/internal/domain/shared"
)

// Event types for the trade context
const (
	EventTypeSaleCreated   = "trade.sale.created"
	EventTypeSalePosted    = "trade.sale.posted"
	EventTypeSaleCancelled = "trade.sale.cancelled"
)

// SaleCreatedEvent is emitted when a draft sale is created
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	Number       string `json:"number"`
	CustomerName string `json:"customer_name"`
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(s *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, "Sale", s.ID, s.OrgID),
		Number:          s.Number,
		CustomerName:    s.CustomerName,
	}
}

// SalePostedEvent is emitted when a sale is posted and its stock issued
type SalePostedEvent struct {
	shared.BaseDomainEvent
	Number      string `json:"number"`
	TotalAmount string `json:"total_amount"`
	TotalCOGS   string `json:"total_cogs"`
}

// NewSalePostedEvent creates a new SalePostedEvent
func NewSalePostedEvent(s *Sale) *SalePostedEvent {
	return &SalePostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalePosted, "Sale", s.ID, s.OrgID),
		Number:          s.Number,
		TotalAmount:     s.TotalAmount.String(),
		TotalCOGS:       s.TotalCOGS.String(),
	}
}

// SaleCancelledEvent is emitted when a draft sale is cancelled
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
	Reason string `json:"reason"`
}

// NewSaleCancelledEvent creates a new SaleCancelledEvent
func NewSaleCancelledEvent(s *Sale, reason string) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, "Sale", s.ID, s.OrgID),
		Number:          s.Number,
		Reason:          reason,
	}
}
