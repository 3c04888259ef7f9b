package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// SaleLineRequest is one product line of a sale. When UnitPrice is nil the
// product's current selling price is used.
type SaleLineRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required,dgt0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest is the request to draft a sale
type CreateSaleRequest struct {
	ProjectID    uuid.UUID         `json:"project_id" binding:"required"`
	CycleID      uuid.UUID         `json:"cycle_id" binding:"required"`
	CustomerName string            `json:"customer_name" binding:"required,max=150"`
	SoldOn       time.Time         `json:"sold_on" time_format:"2006-01-02"`
	Remark       string            `json:"remark" binding:"max=255"`
	Lines        []SaleLineRequest `json:"lines" binding:"omitempty,dive"`
}

// AddSaleLineRequest adds one line to a draft sale
type AddSaleLineRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required,dgt0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// PostSaleRequest posts a draft sale
type PostSaleRequest struct {
	OperatorID *uuid.UUID `json:"operator_id"`
}

// CancelSaleRequest discards a draft sale
type CancelSaleRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// SaleListFilter contains filter options for sale queries
type SaleListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
}

// SaleLineResponse is the response representation of a sale line
type SaleLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	UnitCOGS    decimal.Decimal `json:"unit_cogs"`
	COGSAmount  decimal.Decimal `json:"cogs_amount"`
}

// SaleResponse is the response representation of a sale
type SaleResponse struct {
	ID           uuid.UUID          `json:"id"`
	Number       string             `json:"number"`
	ProjectID    uuid.UUID          `json:"project_id"`
	CycleID      uuid.UUID          `json:"cycle_id"`
	CustomerName string             `json:"customer_name"`
	Lines        []SaleLineResponse `json:"lines"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
	TotalCOGS    decimal.Decimal    `json:"total_cogs"`
	GrossMargin  decimal.Decimal    `json:"gross_margin"`
	Status       string             `json:"status"`
	SoldOn       time.Time          `json:"sold_on"`
	Remark       string             `json:"remark,omitempty"`
	PostedAt     *time.Time         `json:"posted_at,omitempty"`
	CancelledAt  *time.Time         `json:"cancelled_at,omitempty"`
	CancelReason string             `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// ToSaleResponse converts a domain sale to its response representation
func ToSaleResponse(s *trade.Sale) SaleResponse {
	lines := make([]SaleLineResponse, len(s.Lines))
	for i, line := range s.Lines {
		lines[i] = SaleLineResponse{
			ID:          line.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			SKU:         line.SKU,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount,
			UnitCOGS:    line.UnitCOGS,
			COGSAmount:  line.COGSAmount,
		}
	}
	return SaleResponse{
		ID:           s.ID,
		Number:       s.Number,
		ProjectID:    s.ProjectID,
		CycleID:      s.CycleID,
		CustomerName: s.CustomerName,
		Lines:        lines,
		TotalAmount:  s.TotalAmount,
		TotalCOGS:    s.TotalCOGS,
		GrossMargin:  s.GrossMargin(),
		Status:       s.Status.String(),
		SoldOn:       s.SoldOn,
		Remark:       s.Remark,
		PostedAt:     s.PostedAt,
		CancelledAt:  s.CancelledAt,
		CancelReason: s.CancelReason,
		CreatedAt:    s.CreatedAt,
	}
}

// ToSaleResponses converts a slice of sales
func ToSaleResponses(sales []trade.Sale) []SaleResponse {
	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = ToSaleResponse(&sales[i])
	}
	return responses
}
