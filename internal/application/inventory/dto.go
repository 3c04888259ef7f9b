package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ReceiveStockRequest is the request to receive purchased stock
type ReceiveStockRequest struct {
	ProjectID  uuid.UUID       `json:"project_id" binding:"required"`
	CycleID    uuid.UUID       `json:"cycle_id" binding:"required"`
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required,dgt0"`
	UnitCost   decimal.Decimal `json:"unit_cost" binding:"required,dgte0"`
	Reference  string          `json:"reference"`
	Reason     string          `json:"reason"`
	OperatorID *uuid.UUID      `json:"operator_id"`
}

// IssueStockRequest is the request to issue stock out of a cycle at the
// current weighted average cost
type IssueStockRequest struct {
	ProjectID  uuid.UUID       `json:"project_id" binding:"required"`
	CycleID    uuid.UUID       `json:"cycle_id" binding:"required"`
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required,dgt0"`
	Reference  string          `json:"reference"`
	Reason     string          `json:"reason"`
	OperatorID *uuid.UUID      `json:"operator_id"`
}

// AdjustStockRequest is the request for a manual stock correction. Delta is
// signed: positive resolves to ADJUST_IN, negative to ADJUST_OUT at the
// current average. UnitCost applies to ADJUST_IN only; nil means the current
// average, and an explicit zero books the inflow as free stock.
type AdjustStockRequest struct {
	ProjectID  uuid.UUID        `json:"project_id" binding:"required"`
	CycleID    uuid.UUID        `json:"cycle_id" binding:"required"`
	ProductID  uuid.UUID        `json:"product_id" binding:"required"`
	Delta      decimal.Decimal  `json:"delta" binding:"required"`
	UnitCost   *decimal.Decimal `json:"unit_cost" binding:"omitempty,dgte0"`
	Reason     string           `json:"reason" binding:"required"`
	OperatorID *uuid.UUID       `json:"operator_id"`
}

// BalanceListFilter contains filter options for balance queries
type BalanceListFilter struct {
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir"`
	ProductID *uuid.UUID `form:"product_id"`
	NonEmpty  bool       `form:"non_empty"`
}

// MovementListFilter contains filter options for ledger queries
type MovementListFilter struct {
	Page         int        `form:"page"`
	PageSize     int        `form:"page_size"`
	ProductID    *uuid.UUID `form:"product_id"`
	Type         string     `form:"type"`
	SourceType   string     `form:"source_type"`
	OccurredFrom *time.Time `form:"occurred_from" time_format:"2006-01-02"`
	OccurredTo   *time.Time `form:"occurred_to" time_format:"2006-01-02"`
}

// BalanceResponse is the response representation of a balance
type BalanceResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProjectID  uuid.UUID       `json:"project_id"`
	CycleID    uuid.UUID       `json:"cycle_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	TotalValue decimal.Decimal `json:"total_value"`
	Version    int             `json:"version"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ToBalanceResponse converts a domain balance to its response representation
func ToBalanceResponse(b *inventory.Balance) BalanceResponse {
	return BalanceResponse{
		ID:         b.ID,
		ProjectID:  b.ProjectID,
		CycleID:    b.CycleID,
		ProductID:  b.ProductID,
		Quantity:   b.Quantity,
		UnitCost:   b.UnitCost,
		TotalValue: b.TotalValue(),
		Version:    b.Version,
		UpdatedAt:  b.UpdatedAt,
	}
}

// ToBalanceResponses converts a slice of balances
func ToBalanceResponses(balances []inventory.Balance) []BalanceResponse {
	responses := make([]BalanceResponse, len(balances))
	for i := range balances {
		responses[i] = ToBalanceResponse(&balances[i])
	}
	return responses
}

// MovementResponse is the response representation of a ledger row
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProjectID     uuid.UUID       `json:"project_id"`
	CycleID       uuid.UUID       `json:"cycle_id"`
	BalanceID     uuid.UUID       `json:"balance_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	SourceType    string          `json:"source_type"`
	SourceID      string          `json:"source_id"`
	Reference     string          `json:"reference,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// ToMovementResponse converts a domain movement to its response representation
func ToMovementResponse(m *inventory.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProjectID:     m.ProjectID,
		CycleID:       m.CycleID,
		BalanceID:     m.BalanceID,
		ProductID:     m.ProductID,
		Type:          m.Type.String(),
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		SourceType:    m.SourceType.String(),
		SourceID:      m.SourceID,
		Reference:     m.Reference,
		Reason:        m.Reason,
		OccurredAt:    m.OccurredAt,
	}
}

// ToMovementResponses converts a slice of movements
func ToMovementResponses(movements []inventory.Movement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}

// CycleValuationResponse summarizes the inventory value held in a cycle
type CycleValuationResponse struct {
	CycleID      uuid.UUID       `json:"cycle_id"`
	TotalValue   decimal.Decimal `json:"total_value"`
	BalanceCount int64           `json:"balance_count"`
}

// CreateProductionOrderRequest is the request to draft a production order
type CreateProductionOrderRequest struct {
	ProjectID      uuid.UUID       `json:"project_id" binding:"required"`
	CycleID        uuid.UUID       `json:"cycle_id" binding:"required"`
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	OutputQuantity decimal.Decimal `json:"output_quantity" binding:"required,dgt0"`
}

// ProductionComponentResponse is one component line of a production order
type ProductionComponentResponse struct {
	ComponentID uuid.UUID       `json:"component_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

// ProductionOrderResponse is the response representation of a production order
type ProductionOrderResponse struct {
	ID             uuid.UUID                     `json:"id"`
	Number         string                        `json:"number"`
	ProjectID      uuid.UUID                     `json:"project_id"`
	CycleID        uuid.UUID                     `json:"cycle_id"`
	ProductID      uuid.UUID                     `json:"product_id"`
	OutputQuantity decimal.Decimal               `json:"output_quantity"`
	UnitCost       decimal.Decimal               `json:"unit_cost"`
	TotalCost      decimal.Decimal               `json:"total_cost"`
	Status         string                        `json:"status"`
	Components     []ProductionComponentResponse `json:"components"`
	CompletedAt    *time.Time                    `json:"completed_at,omitempty"`
	CreatedAt      time.Time                     `json:"created_at"`
}

// ToProductionOrderResponse converts a domain production order
func ToProductionOrderResponse(po *inventory.ProductionOrder) ProductionOrderResponse {
	components := make([]ProductionComponentResponse, len(po.Components))
	for i, c := range po.Components {
		components[i] = ProductionComponentResponse{
			ComponentID: c.ComponentID,
			Quantity:    c.Quantity,
			UnitCost:    c.UnitCost,
			TotalCost:   c.TotalCost,
		}
	}
	return ProductionOrderResponse{
		ID:             po.ID,
		Number:         po.Number,
		ProjectID:      po.ProjectID,
		CycleID:        po.CycleID,
		ProductID:      po.ProductID,
		OutputQuantity: po.OutputQuantity,
		UnitCost:       po.UnitCost,
		TotalCost:      po.TotalCost,
		Status:         string(po.Status),
		Components:     components,
		CompletedAt:    po.CompletedAt,
		CreatedAt:      po.CreatedAt,
	}
}

// ToProductionOrderResponses converts a slice of production orders
func ToProductionOrderResponses(orders []inventory.ProductionOrder) []ProductionOrderResponse {
	responses := make([]ProductionOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToProductionOrderResponse(&orders[i])
	}
	return responses
}
