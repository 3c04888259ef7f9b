package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/backend/internal/domain/inventory"
	"github.com/ledgerline/backend/internal/domain/shared/valueobject"
)

func TestToBalanceResponse(t *testing.T) {
	orgID, projectID, cycleID, productID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	balance, err := inventory.NewBalance(orgID, projectID, cycleID, productID)
	require.NoError(t, err)

	cost, err := valueobject.NewMoneyFromString("2.50", valueobject.DefaultCurrency)
	require.NoError(t, err)
	require.NoError(t, balance.Increase(decimal.NewFromInt(4), cost))

	resp := ToBalanceResponse(balance)

	assert.Equal(t, balance.ID, resp.ID)
	assert.Equal(t, projectID, resp.ProjectID)
	assert.Equal(t, cycleID, resp.CycleID)
	assert.Equal(t, productID, resp.ProductID)
	assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(4)))
	assert.True(t, resp.UnitCost.Equal(decimal.RequireFromString("2.50")))
	assert.True(t, resp.TotalValue.Equal(decimal.RequireFromString("10.00")))
	// Increase bumps the optimistic lock version past its initial value
	assert.Equal(t, balance.GetVersion(), resp.Version)
	assert.Equal(t, 2, resp.Version)
}

func TestToBalanceResponses(t *testing.T) {
	b1, err := inventory.NewBalance(uuid.New(), uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	b2, err := inventory.NewBalance(uuid.New(), uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)

	responses := ToBalanceResponses([]inventory.Balance{*b1, *b2})

	require.Len(t, responses, 2)
	assert.Equal(t, b1.ID, responses[0].ID)
	assert.Equal(t, b2.ID, responses[1].ID)
}
