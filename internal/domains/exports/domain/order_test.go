package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItem() ExportOrderItem {
	item := ExportOrderItem{
		ProductID:       "p1",
		WarehouseID:     "wh1",
		ProductName:     "Bolted flange",
		QuantityOrdered: 4,
		PriceUnit:       2.5,
		Currency:        "USD",
	}
	item.ResolveTotal(nil)
	return item
}

func TestNewExportOrder_RejectsZeroItems(t *testing.T) {
	_, err := NewExportOrder("EXP-1", ModalityNational, SalePlaceWarehouse, DeliveryPickup, nil)
	require.ErrorIs(t, err, ErrNoItems)
}

func TestNewExportOrder_RejectsUnknownEnums(t *testing.T) {
	items := []ExportOrderItem{validItem()}

	_, err := NewExportOrder("EXP-1", "sideways", SalePlaceWarehouse, DeliveryPickup, items)
	require.ErrorIs(t, err, ErrInvalidModality)

	_, err = NewExportOrder("EXP-1", ModalityNational, "basement", DeliveryPickup, items)
	require.ErrorIs(t, err, ErrInvalidSalePlace)

	_, err = NewExportOrder("EXP-1", ModalityNational, SalePlaceWarehouse, "catapult", items)
	require.ErrorIs(t, err, ErrInvalidDeliveryModality)
}

func TestItemResolveTotal(t *testing.T) {
	item := validItem()
	assert.InDelta(t, 10.0, item.TotalPrice, 1e-9)

	explicit := 7.75
	item.ResolveTotal(&explicit)
	assert.InDelta(t, 7.75, item.TotalPrice, 1e-9)
}

func TestOrderTotalPrice(t *testing.T) {
	a := validItem()
	b := validItem()
	explicit := 1.25
	b.ResolveTotal(&explicit)

	order, err := NewExportOrder("EXP-1", ModalityInternational, SalePlaceOnline, DeliveryFreight, []ExportOrderItem{a, b})
	require.NoError(t, err)
	assert.InDelta(t, 11.25, order.TotalPrice(), 1e-9)
	assert.True(t, order.IsActive)
}

func TestItemValidate(t *testing.T) {
	item := validItem()
	item.QuantityOrdered = 0
	require.ErrorIs(t, item.Validate(), ErrInvalidQuantity)

	item = validItem()
	item.Currency = ""
	require.ErrorIs(t, item.Validate(), ErrEmptyCurrency)
}
