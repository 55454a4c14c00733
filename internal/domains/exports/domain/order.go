package domain

import (
	"errors"
	"time"
)

// Modality classifies the commercial nature of an export order.
type Modality string

const (
	ModalityNational      Modality = "national"
	ModalityInternational Modality = "international"
)

// SalePlace identifies where an export order was sold.
type SalePlace string

const (
	SalePlaceWarehouse SalePlace = "warehouse"
	SalePlaceShowroom  SalePlace = "showroom"
	SalePlaceOnline    SalePlace = "online"
)

// DeliveryModality identifies how the goods leave the warehouse.
type DeliveryModality string

const (
	DeliveryPickup       DeliveryModality = "pickup"
	DeliveryHomeDelivery DeliveryModality = "home_delivery"
	DeliveryFreight      DeliveryModality = "freight"
)

var (
	ErrEmptyOrderNumber        = errors.New("order number is required")
	ErrNoItems                 = errors.New("an export order requires at least one item")
	ErrInvalidModality         = errors.New("modality is not one of the allowed values")
	ErrInvalidSalePlace        = errors.New("sale place is not one of the allowed values")
	ErrInvalidDeliveryModality = errors.New("delivery modality is not one of the allowed values")
	ErrEmptyProductID          = errors.New("item product id is required")
	ErrEmptyWarehouseID        = errors.New("item warehouse id is required")
	ErrEmptyProductName        = errors.New("item product name is required")
	ErrInvalidQuantity         = errors.New("item quantity must be greater than zero")
	ErrInvalidPriceUnit        = errors.New("item unit price must not be negative")
	ErrEmptyCurrency           = errors.New("item currency is required")
)

// ExportOrder models the outbound shipment order aggregate. Items are created
// together with the order and never independently; after creation the aggregate
// is immutable except for the compensating delete.
type ExportOrder struct {
	ID               string
	OrderNumber      string
	Modality         Modality
	SalePlace        SalePlace
	DeliveryModality DeliveryModality
	Observations     string
	ClientID         string
	CreatedBy        string
	IsActive         bool
	Items            []ExportOrderItem
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ExportOrderItem is a line of an ExportOrder. Product name and description are
// denormalized at creation time and never synced back with inventory.
type ExportOrderItem struct {
	ID              string
	ProductID       string
	WarehouseID     string
	ProductName     string
	Description     string
	QuantityOrdered int32
	PriceUnit       float64
	Currency        string
	TotalPrice      float64
}

// NewExportOrder validates and constructs the aggregate. Each item's TotalPrice
// must already be resolved (see ResolveTotal); the factory does not overwrite
// caller-supplied totals.
func NewExportOrder(orderNumber string, modality Modality, salePlace SalePlace, delivery DeliveryModality, items []ExportOrderItem) (*ExportOrder, error) {
	order := &ExportOrder{
		OrderNumber:      orderNumber,
		Modality:         modality,
		SalePlace:        salePlace,
		DeliveryModality: delivery,
		IsActive:         true,
		Items:            items,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces the aggregate invariants.
func (o *ExportOrder) Validate() error {
	if o.OrderNumber == "" {
		return ErrEmptyOrderNumber
	}
	if !isValidModality(o.Modality) {
		return ErrInvalidModality
	}
	if !isValidSalePlace(o.SalePlace) {
		return ErrInvalidSalePlace
	}
	if !isValidDeliveryModality(o.DeliveryModality) {
		return ErrInvalidDeliveryModality
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for i := range o.Items {
		if err := o.Items[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TotalPrice sums the stored item totals. It never recomputes from unit prices.
func (o *ExportOrder) TotalPrice() float64 {
	var total float64
	for i := range o.Items {
		total += o.Items[i].TotalPrice
	}
	return total
}

// Validate enforces the line-item invariants.
func (i *ExportOrderItem) Validate() error {
	if i.ProductID == "" {
		return ErrEmptyProductID
	}
	if i.WarehouseID == "" {
		return ErrEmptyWarehouseID
	}
	if i.ProductName == "" {
		return ErrEmptyProductName
	}
	if i.QuantityOrdered <= 0 {
		return ErrInvalidQuantity
	}
	if i.PriceUnit < 0 {
		return ErrInvalidPriceUnit
	}
	if i.Currency == "" {
		return ErrEmptyCurrency
	}
	return nil
}

// ResolveTotal fixes the item total once at creation time. An explicit
// caller-supplied total wins; otherwise it is priceUnit times quantity.
func (i *ExportOrderItem) ResolveTotal(explicit *float64) {
	if explicit != nil {
		i.TotalPrice = *explicit
		return
	}
	i.TotalPrice = i.PriceUnit * float64(i.QuantityOrdered)
}

func isValidModality(m Modality) bool {
	switch m {
	case ModalityNational, ModalityInternational:
		return true
	default:
		return false
	}
}

func isValidSalePlace(p SalePlace) bool {
	switch p {
	case SalePlaceWarehouse, SalePlaceShowroom, SalePlaceOnline:
		return true
	default:
		return false
	}
}

func isValidDeliveryModality(d DeliveryModality) bool {
	switch d {
	case DeliveryPickup, DeliveryHomeDelivery, DeliveryFreight:
		return true
	default:
		return false
	}
}
