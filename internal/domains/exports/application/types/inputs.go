package types

// CreateExportOrderInput is the transport-agnostic creation payload.
type CreateExportOrderInput struct {
	OrderNumber      string
	Modality         string
	SalePlace        string
	DeliveryModality string
	Observations     *string
	ClientID         *string
	CreatedBy        *string
	Items            []CreateExportOrderItemInput
}

// CreateExportOrderItemInput describes one requested line item. TotalPrice is
// optional; when nil it is resolved as PriceUnit times QuantityOrdered.
type CreateExportOrderItemInput struct {
	ProductID       string
	WarehouseID     string
	ProductName     string
	Description     *string
	QuantityOrdered int32
	PriceUnit       float64
	Currency        string
	TotalPrice      *float64
}

// ListExportOrdersInput pages and filters the listing. Search matches the order
// number case-insensitively; IsActive is a tri-state filter.
type ListExportOrdersInput struct {
	Page     int
	Limit    int
	Search   string
	IsActive *bool
}
