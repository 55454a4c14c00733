package mapper

import (
	"time"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application/types"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
)

// CreateExportOrderItem captures an inbound order line while preserving field presence.
type CreateExportOrderItem struct {
	ProductID       string   `json:"productId"`
	WarehouseID     string   `json:"warehouseId"`
	ProductName     string   `json:"productName"`
	Description     *string  `json:"description,omitempty"`
	QuantityOrdered int32    `json:"quantityOrdered"`
	PriceUnit       float64  `json:"priceUnit"`
	Currency        string   `json:"currency"`
	TotalPrice      *float64 `json:"totalPrice,omitempty"`
}

// CreateExportOrder captures an inbound order creation payload.
type CreateExportOrder struct {
	OrderNumber      string                  `json:"orderNumber"`
	Modality         string                  `json:"modality"`
	SalePlace        string                  `json:"salePlace"`
	DeliveryModality string                  `json:"deliveryModality"`
	Observations     *string                 `json:"observations,omitempty"`
	ClientID         *string                 `json:"clientId,omitempty"`
	CreatedBy        *string                 `json:"createdBy,omitempty"`
	Items            []CreateExportOrderItem `json:"items"`
}

// ExportOrderItem is the HTTP representation of a persisted order line.
type ExportOrderItem struct {
	ID              string  `json:"id"`
	ProductID       string  `json:"productId"`
	WarehouseID     string  `json:"warehouseId"`
	ProductName     string  `json:"productName"`
	Description     *string `json:"description,omitempty"`
	QuantityOrdered int32   `json:"quantityOrdered"`
	PriceUnit       float64 `json:"priceUnit"`
	Currency        string  `json:"currency"`
	TotalPrice      float64 `json:"totalPrice"`
}

// ExportOrder is the HTTP representation of a persisted export order.
type ExportOrder struct {
	ID               string            `json:"id"`
	OrderNumber      string            `json:"orderNumber"`
	Modality         string            `json:"modality"`
	SalePlace        string            `json:"salePlace"`
	DeliveryModality string            `json:"deliveryModality"`
	Observations     *string           `json:"observations,omitempty"`
	ClientID         *string           `json:"clientId,omitempty"`
	CreatedBy        *string           `json:"createdBy,omitempty"`
	IsActive         bool              `json:"isActive"`
	Items            []ExportOrderItem `json:"items"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// ExportOrderDetail adds the aggregate total to a single-order response.
type ExportOrderDetail struct {
	ExportOrder
	TotalPrice float64 `json:"totalPrice"`
}

// PageMeta describes pagination of a listing response.
type PageMeta struct {
	Page     int   `json:"page"`
	LastPage int   `json:"lastPage"`
	Total    int64 `json:"total"`
}

// ExportOrderPage is a paginated listing response.
type ExportOrderPage struct {
	Records []ExportOrder `json:"records"`
	Meta    PageMeta      `json:"meta"`
}

// ToCreateInput maps a transport payload into the application input.
func ToCreateInput(payload CreateExportOrder) types.CreateExportOrderInput {
	items := make([]types.CreateExportOrderItemInput, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, types.CreateExportOrderItemInput{
			ProductID:       item.ProductID,
			WarehouseID:     item.WarehouseID,
			ProductName:     item.ProductName,
			Description:     item.Description,
			QuantityOrdered: item.QuantityOrdered,
			PriceUnit:       item.PriceUnit,
			Currency:        item.Currency,
			TotalPrice:      item.TotalPrice,
		})
	}
	return types.CreateExportOrderInput{
		OrderNumber:      payload.OrderNumber,
		Modality:         payload.Modality,
		SalePlace:        payload.SalePlace,
		DeliveryModality: payload.DeliveryModality,
		Observations:     payload.Observations,
		ClientID:         payload.ClientID,
		CreatedBy:        payload.CreatedBy,
		Items:            items,
	}
}

// FromDomain maps a domain order to the transport representation.
func FromDomain(order *domain.ExportOrder) ExportOrder {
	if order == nil {
		return ExportOrder{}
	}
	items := make([]ExportOrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ExportOrderItem{
			ID:              item.ID,
			ProductID:       item.ProductID,
			WarehouseID:     item.WarehouseID,
			ProductName:     item.ProductName,
			Description:     optional(item.Description),
			QuantityOrdered: item.QuantityOrdered,
			PriceUnit:       item.PriceUnit,
			Currency:        item.Currency,
			TotalPrice:      item.TotalPrice,
		})
	}
	return ExportOrder{
		ID:               order.ID,
		OrderNumber:      order.OrderNumber,
		Modality:         string(order.Modality),
		SalePlace:        string(order.SalePlace),
		DeliveryModality: string(order.DeliveryModality),
		Observations:     optional(order.Observations),
		ClientID:         optional(order.ClientID),
		CreatedBy:        optional(order.CreatedBy),
		IsActive:         order.IsActive,
		Items:            items,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// FromDetail maps a single-order read result including the aggregate total.
func FromDetail(detail *types.ExportOrderDetail) ExportOrderDetail {
	if detail == nil {
		return ExportOrderDetail{}
	}
	return ExportOrderDetail{
		ExportOrder: FromDomain(detail.Order),
		TotalPrice:  detail.TotalPrice,
	}
}

// FromPage maps a listing result to the transport representation.
func FromPage(page *types.ExportOrderPage) ExportOrderPage {
	if page == nil {
		return ExportOrderPage{Records: []ExportOrder{}}
	}
	records := make([]ExportOrder, 0, len(page.Records))
	for _, order := range page.Records {
		records = append(records, FromDomain(order))
	}
	return ExportOrderPage{
		Records: records,
		Meta: PageMeta{
			Page:     page.Meta.Page,
			LastPage: page.Meta.LastPage,
			Total:    page.Meta.Total,
		},
	}
}
