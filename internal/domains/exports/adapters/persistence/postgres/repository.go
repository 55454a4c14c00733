package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists export orders in PostgreSQL using GORM. CreateWithItems
// relies on the association insert running as a single transaction, and on the
// unique index over order_number for race arbitration.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&exportOrderRecord{}, &exportOrderItemRecord{})
	}
	return repo
}

type exportOrderRecord struct {
	ID               string                  `gorm:"primaryKey;column:id;type:uuid"`
	OrderNumber      string                  `gorm:"column:order_number;uniqueIndex"`
	Modality         string                  `gorm:"column:modality;type:varchar(32)"`
	SalePlace        string                  `gorm:"column:sale_place;type:varchar(32)"`
	DeliveryModality string                  `gorm:"column:delivery_modality;type:varchar(32)"`
	Observations     string                  `gorm:"column:observations"`
	ClientID         *string                 `gorm:"column:client_id;type:uuid"`
	CreatedBy        *string                 `gorm:"column:created_by;type:uuid"`
	IsActive         bool                    `gorm:"column:is_active;index"`
	Items            []exportOrderItemRecord `gorm:"foreignKey:ExportOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time               `gorm:"column:created_at"`
	UpdatedAt        time.Time               `gorm:"column:updated_at;index"`
}

func (exportOrderRecord) TableName() string { return "export_orders" }

type exportOrderItemRecord struct {
	ID              string    `gorm:"primaryKey;column:id;type:uuid"`
	ExportOrderID   string    `gorm:"column:export_order_id;type:uuid;index"`
	ProductID       string    `gorm:"column:product_id;index"`
	WarehouseID     string    `gorm:"column:warehouse_id"`
	ProductName     string    `gorm:"column:product_name"`
	Description     string    `gorm:"column:description"`
	QuantityOrdered int32     `gorm:"column:quantity_ordered"`
	PriceUnit       float64   `gorm:"column:price_unit;type:numeric(14,2)"`
	Currency        string    `gorm:"column:currency;type:varchar(8)"`
	TotalPrice      float64   `gorm:"column:total_price;type:numeric(14,2)"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (exportOrderItemRecord) TableName() string { return "export_order_items" }

// FindByOrderNumber fetches an order by its natural key, items included.
func (r *Repository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.ExportOrder, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record exportOrderRecord
	if err := r.db.WithContext(ctx).Preload("Items").
		First(&record, "order_number = ?", strings.TrimSpace(orderNumber)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// CreateWithItems inserts the order and all items as one atomic unit. A unique
// violation on order_number surfaces as ports.ErrConflict.
func (r *Repository) CreateWithItems(ctx context.Context, order *domain.ExportOrder) (*domain.ExportOrder, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	for i := range record.Items {
		if record.Items[i].ID == "" {
			record.Items[i].ID = uuid.NewString()
		}
		record.Items[i].ExportOrderID = record.ID
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrConflict
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// DeleteByID removes an order; the schema's cascade removes its items.
func (r *Repository) DeleteByID(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&exportOrderRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// GetByID fetches an order with its items.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.ExportOrder, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record exportOrderRecord
	if err := r.db.WithContext(ctx).Preload("Items").
		First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns a page ordered by updated_at descending. Search matches the
// order number case-insensitively. Listing does not hydrate items.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter) (*ports.ListResult, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&exportOrderRecord{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("order_number ILIKE ?", "%"+search+"%")
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var records []exportOrderRecord
	if err := query.
		Order("updated_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&records).Error; err != nil {
		return nil, err
	}

	orders := make([]*domain.ExportOrder, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return &ports.ListResult{Orders: orders, Total: total}, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres export order repository not configured")
	}
	return nil
}

func toRecord(order *domain.ExportOrder) exportOrderRecord {
	record := exportOrderRecord{
		ID:               order.ID,
		OrderNumber:      order.OrderNumber,
		Modality:         string(order.Modality),
		SalePlace:        string(order.SalePlace),
		DeliveryModality: string(order.DeliveryModality),
		Observations:     order.Observations,
		IsActive:         order.IsActive,
	}
	if order.ClientID != "" {
		clientID := order.ClientID
		record.ClientID = &clientID
	}
	if order.CreatedBy != "" {
		createdBy := order.CreatedBy
		record.CreatedBy = &createdBy
	}
	record.Items = make([]exportOrderItemRecord, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		record.Items = append(record.Items, exportOrderItemRecord{
			ID:              item.ID,
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
	return record
}

func (r exportOrderRecord) toDomain() *domain.ExportOrder {
	order := &domain.ExportOrder{
		ID:               r.ID,
		OrderNumber:      r.OrderNumber,
		Modality:         domain.Modality(r.Modality),
		SalePlace:        domain.SalePlace(r.SalePlace),
		DeliveryModality: domain.DeliveryModality(r.DeliveryModality),
		Observations:     r.Observations,
		IsActive:         r.IsActive,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.ClientID != nil {
		order.ClientID = *r.ClientID
	}
	if r.CreatedBy != nil {
		order.CreatedBy = *r.CreatedBy
	}
	order.Items = make([]domain.ExportOrderItem, 0, len(r.Items))
	for i := range r.Items {
		item := &r.Items[i]
		order.Items = append(order.Items, domain.ExportOrderItem{
			ID:              item.ID,
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
	return order
}
