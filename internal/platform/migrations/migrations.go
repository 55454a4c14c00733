package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema for the exports bounded context. Intended to replace
// adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&exportOrderRecord{},
		&exportOrderItemRecord{},
	)
}

// Export order schema mirrors the exports Postgres adapter.
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

// Order item schema mirrors the exports Postgres adapter.
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
