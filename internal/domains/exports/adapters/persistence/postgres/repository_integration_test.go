//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/ports"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/platform/migrations"
)

func setupExportsPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("exports_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newTestOrder(t *testing.T, orderNumber string, productIDs ...string) *domain.ExportOrder {
	t.Helper()
	items := make([]domain.ExportOrderItem, 0, len(productIDs))
	for _, productID := range productIDs {
		item := domain.ExportOrderItem{
			ProductID:       productID,
			WarehouseID:     "w-1",
			ProductName:     "Widget " + productID,
			QuantityOrdered: 3,
			PriceUnit:       10.5,
			Currency:        "USD",
		}
		item.ResolveTotal(nil)
		items = append(items, item)
	}
	order, err := domain.NewExportOrder(orderNumber, domain.ModalityNational, domain.SalePlaceWarehouse, domain.DeliveryPickup, items)
	require.NoError(t, err)
	return order
}

func TestRepository_CreateWithItemsAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupExportsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.CreateWithItems(ctx, newTestOrder(t, "EXP-001", "p-1", "p-2"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Len(t, created.Items, 2)
	assert.True(t, created.IsActive)
	for _, item := range created.Items {
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, 31.5, item.TotalPrice)
	}

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "EXP-001", fetched.OrderNumber)
	assert.Len(t, fetched.Items, 2)
}

func TestRepository_DuplicateOrderNumberConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupExportsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.CreateWithItems(ctx, newTestOrder(t, "EXP-001", "p-1"))
	require.NoError(t, err)

	_, err = repo.CreateWithItems(ctx, newTestOrder(t, "EXP-001", "p-2"))
	assert.ErrorIs(t, err, ports.ErrConflict)

	found, err := repo.FindByOrderNumber(ctx, "EXP-001")
	require.NoError(t, err)
	assert.Len(t, found.Items, 1)
}

func TestRepository_DeleteCascadesItems(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupExportsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.CreateWithItems(ctx, newTestOrder(t, "EXP-001", "p-1", "p-2"))
	require.NoError(t, err)

	err = repo.DeleteByID(ctx, created.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	var remaining int64
	require.NoError(t, db.Table("export_order_items").Where("export_order_id = ?", created.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	err = repo.DeleteByID(ctx, created.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListFiltersAndPages(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupExportsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		_, err := repo.CreateWithItems(ctx, newTestOrder(t, fmt.Sprintf("EXP-%03d", i), "p-1"))
		require.NoError(t, err)
	}
	_, err := repo.CreateWithItems(ctx, newTestOrder(t, "OTHER-001", "p-1"))
	require.NoError(t, err)

	result, err := repo.List(ctx, ports.ListFilter{Page: 1, Limit: 3, Search: "exp"})
	require.NoError(t, err)
	assert.EqualValues(t, 5, result.Total)
	assert.Len(t, result.Orders, 3)

	second, err := repo.List(ctx, ports.ListFilter{Page: 2, Limit: 3, Search: "exp"})
	require.NoError(t, err)
	assert.Len(t, second.Orders, 2)

	active := true
	all, err := repo.List(ctx, ports.ListFilter{Page: 1, Limit: 10, IsActive: &active})
	require.NoError(t, err)
	assert.EqualValues(t, 6, all.Total)
}
