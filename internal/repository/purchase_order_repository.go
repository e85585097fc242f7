package repository

import (
	"context"

	"gorm.io/gorm"

	"restaurant_analytics/internal/models"
)

type SpendSummary struct {
	Count int64
	Total float64
}

type PurchaseOrderRepository interface {
	Find(ctx context.Context, filter PurchaseOrderFilter) ([]models.PurchaseOrder, error)
	Summarize(ctx context.Context, filter PurchaseOrderFilter) (SpendSummary, error)
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) query(ctx context.Context, filter PurchaseOrderFilter) *gorm.DB {
	return filter.apply(r.db.WithContext(ctx).Model(&models.PurchaseOrder{}))
}

func (r *purchaseOrderRepository) Find(ctx context.Context, filter PurchaseOrderFilter) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	err := r.query(ctx, filter).
		Order("purchase_orders.expected_delivery ASC, purchase_orders.id ASC").
		Find(&orders).Error
	return orders, err
}

func (r *purchaseOrderRepository) Summarize(ctx context.Context, filter PurchaseOrderFilter) (SpendSummary, error) {
	var summary SpendSummary
	err := r.query(ctx, filter).
		Select("COUNT(*) AS count, COALESCE(SUM(purchase_orders.total_amount), 0) AS total").
		Scan(&summary).Error
	return summary, err
}
