package repository

import (
	"context"

	"gorm.io/gorm"

	"restaurant_analytics/internal/models"
)

type OrderSummary struct {
	Count int64
	Total float64
}

type OrderRepository interface {
	Find(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	Count(ctx context.Context, filter OrderFilter) (int64, error)
	Summarize(ctx context.Context, filter OrderFilter) (OrderSummary, error)
	CountByStatus(ctx context.Context, filter OrderFilter) (map[models.OrderStatus]int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) query(ctx context.Context, filter OrderFilter) *gorm.DB {
	return filter.apply(r.db.WithContext(ctx).Model(&models.Order{}))
}

// Find returns orders oldest first, ties by id.
func (r *orderRepository) Find(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	q := r.query(ctx, filter).Order("orders.order_date ASC, orders.id ASC")
	if filter.WithItems {
		q = q.Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.line_no ASC")
		})
	}
	err := q.Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Count(ctx context.Context, filter OrderFilter) (int64, error) {
	var count int64
	err := r.query(ctx, filter).Count(&count).Error
	return count, err
}

func (r *orderRepository) Summarize(ctx context.Context, filter OrderFilter) (OrderSummary, error) {
	var summary OrderSummary
	err := r.query(ctx, filter).
		Select("COUNT(*) AS count, COALESCE(SUM(orders.total_amount), 0) AS total").
		Scan(&summary).Error
	return summary, err
}

func (r *orderRepository) CountByStatus(ctx context.Context, filter OrderFilter) (map[models.OrderStatus]int64, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err := r.query(ctx, filter).
		Select("orders.status AS status, COUNT(*) AS count").
		Group("orders.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
