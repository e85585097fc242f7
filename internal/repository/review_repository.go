package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"restaurant_analytics/internal/models"
)

type MenuItemRatingSummary struct {
	MenuItemID  uuid.UUID
	ReviewCount int64
	RatingTotal int64
}

type CategoryRatingSummary struct {
	CategoryID   uuid.UUID
	CategoryName string
	ReviewCount  int64
	RatingTotal  int64
	ItemCount    int64
}

type ReviewRepository interface {
	Find(ctx context.Context, filter ReviewFilter) ([]models.Review, error)
	CountByRating(ctx context.Context, filter ReviewFilter) (map[int]int64, error)
	SummarizeByMenuItem(ctx context.Context, filter ReviewFilter) ([]MenuItemRatingSummary, error)
	SummarizeByCategory(ctx context.Context, filter ReviewFilter) ([]CategoryRatingSummary, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) query(ctx context.Context, filter ReviewFilter) *gorm.DB {
	return filter.apply(r.db.WithContext(ctx).Model(&models.Review{}))
}

func (r *reviewRepository) Find(ctx context.Context, filter ReviewFilter) ([]models.Review, error) {
	var reviews []models.Review
	err := r.query(ctx, filter).
		Order("reviews.created_at ASC, reviews.id ASC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) CountByRating(ctx context.Context, filter ReviewFilter) (map[int]int64, error) {
	var rows []struct {
		Rating int
		Count  int64
	}
	err := r.query(ctx, filter).
		Select("reviews.rating AS rating, COUNT(*) AS count").
		Group("reviews.rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.Rating] = row.Count
	}
	return counts, nil
}

func (r *reviewRepository) SummarizeByMenuItem(ctx context.Context, filter ReviewFilter) ([]MenuItemRatingSummary, error) {
	var rows []MenuItemRatingSummary
	err := r.query(ctx, filter).
		Select(`reviews.menu_item_id AS menu_item_id,
			COUNT(*) AS review_count,
			SUM(reviews.rating) AS rating_total`).
		Group("reviews.menu_item_id").
		Order("reviews.menu_item_id").
		Scan(&rows).Error
	return rows, err
}

func (r *reviewRepository) SummarizeByCategory(ctx context.Context, filter ReviewFilter) ([]CategoryRatingSummary, error) {
	var rows []CategoryRatingSummary
	err := r.query(ctx, filter).
		Joins("JOIN menu_items ON menu_items.id = reviews.menu_item_id").
		Joins("JOIN categories ON categories.id = menu_items.category_id").
		Select(`categories.id AS category_id,
			categories.name AS category_name,
			COUNT(*) AS review_count,
			SUM(reviews.rating) AS rating_total,
			COUNT(DISTINCT reviews.menu_item_id) AS item_count`).
		Group("categories.id, categories.name").
		Scan(&rows).Error
	return rows, err
}
