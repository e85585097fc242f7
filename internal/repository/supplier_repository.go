package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"restaurant_analytics/internal/models"
)

type SupplierRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
}

type supplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &supplier, nil
}
