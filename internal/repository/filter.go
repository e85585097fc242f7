package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"restaurant_analytics/internal/analytics"
	"restaurant_analytics/internal/models"
)

var ErrNotFound = errors.New("record not found")

// FilterError reports a filter that cannot be handed to the store.
type FilterError struct {
	Field   string
	Message string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid filter %s: %s", e.Field, e.Message)
}

func validateWindow(w analytics.Window) error {
	if w.Bounded() && !w.From.Before(*w.Until) {
		return &FilterError{Field: "window", Message: "from must be before to"}
	}
	return nil
}

func applyWindow(db *gorm.DB, column string, w analytics.Window) *gorm.DB {
	if w.From != nil {
		db = db.Where(column+" >= ?", *w.From)
	}
	if w.Until != nil {
		db = db.Where(column+" < ?", *w.Until)
	}
	return db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// OrderFilter selects orders by date window and status.
type OrderFilter struct {
	Window          analytics.Window
	Statuses        []models.OrderStatus
	ExcludeStatuses []models.OrderStatus
	// WithItems loads line items in line order.
	WithItems bool
}

func (f OrderFilter) Validate() error {
	if err := validateWindow(f.Window); err != nil {
		return err
	}
	for _, s := range append(append([]models.OrderStatus{}, f.Statuses...), f.ExcludeStatuses...) {
		if !s.Valid() {
			return &FilterError{Field: "status", Message: fmt.Sprintf("unknown order status %q", s)}
		}
	}
	return nil
}

func (f OrderFilter) apply(db *gorm.DB) *gorm.DB {
	db = applyWindow(db, "orders.order_date", f.Window)
	if len(f.Statuses) > 0 {
		db = db.Where("orders.status IN ?", f.Statuses)
	}
	if len(f.ExcludeStatuses) > 0 {
		db = db.Where("orders.status NOT IN ?", f.ExcludeStatuses)
	}
	return db
}

// ReviewFilter selects reviews by window, scope and rating range.
// Zero MinRating/MaxRating leave that side open.
type ReviewFilter struct {
	Window      analytics.Window
	MenuItemIDs []uuid.UUID
	UserID      *uuid.UUID
	MinRating   int
	MaxRating   int
}

func (f ReviewFilter) Validate() error {
	if err := validateWindow(f.Window); err != nil {
		return err
	}
	if err := validateRating("minRating", f.MinRating); err != nil {
		return err
	}
	if err := validateRating("maxRating", f.MaxRating); err != nil {
		return err
	}
	if f.MinRating != 0 && f.MaxRating != 0 && f.MinRating > f.MaxRating {
		return &FilterError{Field: "minRating", Message: "must not exceed maxRating"}
	}
	return nil
}

func validateRating(field string, r int) error {
	if r != 0 && (r < models.MinRating || r > models.MaxRating) {
		return &FilterError{Field: field, Message: fmt.Sprintf("must be between %d and %d", models.MinRating, models.MaxRating)}
	}
	return nil
}

func (f ReviewFilter) apply(db *gorm.DB) *gorm.DB {
	db = applyWindow(db, "reviews.created_at", f.Window)
	if len(f.MenuItemIDs) > 0 {
		db = db.Where("reviews.menu_item_id IN ?", f.MenuItemIDs)
	}
	if f.UserID != nil {
		db = db.Where("reviews.user_id = ?", *f.UserID)
	}
	if f.MinRating != 0 {
		db = db.Where("reviews.rating >= ?", f.MinRating)
	}
	if f.MaxRating != 0 {
		db = db.Where("reviews.rating <= ?", f.MaxRating)
	}
	return db
}

// PurchaseOrderFilter selects purchase orders of a supplier.
type PurchaseOrderFilter struct {
	SupplierID *uuid.UUID
	Statuses   []models.PurchaseOrderStatus
	// Delivered keeps only orders with an actual delivery timestamp.
	Delivered bool
}

func (f PurchaseOrderFilter) Validate() error {
	for _, s := range f.Statuses {
		if !s.Valid() {
			return &FilterError{Field: "status", Message: fmt.Sprintf("unknown purchase order status %q", s)}
		}
	}
	return nil
}

func (f PurchaseOrderFilter) apply(db *gorm.DB) *gorm.DB {
	if f.SupplierID != nil {
		db = db.Where("purchase_orders.supplier_id = ?", *f.SupplierID)
	}
	if len(f.Statuses) > 0 {
		db = db.Where("purchase_orders.status IN ?", f.Statuses)
	}
	if f.Delivered {
		db = db.Where("purchase_orders.actual_delivery IS NOT NULL")
	}
	return db
}
