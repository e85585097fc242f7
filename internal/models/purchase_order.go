package models

import (
	"time"

	"github.com/google/uuid"
)

type Supplier struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

type PurchaseOrder struct {
	ID               uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey"`
	SupplierID       uuid.UUID           `json:"supplierId" gorm:"type:uuid;not null;index"`
	Status           PurchaseOrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	TotalAmount      float64             `json:"totalAmount" gorm:"not null"`
	ExpectedDelivery time.Time           `json:"expectedDelivery" gorm:"not null"`
	ActualDelivery   *time.Time          `json:"actualDelivery"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

type PurchaseOrderStatus string

const (
	PurchasePending   PurchaseOrderStatus = "pending"
	PurchaseOrdered   PurchaseOrderStatus = "ordered"
	PurchaseShipped   PurchaseOrderStatus = "shipped"
	PurchaseDelivered PurchaseOrderStatus = "delivered"
	PurchaseCancelled PurchaseOrderStatus = "cancelled"
)

func (s PurchaseOrderStatus) Valid() bool {
	switch s {
	case PurchasePending, PurchaseOrdered, PurchaseShipped, PurchaseDelivered, PurchaseCancelled:
		return true
	}
	return false
}

// DeliveryDelay is actual minus expected delivery. ok is false until the
// order has been delivered.
func (p PurchaseOrder) DeliveryDelay() (delay time.Duration, ok bool) {
	if p.ActualDelivery == nil || p.ExpectedDelivery.IsZero() {
		return 0, false
	}
	return p.ActualDelivery.Sub(p.ExpectedDelivery), true
}
