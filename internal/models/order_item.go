package models

import "github.com/google/uuid"

type OrderItem struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `json:"orderId" gorm:"type:uuid;not null;index"`
	MenuItemID uuid.UUID `json:"menuItemId" gorm:"type:uuid;not null;index"`
	LineNo     int       `json:"lineNo" gorm:"not null;default:0"`
	Quantity   int       `json:"quantity" gorm:"not null;check:quantity >= 1"`
	UnitPrice  float64   `json:"unitPrice" gorm:"not null;check:unit_price >= 0"`
}

// LineTotal is the revenue contributed by the line.
func (i OrderItem) LineTotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}
