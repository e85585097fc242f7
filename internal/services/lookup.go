package services

import (
	"github.com/google/uuid"

	"restaurant_analytics/internal/models"
)

type nameLookup map[uuid.UUID]string

func newNameLookup(items []models.MenuItem) nameLookup {
	names := make(nameLookup, len(items))
	for _, item := range items {
		names[item.ID] = item.Name
	}
	return names
}

func (n nameLookup) get(id uuid.UUID) string {
	if name, ok := n[id]; ok {
		return name
	}
	return unknownItemName
}

func (n nameLookup) has(id uuid.UUID) bool {
	_, ok := n[id]
	return ok
}
