package services

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"restaurant_analytics/internal/models"
	"restaurant_analytics/internal/repository"
)

func contains[T comparable](list []T, s T) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type fakeOrderRepo struct {
	orders        []models.Order
	summarizeErr  error
	findCalls     int32
	// blockByStatus makes CountByStatus wait for cancellation.
	blockByStatus bool
}

func (f *fakeOrderRepo) match(filter repository.OrderFilter) []models.Order {
	var out []models.Order
	for _, o := range f.orders {
		if !filter.Window.Contains(o.OrderDate) {
			continue
		}
		if len(filter.Statuses) > 0 && !contains(filter.Statuses, o.Status) {
			continue
		}
		if contains(filter.ExcludeStatuses, o.Status) {
			continue
		}
		if !filter.WithItems {
			o.Items = nil
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderDate.Before(out[j].OrderDate) })
	return out
}

func (f *fakeOrderRepo) Find(_ context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	atomic.AddInt32(&f.findCalls, 1)
	return f.match(filter), nil
}

func (f *fakeOrderRepo) Count(_ context.Context, filter repository.OrderFilter) (int64, error) {
	return int64(len(f.match(filter))), nil
}

func (f *fakeOrderRepo) Summarize(_ context.Context, filter repository.OrderFilter) (repository.OrderSummary, error) {
	if f.summarizeErr != nil {
		return repository.OrderSummary{}, f.summarizeErr
	}
	var sum repository.OrderSummary
	for _, o := range f.match(filter) {
		sum.Count++
		sum.Total += o.TotalAmount
	}
	return sum, nil
}

func (f *fakeOrderRepo) CountByStatus(ctx context.Context, filter repository.OrderFilter) (map[models.OrderStatus]int64, error) {
	if f.blockByStatus {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	counts := make(map[models.OrderStatus]int64)
	for _, o := range f.match(filter) {
		counts[o.Status]++
	}
	return counts, nil
}

type fakeMenuItemRepo struct {
	items []models.MenuItem
	err   error
}

func (f *fakeMenuItemRepo) GetByID(_ context.Context, id uuid.UUID) (*models.MenuItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, item := range f.items {
		if item.ID == id {
			item := item
			return &item, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMenuItemRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.MenuItem
	for _, item := range f.items {
		if contains(ids, item.ID) {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users []models.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeReviewRepo struct {
	reviews []models.Review
	items   []models.MenuItem
	err     error
}

func (f *fakeReviewRepo) match(filter repository.ReviewFilter) []models.Review {
	var out []models.Review
	for _, r := range f.reviews {
		if !filter.Window.Contains(r.CreatedAt) {
			continue
		}
		if len(filter.MenuItemIDs) > 0 && !contains(filter.MenuItemIDs, r.MenuItemID) {
			continue
		}
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if filter.MinRating != 0 && r.Rating < filter.MinRating {
			continue
		}
		if filter.MaxRating != 0 && r.Rating > filter.MaxRating {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f *fakeReviewRepo) Find(_ context.Context, filter repository.ReviewFilter) ([]models.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.match(filter), nil
}

func (f *fakeReviewRepo) CountByRating(_ context.Context, filter repository.ReviewFilter) (map[int]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	counts := make(map[int]int64)
	for _, r := range f.match(filter) {
		counts[r.Rating]++
	}
	return counts, nil
}

func (f *fakeReviewRepo) SummarizeByMenuItem(_ context.Context, filter repository.ReviewFilter) ([]repository.MenuItemRatingSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []repository.MenuItemRatingSummary
	index := make(map[uuid.UUID]int)
	for _, r := range f.match(filter) {
		i, ok := index[r.MenuItemID]
		if !ok {
			i = len(out)
			index[r.MenuItemID] = i
			out = append(out, repository.MenuItemRatingSummary{MenuItemID: r.MenuItemID})
		}
		out[i].ReviewCount++
		out[i].RatingTotal += int64(r.Rating)
	}
	return out, nil
}

func (f *fakeReviewRepo) SummarizeByCategory(_ context.Context, filter repository.ReviewFilter) ([]repository.CategoryRatingSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	category := make(map[uuid.UUID]models.Category)
	for _, item := range f.items {
		category[item.ID] = item.Category
	}

	var out []repository.CategoryRatingSummary
	index := make(map[uuid.UUID]int)
	itemsSeen := make(map[uuid.UUID]map[uuid.UUID]bool)
	for _, r := range f.match(filter) {
		c, ok := category[r.MenuItemID]
		if !ok {
			continue
		}
		i, ok := index[c.ID]
		if !ok {
			i = len(out)
			index[c.ID] = i
			itemsSeen[c.ID] = make(map[uuid.UUID]bool)
			out = append(out, repository.CategoryRatingSummary{CategoryID: c.ID, CategoryName: c.Name})
		}
		out[i].ReviewCount++
		out[i].RatingTotal += int64(r.Rating)
		if !itemsSeen[c.ID][r.MenuItemID] {
			itemsSeen[c.ID][r.MenuItemID] = true
			out[i].ItemCount++
		}
	}
	return out, nil
}

type fakeSupplierRepo struct {
	suppliers []models.Supplier
}

func (f *fakeSupplierRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Supplier, error) {
	for _, s := range f.suppliers {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakePurchaseOrderRepo struct {
	orders []models.PurchaseOrder
}

func (f *fakePurchaseOrderRepo) match(filter repository.PurchaseOrderFilter) []models.PurchaseOrder {
	var out []models.PurchaseOrder
	for _, po := range f.orders {
		if filter.SupplierID != nil && po.SupplierID != *filter.SupplierID {
			continue
		}
		if len(filter.Statuses) > 0 && !contains(filter.Statuses, po.Status) {
			continue
		}
		if filter.Delivered && po.ActualDelivery == nil {
			continue
		}
		out = append(out, po)
	}
	return out
}

func (f *fakePurchaseOrderRepo) Find(_ context.Context, filter repository.PurchaseOrderFilter) ([]models.PurchaseOrder, error) {
	return f.match(filter), nil
}

func (f *fakePurchaseOrderRepo) Summarize(_ context.Context, filter repository.PurchaseOrderFilter) (repository.SpendSummary, error) {
	var sum repository.SpendSummary
	for _, po := range f.match(filter) {
		sum.Count++
		sum.Total += po.TotalAmount
	}
	return sum, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) GetReport(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *fakeCache) SetReport(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
