package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"restaurant_analytics/internal/analytics"
	"restaurant_analytics/internal/models"
	"restaurant_analytics/internal/repository"
)

type SupplierService interface {
	Performance(ctx context.Context, supplierID string) (*models.SupplierPerformanceReport, error)
}

type supplierService struct {
	supplierRepo      repository.SupplierRepository
	purchaseOrderRepo repository.PurchaseOrderRepository
	opts              Options
}

func NewSupplierService(supplierRepo repository.SupplierRepository, purchaseOrderRepo repository.PurchaseOrderRepository, opts Options) SupplierService {
	return &supplierService{
		supplierRepo:      supplierRepo,
		purchaseOrderRepo: purchaseOrderRepo,
		opts:              opts.withDefaults(),
	}
}

const oneDay = 24 * time.Hour

// Performance measures delivery delay and spend over the supplier's
// delivered purchase orders. Delays are in days; on time means no delay.
func (s *supplierService) Performance(ctx context.Context, supplierID string) (*models.SupplierPerformanceReport, error) {
	id, err := parseID("supplierId", supplierID)
	if err != nil {
		return nil, err
	}

	delivered := repository.PurchaseOrderFilter{
		SupplierID: &id,
		Statuses:   []models.PurchaseOrderStatus{models.PurchaseDelivered},
	}
	timed := delivered
	timed.Delivered = true

	ctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	var (
		orders []models.PurchaseOrder
		spend  repository.SpendSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := s.supplierRepo.GetByID(gctx, id); err != nil {
			return lookupError("supplier", id, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		orders, err = s.purchaseOrderRepo.Find(gctx, timed)
		if err != nil {
			return sourceError("load delivered purchase orders", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		spend, err = s.purchaseOrderRepo.Summarize(gctx, delivered)
		if err != nil {
			return sourceError("summarize supplier spend", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		totalDays float64
		onTime    []bool
	)
	for _, po := range orders {
		delay, ok := po.DeliveryDelay()
		if !ok {
			continue
		}
		totalDays += delay.Hours() / oneDay.Hours()
		onTime = append(onTime, delay <= 0)
	}

	return &models.SupplierPerformanceReport{
		SupplierID: id.String(),
		DeliveryPerformance: models.DeliveryPerformance{
			AvgDeliveryDelay: analytics.Average(totalDays, int64(len(onTime))),
			OnTimeRate:       analytics.Round2(analytics.Fraction(onTime)),
		},
		OrderStatistics: models.SupplierOrderStats{
			TotalOrders: spend.Count,
			TotalSpent:  analytics.Round2(spend.Total),
		},
	}, nil
}
