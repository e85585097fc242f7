package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"restaurant_analytics/internal/analytics"
	"restaurant_analytics/internal/models"
	"restaurant_analytics/internal/repository"
)

const (
	bestSellerLimit  = 5
	unknownItemName  = "Unknown item"
	statsCachePrefix = "report:order-stats:"
)

type StatisticsService interface {
	OrderStats(ctx context.Context) (*models.StatsReport, error)
	Revenue(ctx context.Context, query RevenueQuery) (*models.RevenueReport, error)
}

// RevenueQuery selects the revenue window. An empty query covers all time.
type RevenueQuery struct {
	WindowQuery
}

type statisticsService struct {
	orderRepo    repository.OrderRepository
	menuItemRepo repository.MenuItemRepository
	cache        ReportCache
	opts         Options
}

// NewStatisticsService builds the order statistics service. cache may be nil.
func NewStatisticsService(orderRepo repository.OrderRepository, menuItemRepo repository.MenuItemRepository, cache ReportCache, opts Options) StatisticsService {
	return &statisticsService{
		orderRepo:    orderRepo,
		menuItemRepo: menuItemRepo,
		cache:        cache,
		opts:         opts.withDefaults(),
	}
}

var cancelledOnly = []models.OrderStatus{models.OrderCancelled}

func (s *statisticsService) OrderStats(ctx context.Context) (*models.StatsReport, error) {
	now := s.opts.Now()
	r := s.opts.resolver()
	key := statsCachePrefix + now.In(r.Location()).Format("200601021504")

	if s.cache != nil {
		var cached models.StatsReport
		hit, err := s.cache.GetReport(ctx, key, &cached)
		if err != nil {
			log.Printf("Warning: failed to read cached order stats: %v", err)
		} else if hit {
			return &cached, nil
		}
	}

	report, err := s.buildOrderStats(ctx, r, now)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetReport(ctx, key, report, s.opts.CacheTTL); err != nil {
			log.Printf("Warning: failed to cache order stats: %v", err)
		}
	}
	return report, nil
}

func (s *statisticsService) buildOrderStats(ctx context.Context, r analytics.Resolver, now time.Time) (*models.StatsReport, error) {
	ctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	today := r.Since(r.StartOfDay(now))
	week := r.Since(r.DaysBack(now, 7))
	year := r.Since(r.StartOfYear(now))

	var (
		daily, weekly, yearly repository.OrderSummary
		byStatus              map[models.OrderStatus]int64
		orders                []models.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		daily, err = s.orderRepo.Summarize(gctx, repository.OrderFilter{Window: today, ExcludeStatuses: cancelledOnly})
		if err != nil {
			return sourceError("summarize today's orders", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		weekly, err = s.orderRepo.Summarize(gctx, repository.OrderFilter{Window: week, ExcludeStatuses: cancelledOnly})
		if err != nil {
			return sourceError("summarize weekly orders", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		yearly, err = s.orderRepo.Summarize(gctx, repository.OrderFilter{Window: year, ExcludeStatuses: cancelledOnly})
		if err != nil {
			return sourceError("summarize yearly orders", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		byStatus, err = s.orderRepo.CountByStatus(gctx, repository.OrderFilter{Window: today})
		if err != nil {
			return sourceError("count today's orders by status", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		orders, err = s.orderRepo.Find(gctx, repository.OrderFilter{ExcludeStatuses: cancelledOnly, WithItems: true})
		if err != nil {
			return sourceError("load orders with items", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best, err := s.bestSellers(ctx, orders)
	if err != nil {
		return nil, err
	}

	statusCounts := make(map[models.OrderStatus]int64, len(models.OrderStatuses))
	for _, status := range models.OrderStatuses {
		statusCounts[status] = byStatus[status]
	}

	return &models.StatsReport{
		DailyEarnings:     analytics.Round2(daily.Total),
		WeeklyEarnings:    analytics.Round2(weekly.Total),
		YearlyEarnings:    analytics.Round2(yearly.Total),
		TodayOrderCount:   daily.Count,
		AvgOrderValue:     analytics.Average(daily.Total, daily.Count),
		OrdersByStatus:    statusCounts,
		BestSellingDishes: best,
		GeneratedAt:       now,
	}, nil
}

type dishSales struct {
	menuItemID uuid.UUID
	quantity   int64
	revenue    float64
}

func (d *dishSales) RankID() string           { return d.menuItemID.String() }
func (d *dishSales) PrimaryMetric() float64   { return float64(d.quantity) }
func (d *dishSales) SecondaryMetric() float64 { return 0 }
func (d *dishSales) SampleCount() int64       { return d.quantity }

// bestSellers groups line items by menu item in the order they were
// processed, so equal quantities keep first-seen order.
func (s *statisticsService) bestSellers(ctx context.Context, orders []models.Order) ([]models.BestSeller, error) {
	var groups []*dishSales
	index := make(map[uuid.UUID]*dishSales)
	for _, order := range orders {
		for _, item := range order.Items {
			g, ok := index[item.MenuItemID]
			if !ok {
				g = &dishSales{menuItemID: item.MenuItemID}
				index[item.MenuItemID] = g
				groups = append(groups, g)
			}
			g.quantity += int64(item.Quantity)
			g.revenue += item.LineTotal()
		}
	}

	top := analytics.TopK(groups, analytics.RankOptions{Limit: bestSellerLimit, KeepInputOrder: true})
	if len(top) == 0 {
		return []models.BestSeller{}, nil
	}

	ids := make([]uuid.UUID, len(top))
	for i, g := range top {
		ids[i] = g.menuItemID
	}
	names, err := s.menuNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	best := make([]models.BestSeller, len(top))
	for i, g := range top {
		best[i] = models.BestSeller{
			MenuItemID: g.menuItemID.String(),
			Name:       names.get(g.menuItemID),
			Quantity:   g.quantity,
			Revenue:    analytics.Round2(g.revenue),
		}
	}
	return best, nil
}

func (s *statisticsService) menuNames(ctx context.Context, ids []uuid.UUID) (nameLookup, error) {
	items, err := s.menuItemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, sourceError("load menu items", err)
	}
	return newNameLookup(items), nil
}

func (s *statisticsService) Revenue(ctx context.Context, query RevenueQuery) (*models.RevenueReport, error) {
	window, err := query.resolve(s.opts.resolver())
	if err != nil {
		return nil, err
	}
	current := repository.OrderFilter{Window: window, ExcludeStatuses: cancelledOnly}
	if err := validateFilter(current); err != nil {
		return nil, err
	}
	previousWindow, hasPrevious := window.Previous()

	ctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	var (
		summary, previous repository.OrderSummary
		cancelled         int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.orderRepo.Summarize(gctx, current)
		if err != nil {
			return sourceError("summarize revenue", err)
		}
		return nil
	})
	if hasPrevious {
		g.Go(func() error {
			var err error
			previous, err = s.orderRepo.Summarize(gctx, repository.OrderFilter{Window: previousWindow, ExcludeStatuses: cancelledOnly})
			if err != nil {
				return sourceError("summarize previous revenue", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		var err error
		cancelled, err = s.orderRepo.Count(gctx, repository.OrderFilter{Window: window, Statuses: cancelledOnly})
		if err != nil {
			return sourceError("count cancelled orders", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &models.RevenueReport{
		From:            window.From,
		Until:           window.Until,
		Revenue:         analytics.Round2(summary.Total),
		OrderCount:      summary.Count,
		AvgOrderValue:   analytics.Average(summary.Total, summary.Count),
		CancelledOrders: cancelled,
	}
	if hasPrevious {
		report.PreviousRevenue = analytics.Round2(previous.Total)
		report.PreviousOrders = previous.Count
		report.RevenueTrend = analytics.Round2(analytics.Trend(summary.Total, previous.Total))
		report.OrderTrend = analytics.Round2(analytics.Trend(float64(summary.Count), float64(previous.Count)))
	}
	return report, nil
}
