package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"restaurant_analytics/internal/analytics"
	"restaurant_analytics/internal/models"
	"restaurant_analytics/internal/repository"
)

const (
	defaultTrendDays = 30
	maxTrendDays     = 366
	maxRankLimit     = 100
)

type RatingService interface {
	RatingStats(ctx context.Context, query RatingQuery) (*models.RatingReport, error)
	MenuItemRatings(ctx context.Context, menuItemID string) (*models.RatingReport, error)
	UserRatings(ctx context.Context, userID string) (*models.RatingReport, error)
	RatingTrends(ctx context.Context, query TrendQuery) (*models.RatingTrendReport, error)
	TopRatedItems(ctx context.Context, query RankQuery) ([]models.RankedItem, error)
	LowestRatedItems(ctx context.Context, query RankQuery) ([]models.RankedItem, error)
	CompareItems(ctx context.Context, menuItemIDs []string) (*models.ComparisonReport, error)
	CategoryRatings(ctx context.Context) ([]models.CategoryRating, error)
}

// RatingQuery scopes a rating report. Empty ids and zero ratings are unset.
type RatingQuery struct {
	WindowQuery
	MenuItemID string
	UserID     string
	MinRating  int
	MaxRating  int
}

// TrendQuery covers the trailing Days, bucketed by Period. A nil Days
// means the default of 30.
type TrendQuery struct {
	Days   *int
	Period string
}

// RankQuery bounds a ranking. Nil fields take the ranker defaults.
type RankQuery struct {
	Limit      *int
	MinReviews *int
}

func (q RankQuery) options() (analytics.RankOptions, error) {
	var opts analytics.RankOptions
	if q.Limit != nil {
		if *q.Limit < 1 || *q.Limit > maxRankLimit {
			return opts, &ValidationError{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", maxRankLimit)}
		}
		opts.Limit = *q.Limit
	}
	if q.MinReviews != nil {
		if *q.MinReviews < 1 {
			return opts, &ValidationError{Field: "minReviews", Message: "must be at least 1"}
		}
		opts.MinSamples = int64(*q.MinReviews)
	}
	return opts, nil
}

type ratingService struct {
	reviewRepo   repository.ReviewRepository
	menuItemRepo repository.MenuItemRepository
	userRepo     repository.UserRepository
	opts         Options
}

func NewRatingService(reviewRepo repository.ReviewRepository, menuItemRepo repository.MenuItemRepository, userRepo repository.UserRepository, opts Options) RatingService {
	return &ratingService{
		reviewRepo:   reviewRepo,
		menuItemRepo: menuItemRepo,
		userRepo:     userRepo,
		opts:         opts.withDefaults(),
	}
}

func (s *ratingService) RatingStats(ctx context.Context, query RatingQuery) (*models.RatingReport, error) {
	filter := repository.ReviewFilter{MinRating: query.MinRating, MaxRating: query.MaxRating}

	var menuItemID, userID *uuid.UUID
	if query.MenuItemID != "" {
		id, err := parseID("menuItemId", query.MenuItemID)
		if err != nil {
			return nil, err
		}
		menuItemID = &id
		filter.MenuItemIDs = []uuid.UUID{id}
	}
	if query.UserID != "" {
		id, err := parseID("userId", query.UserID)
		if err != nil {
			return nil, err
		}
		userID = &id
		filter.UserID = &id
	}

	window, err := query.resolve(s.opts.resolver())
	if err != nil {
		return nil, err
	}
	filter.Window = window
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	ctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	var counts map[int]int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.reviewRepo.CountByRating(gctx, filter)
		if err != nil {
			return sourceError("count reviews by rating", err)
		}
		return nil
	})
	if menuItemID != nil {
		g.Go(func() error {
			if _, err := s.menuItemRepo.GetByID(gctx, *menuItemID); err != nil {
				return lookupError("menu item", *menuItemID, err)
			}
			return nil
		})
	}
	if userID != nil {
		g.Go(func() error {
			if _, err := s.userRepo.GetByID(gctx, *userID); err != nil {
				return lookupError("user", *userID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	buckets, err := analytics.BuildDistribution(counts, analytics.RatingDomain)
	if err != nil {
		return nil, sourceError("build rating distribution", err)
	}

	// Every figure comes from the one histogram.
	total := analytics.Total(buckets)
	var sum int64
	var highest, lowest int
	distribution := make([]models.RatingCount, len(buckets))
	for i, b := range buckets {
		distribution[i] = models.RatingCount{Rating: b.Value, Count: b.Count}
		if b.Count == 0 {
			continue
		}
		sum += int64(b.Value) * b.Count
		if lowest == 0 {
			lowest = b.Value
		}
		highest = b.Value
	}

	return &models.RatingReport{
		TotalReviews:  total,
		AverageRating: analytics.Average(float64(sum), total),
		HighestRating: highest,
		LowestRating:  lowest,
		Distribution:  distribution,
	}, nil
}

func (s *ratingService) MenuItemRatings(ctx context.Context, menuItemID string) (*models.RatingReport, error) {
	return s.RatingStats(ctx, RatingQuery{MenuItemID: menuItemID})
}

func (s *ratingService) UserRatings(ctx context.Context, userID string) (*models.RatingReport, error) {
	return s.RatingStats(ctx, RatingQuery{UserID: userID})
}

func (s *ratingService) RatingTrends(ctx context.Context, query TrendQuery) (*models.RatingTrendReport, error) {
	days := defaultTrendDays
	if query.Days != nil {
		days = *query.Days
	}
	if days < 1 || days > maxTrendDays {
		return nil, &ValidationError{Field: "days", Message: fmt.Sprintf("must be between 1 and %d", maxTrendDays)}
	}
	period := analytics.PeriodDay
	if query.Period != "" {
		period = analytics.Period(strings.ToLower(query.Period))
	}
	if !period.Valid() {
		return nil, &ValidationError{Field: "period", Message: "must be one of day, week, month"}
	}

	r := s.opts.resolver()
	filter := repository.ReviewFilter{Window: r.Since(r.DaysBack(s.opts.Now(), days))}

	ctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	reviews, err := s.reviewRepo.Find(ctx, filter)
	if err != nil {
		return nil, sourceError("load reviews", err)
	}

	type tally struct {
		key   string
		start time.Time
		total int64
		count int64
	}
	var tallies []*tally
	index := make(map[string]*tally)
	for _, review := range reviews {
		key, start := r.Bucket(review.CreatedAt, period)
		t, ok := index[key]
		if !ok {
			t = &tally{key: key, start: start}
			index[key] = t
			tallies = append(tallies, t)
		}
		t.total += int64(review.Rating)
		t.count++
	}
	sort.SliceStable(tallies, func(i, j int) bool {
		return tallies[i].start.Before(tallies[j].start)
	})

	buckets := make([]models.TrendBucket, len(tallies))
	for i, t := range tallies {
		buckets[i] = models.TrendBucket{
			Period:        t.key,
			Start:         t.start,
			AverageRating: analytics.Average(float64(t.total), t.count),
			ReviewCount:   t.count,
		}
		if i > 0 {
			buckets[i].Change = analytics.Round2(analytics.Trend(buckets[i].AverageRating, buckets[i-1].AverageRating))
		}
	}

	return &models.RatingTrendReport{
		Period:  string(period),
		Days:    days,
		Buckets: buckets,
	}, nil
}

// itemRating ranks on the exact mean; rounding happens only for display.
type itemRating struct {
	menuItemID uuid.UUID
	mean       float64
	count      int64
}

func (i itemRating) RankID() string           { return i.menuItemID.String() }
func (i itemRating) PrimaryMetric() float64   { return i.mean }
func (i itemRating) SecondaryMetric() float64 { return float64(i.count) }
func (i itemRating) SampleCount() int64       { return i.count }

func (s *ratingService) TopRatedItems(ctx context.Context, query RankQuery) ([]models.RankedItem, error) {
	return s.rankItems(ctx, query, false)
}

func (s *ratingService) LowestRatedItems(ctx context.Context, query RankQuery) ([]models.RankedItem, error) {
	return s.rankItems(ctx, query, true)
}

func (s *ratingService) rankItems(ctx context.Context, query RankQuery, ascending bool) ([]models.RankedItem, error) {
	opts, err := query.options()
	if err != nil {
		return nil, err
	}
	opts.Ascending = ascending

	ctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	summaries, err := s.reviewRepo.SummarizeByMenuItem(ctx, repository.ReviewFilter{})
	if err != nil {
		return nil, sourceError("summarize reviews by menu item", err)
	}

	groups := make([]itemRating, len(summaries))
	for i, sum := range summaries {
		groups[i] = itemRating{
			menuItemID: sum.MenuItemID,
			mean:       float64(sum.RatingTotal) / float64(sum.ReviewCount),
			count:      sum.ReviewCount,
		}
	}
	top := analytics.TopK(groups, opts)
	if len(top) == 0 {
		return []models.RankedItem{}, nil
	}

	ids := make([]uuid.UUID, len(top))
	for i, g := range top {
		ids[i] = g.menuItemID
	}
	items, err := s.menuItemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, sourceError("load menu items", err)
	}
	names := newNameLookup(items)

	ranked := make([]models.RankedItem, len(top))
	for i, g := range top {
		ranked[i] = models.RankedItem{
			MenuItemID:    g.menuItemID.String(),
			Name:          names.get(g.menuItemID),
			AverageRating: analytics.Round2(g.mean),
			ReviewCount:   g.count,
		}
	}
	return ranked, nil
}

func (s *ratingService) CompareItems(ctx context.Context, menuItemIDs []string) (*models.ComparisonReport, error) {
	if len(menuItemIDs) == 0 {
		return nil, &ValidationError{Field: "ids", Message: "at least one menu item id is required"}
	}

	report := &models.ComparisonReport{
		Items:   []models.ItemComparison{},
		Skipped: []models.SkippedID{},
	}

	var ids []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, raw := range menuItemIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			report.Skipped = append(report.Skipped, models.SkippedID{ID: raw, Reason: models.SkipMalformed})
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return report, nil
	}

	ctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	var (
		items   []models.MenuItem
		reviews []models.Review
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.menuItemRepo.FindByIDs(gctx, ids)
		if err != nil {
			return sourceError("load menu items", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		reviews, err = s.reviewRepo.Find(gctx, repository.ReviewFilter{MenuItemIDs: ids})
		if err != nil {
			return sourceError("load reviews", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := newNameLookup(items)
	ratings := make(map[uuid.UUID][]int, len(ids))
	for _, review := range reviews {
		ratings[review.MenuItemID] = append(ratings[review.MenuItemID], review.Rating)
	}

	for _, id := range ids {
		if !names.has(id) {
			report.Skipped = append(report.Skipped, models.SkippedID{ID: id.String(), Reason: models.SkipNotFound})
			continue
		}
		list := ratings[id]
		if list == nil {
			list = []int{}
		}
		var total int64
		for _, r := range list {
			total += int64(r)
		}
		report.Items = append(report.Items, models.ItemComparison{
			MenuItemID:    id.String(),
			Name:          names.get(id),
			AverageRating: analytics.Average(float64(total), int64(len(list))),
			ReviewCount:   int64(len(list)),
			Ratings:       list,
		})
	}

	sort.SliceStable(report.Items, func(i, j int) bool {
		a, b := report.Items[i], report.Items[j]
		if a.AverageRating != b.AverageRating {
			return a.AverageRating > b.AverageRating
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount > b.ReviewCount
		}
		return a.MenuItemID < b.MenuItemID
	})
	return report, nil
}

func (s *ratingService) CategoryRatings(ctx context.Context) ([]models.CategoryRating, error) {
	ctx, cancel := s.opts.queryContext(ctx)
	defer cancel()

	summaries, err := s.reviewRepo.SummarizeByCategory(ctx, repository.ReviewFilter{})
	if err != nil {
		return nil, sourceError("summarize reviews by category", err)
	}

	categories := make([]models.CategoryRating, len(summaries))
	for i, sum := range summaries {
		categories[i] = models.CategoryRating{
			CategoryID:    sum.CategoryID.String(),
			Name:          sum.CategoryName,
			AverageRating: analytics.Average(float64(sum.RatingTotal), sum.ReviewCount),
			ReviewCount:   sum.ReviewCount,
			ItemCount:     sum.ItemCount,
		}
	}
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].AverageRating != categories[j].AverageRating {
			return categories[i].AverageRating > categories[j].AverageRating
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}
