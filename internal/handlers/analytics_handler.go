package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"restaurant_analytics/internal/models"
	"restaurant_analytics/internal/services"
)

const dateLayout = "2006-01-02"

type AnalyticsHandler struct {
	statisticsService services.StatisticsService
	ratingService     services.RatingService
	supplierService   services.SupplierService
	loc               *time.Location
}

func NewAnalyticsHandler(
	statisticsService services.StatisticsService,
	ratingService services.RatingService,
	supplierService services.SupplierService,
	loc *time.Location,
) *AnalyticsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsHandler{
		statisticsService: statisticsService,
		ratingService:     ratingService,
		supplierService:   supplierService,
		loc:               loc,
	}
}

// RegisterRoutes mounts every report under /analytics.
func (h *AnalyticsHandler) RegisterRoutes(r gin.IRouter) {
	analytics := r.Group("/analytics")
	{
		analytics.GET("/orders/stats", h.GetOrderStats)
		analytics.GET("/orders/revenue", h.GetRevenue)

		analytics.GET("/ratings/stats", h.GetRatingStats)
		analytics.GET("/ratings/trends", h.GetRatingTrends)
		analytics.GET("/ratings/top", h.GetTopRatedItems)
		analytics.GET("/ratings/lowest", h.GetLowestRatedItems)
		analytics.GET("/ratings/compare", h.CompareItems)
		analytics.GET("/ratings/categories", h.GetCategoryRatings)

		analytics.GET("/menu-items/:id/ratings", h.GetMenuItemRatings)
		analytics.GET("/users/:id/ratings", h.GetUserRatings)

		analytics.GET("/suppliers/:id/performance", h.GetSupplierPerformance)
	}
}

func (h *AnalyticsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AnalyticsHandler) GetOrderStats(c *gin.Context) {
	report, err := h.statisticsService.OrderStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) GetRevenue(c *gin.Context) {
	window, err := h.windowQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.statisticsService.Revenue(c.Request.Context(), services.RevenueQuery{WindowQuery: window})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) GetRatingStats(c *gin.Context) {
	window, err := h.windowQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	minRating, err := queryInt(c, "minRating")
	if err != nil {
		respondError(c, err)
		return
	}
	maxRating, err := queryInt(c, "maxRating")
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.ratingService.RatingStats(c.Request.Context(), services.RatingQuery{
		WindowQuery: window,
		MenuItemID:  c.Query("menuItemId"),
		UserID:      c.Query("userId"),
		MinRating:   minRating,
		MaxRating:   maxRating,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) GetMenuItemRatings(c *gin.Context) {
	report, err := h.ratingService.MenuItemRatings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) GetUserRatings(c *gin.Context) {
	report, err := h.ratingService.UserRatings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) GetRatingTrends(c *gin.Context) {
	days, err := queryOptionalInt(c, "days")
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.ratingService.RatingTrends(c.Request.Context(), services.TrendQuery{
		Days:   days,
		Period: c.Query("period"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) GetTopRatedItems(c *gin.Context) {
	h.rankedItems(c, h.ratingService.TopRatedItems)
}

func (h *AnalyticsHandler) GetLowestRatedItems(c *gin.Context) {
	h.rankedItems(c, h.ratingService.LowestRatedItems)
}

func (h *AnalyticsHandler) rankedItems(c *gin.Context, rank func(ctx context.Context, query services.RankQuery) ([]models.RankedItem, error)) {
	limit, err := queryOptionalInt(c, "limit")
	if err != nil {
		respondError(c, err)
		return
	}
	minReviews, err := queryOptionalInt(c, "minReviews")
	if err != nil {
		respondError(c, err)
		return
	}

	items, err := rank(c.Request.Context(), services.RankQuery{Limit: limit, MinReviews: minReviews})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *AnalyticsHandler) CompareItems(c *gin.Context) {
	var ids []string
	for _, raw := range strings.Split(c.Query("ids"), ",") {
		if id := strings.TrimSpace(raw); id != "" {
			ids = append(ids, id)
		}
	}

	report, err := h.ratingService.CompareItems(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) GetCategoryRatings(c *gin.Context) {
	categories, err := h.ratingService.CategoryRatings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *AnalyticsHandler) GetSupplierPerformance(c *gin.Context) {
	report, err := h.supplierService.Performance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// windowQuery reads from, to and date. to names the last day included.
func (h *AnalyticsHandler) windowQuery(c *gin.Context) (services.WindowQuery, error) {
	var q services.WindowQuery
	var err error
	if q.From, err = h.queryDate(c, "from"); err != nil {
		return q, err
	}
	if q.To, err = h.queryDate(c, "to"); err != nil {
		return q, err
	}
	if q.Date, err = h.queryDate(c, "date"); err != nil {
		return q, err
	}
	if q.To != nil {
		next := q.To.AddDate(0, 0, 1)
		q.To = &next
	}
	return q, nil
}

func (h *AnalyticsHandler) queryDate(c *gin.Context, key string) (*time.Time, error) {
	value := c.Query(key)
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, h.loc)
	if err != nil {
		return nil, &services.ValidationError{Field: key, Message: fmt.Sprintf("expected a date like %s", dateLayout)}
	}
	return &t, nil
}

// queryOptionalInt returns nil when key is absent, so an explicit 0 still
// reaches validation.
func queryOptionalInt(c *gin.Context, key string) (*int, error) {
	value, ok := c.GetQuery(key)
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, &services.ValidationError{Field: key, Message: "expected an integer"}
	}
	return &n, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	n, err := queryOptionalInt(c, key)
	if err != nil || n == nil {
		return 0, err
	}
	return *n, nil
}

func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	default:
		log.Printf("Error building report for %s: %v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
	}
}
