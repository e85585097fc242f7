package models

import "time"

// Report values are built once per request and never persisted.

type StatsReport struct {
	DailyEarnings     float64               `json:"dailyEarnings"`
	WeeklyEarnings    float64               `json:"weeklyEarnings"`
	YearlyEarnings    float64               `json:"yearlyEarnings"`
	TodayOrderCount   int64                 `json:"todayOrderCount"`
	AvgOrderValue     float64               `json:"avgOrderValue"`
	OrdersByStatus    map[OrderStatus]int64 `json:"ordersByStatus"`
	BestSellingDishes []BestSeller          `json:"bestSellingDishes"`
	GeneratedAt       time.Time             `json:"generatedAt"`
}

type BestSeller struct {
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Quantity   int64   `json:"quantity"`
	Revenue    float64 `json:"revenue"`
}

type RevenueReport struct {
	From            *time.Time `json:"from"`
	Until           *time.Time `json:"until"`
	Revenue         float64    `json:"revenue"`
	OrderCount      int64      `json:"orderCount"`
	AvgOrderValue   float64    `json:"avgOrderValue"`
	CancelledOrders int64      `json:"cancelledOrders"`
	PreviousRevenue float64    `json:"previousRevenue"`
	PreviousOrders  int64      `json:"previousOrders"`
	RevenueTrend    float64    `json:"revenueTrend"`
	OrderTrend      float64    `json:"orderTrend"`
}

type RatingReport struct {
	TotalReviews  int64         `json:"totalReviews"`
	AverageRating float64       `json:"averageRating"`
	HighestRating int           `json:"highestRating"`
	LowestRating  int           `json:"lowestRating"`
	Distribution  []RatingCount `json:"distribution"`
}

type RatingCount struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

type RatingTrendReport struct {
	Period  string        `json:"period"`
	Days    int           `json:"days"`
	Buckets []TrendBucket `json:"buckets"`
}

type TrendBucket struct {
	Period        string    `json:"period"`
	Start         time.Time `json:"start"`
	AverageRating float64   `json:"averageRating"`
	ReviewCount   int64     `json:"reviewCount"`
	Change        float64   `json:"change"`
}

type RankedItem struct {
	MenuItemID    string  `json:"menuItemId"`
	Name          string  `json:"name"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}

type ComparisonReport struct {
	Items   []ItemComparison `json:"items"`
	Skipped []SkippedID      `json:"skipped"`
}

type ItemComparison struct {
	MenuItemID    string  `json:"menuItemId"`
	Name          string  `json:"name"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
	Ratings       []int   `json:"ratings"`
}

type SkippedID struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

const (
	SkipMalformed = "malformed"
	SkipNotFound  = "not_found"
)

type CategoryRating struct {
	CategoryID    string  `json:"categoryId"`
	Name          string  `json:"name"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
	ItemCount     int64   `json:"itemCount"`
}

type SupplierPerformanceReport struct {
	SupplierID          string              `json:"supplierId"`
	DeliveryPerformance DeliveryPerformance `json:"deliveryPerformance"`
	OrderStatistics     SupplierOrderStats  `json:"orderStatistics"`
}

type DeliveryPerformance struct {
	// AvgDeliveryDelay is in days; negative means early.
	AvgDeliveryDelay float64 `json:"avgDeliveryDelay"`
	OnTimeRate       float64 `json:"onTimeRate"`
}

type SupplierOrderStats struct {
	TotalOrders int64   `json:"totalOrders"`
	TotalSpent  float64 `json:"totalSpent"`
}
