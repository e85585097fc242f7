package services

import (
	"context"
	"time"

	"restaurant_analytics/internal/analytics"
)

// Options are shared by every report service.
type Options struct {
	// Location defines day, week and year boundaries. Defaults to UTC.
	Location *time.Location
	// Now is the reference clock. Defaults to time.Now.
	Now func() time.Time
	// QueryTimeout bounds one report's fan-out. Zero means no bound.
	QueryTimeout time.Duration
	// CacheTTL is how long cached reports live.
	CacheTTL time.Duration
}

const defaultCacheTTL = time.Minute

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = defaultCacheTTL
	}
	return o
}

func (o Options) resolver() analytics.Resolver {
	return analytics.NewResolver(o.Location)
}

func (o Options) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.QueryTimeout > 0 {
		return context.WithTimeout(ctx, o.QueryTimeout)
	}
	return context.WithCancel(ctx)
}

// ReportCache stores finished reports as JSON.
type ReportCache interface {
	GetReport(ctx context.Context, key string, dest interface{}) (bool, error)
	SetReport(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// WindowQuery selects a report window: either a specific day or an optional
// [From, To) range.
type WindowQuery struct {
	From *time.Time
	To   *time.Time
	Date *time.Time
}

func (q WindowQuery) resolve(r analytics.Resolver) (analytics.Window, error) {
	if q.Date != nil {
		if q.From != nil || q.To != nil {
			return analytics.Window{}, &ValidationError{Field: "date", Message: "cannot be combined with from or to"}
		}
		return r.Day(*q.Date), nil
	}
	return r.Range(q.From, q.To), nil
}
