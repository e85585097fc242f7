package analytics

import (
	"fmt"
	"time"
)

// Window is a half-open time interval [From, Until). A nil bound is open.
type Window struct {
	From  *time.Time
	Until *time.Time
}

// Bounded reports whether both ends of the window are set.
func (w Window) Bounded() bool {
	return w.From != nil && w.Until != nil
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	if w.Until != nil && !t.Before(*w.Until) {
		return false
	}
	return true
}

// Previous returns the window of the same length that ends where w starts.
// Only bounded windows have a predecessor.
func (w Window) Previous() (Window, bool) {
	if !w.Bounded() {
		return Window{}, false
	}
	length := w.Until.Sub(*w.From)
	from := w.From.Add(-length)
	until := *w.From
	return Window{From: &from, Until: &until}, true
}

// Resolver computes canonical report boundaries in a fixed location.
// Every method takes the reference instant explicitly.
type Resolver struct {
	loc *time.Location
}

func NewResolver(loc *time.Location) Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return Resolver{loc: loc}
}

func (r Resolver) Location() *time.Location {
	return r.loc
}

// StartOfDay returns local midnight of the day containing ref.
func (r Resolver) StartOfDay(ref time.Time) time.Time {
	t := ref.In(r.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, r.loc)
}

// DaysBack returns the instant n calendar days before ref.
func (r Resolver) DaysBack(ref time.Time, n int) time.Time {
	return ref.In(r.loc).AddDate(0, 0, -n)
}

// StartOfYear returns local midnight of January 1st of ref's year.
func (r Resolver) StartOfYear(ref time.Time) time.Time {
	t := ref.In(r.loc)
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, r.loc)
}

// Since returns the window [from, ∞).
func (r Resolver) Since(from time.Time) Window {
	return Window{From: &from}
}

// Day expands a specific day selector to [midnight, midnight+1day).
func (r Resolver) Day(day time.Time) Window {
	from := r.StartOfDay(day)
	until := from.AddDate(0, 0, 1)
	return Window{From: &from, Until: &until}
}

// Range builds a custom window from optional bounds. A missing from leaves
// the window unbounded below, a missing to leaves it unbounded above.
func (r Resolver) Range(from, to *time.Time) Window {
	var w Window
	if from != nil {
		f := from.In(r.loc)
		w.From = &f
	}
	if to != nil {
		t := to.In(r.loc)
		w.Until = &t
	}
	return w
}

// Period is the width of a trend bucket.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// Bucket returns the key and local start of the period containing t.
// Weeks are ISO weeks starting on Monday and keyed like "2026-W42".
func (r Resolver) Bucket(t time.Time, p Period) (string, time.Time) {
	day := r.StartOfDay(t)
	switch p {
	case PeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7
		year, week := day.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week), day.AddDate(0, 0, -offset)
	case PeriodMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, r.loc)
		return start.Format("2006-01"), start
	default:
		return day.Format("2006-01-02"), day
	}
}
