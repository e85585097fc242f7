package analytics

import "sort"

const (
	DefaultRankLimit  = 10
	DefaultMinSamples = 1
)

// Rankable is a grouped entity that can be ordered by TopK.
type Rankable interface {
	RankID() string
	PrimaryMetric() float64
	SecondaryMetric() float64
	SampleCount() int64
}

type RankOptions struct {
	Limit      int
	MinSamples int64
	// Ascending ranks lowest primary metric first.
	Ascending bool
	// KeepInputOrder resolves residual ties by input position instead of RankID.
	KeepInputOrder bool
}

func (o RankOptions) withDefaults() RankOptions {
	if o.Limit < 1 {
		o.Limit = DefaultRankLimit
	}
	if o.MinSamples < 1 {
		o.MinSamples = DefaultMinSamples
	}
	return o
}

// TopK filters groups below MinSamples, orders them by primary metric with
// ties broken by descending secondary metric, and returns at most Limit
// groups. The input slice is left untouched.
func TopK[T Rankable](groups []T, opts RankOptions) []T {
	opts = opts.withDefaults()

	eligible := make([]T, 0, len(groups))
	for _, g := range groups {
		if g.SampleCount() >= opts.MinSamples {
			eligible = append(eligible, g)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if pa, pb := a.PrimaryMetric(), b.PrimaryMetric(); pa != pb {
			if opts.Ascending {
				return pa < pb
			}
			return pa > pb
		}
		if sa, sb := a.SecondaryMetric(), b.SecondaryMetric(); sa != sb {
			return sa > sb
		}
		if opts.KeepInputOrder {
			return false
		}
		return a.RankID() < b.RankID()
	})

	if len(eligible) > opts.Limit {
		eligible = eligible[:opts.Limit]
	}
	return eligible
}
