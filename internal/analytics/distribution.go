package analytics

import "fmt"

// RatingDomain is the ordered set of valid review ratings.
var RatingDomain = []int{1, 2, 3, 4, 5}

type Bucket struct {
	Value int
	Count int64
}

// BuildDistribution turns grouped counts into a complete histogram over
// domain, in domain order, with zero-count buckets for absent values.
// A key outside the domain is rejected so no record is silently dropped.
func BuildDistribution(counts map[int]int64, domain []int) ([]Bucket, error) {
	index := make(map[int]int, len(domain))
	buckets := make([]Bucket, len(domain))
	for i, v := range domain {
		if _, dup := index[v]; dup {
			return nil, fmt.Errorf("duplicate domain value %d", v)
		}
		index[v] = i
		buckets[i] = Bucket{Value: v}
	}

	for k, n := range counts {
		i, ok := index[k]
		if !ok {
			return nil, fmt.Errorf("value %d outside distribution domain", k)
		}
		buckets[i].Count += n
	}

	return buckets, nil
}

// Total sums the counts of all buckets.
func Total(buckets []Bucket) int64 {
	var total int64
	for _, b := range buckets {
		total += b.Count
	}
	return total
}
