package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"storyweave/internal/model"
)

type SortOrder string

const (
	SortPopularity SortOrder = "popularity"
	SortRating     SortOrder = "rating"
	SortNewest     SortOrder = "newest"
)

var SortOrders = []SortOrder{SortPopularity, SortRating, SortNewest}

func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortPopularity:
		return SortPopularity, nil
	case SortRating:
		return SortRating, nil
	case SortNewest:
		return SortNewest, nil
	}
	return "", fmt.Errorf("unknown sort order: %q (expected popularity|rating|newest)", s)
}

// Next cycles through SortOrders.
func (o SortOrder) Next() SortOrder {
	for i, s := range SortOrders {
		if s == o {
			return SortOrders[(i+1)%len(SortOrders)]
		}
	}
	return SortPopularity
}

// Query is the browse screen's filter: text search over title/author, any-of genres,
// any-of tags, and a sort order.
type Query struct {
	Search string
	Genres []model.Genre
	Tags   []string
	Sort   SortOrder
}

func (q Query) IsZero() bool {
	return strings.TrimSpace(q.Search) == "" && len(q.Genres) == 0 && len(q.Tags) == 0
}

func (q Query) Matches(s model.Story) bool {
	if needle := strings.ToLower(strings.TrimSpace(q.Search)); needle != "" {
		if !strings.Contains(strings.ToLower(s.Title), needle) && !strings.Contains(strings.ToLower(s.Author), needle) {
			return false
		}
	}
	if len(q.Genres) > 0 {
		ok := false
		for _, g := range q.Genres {
			if s.Genre == g {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(q.Tags) > 0 {
		ok := false
		for _, t := range q.Tags {
			if s.HasTag(t) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// Apply filters and sorts stories. The sort is stable so ties keep catalog order.
func (q Query) Apply(stories []model.Story) []model.Story {
	out := make([]model.Story, 0, len(stories))
	for _, s := range stories {
		if q.Matches(s) {
			out = append(out, s)
		}
	}
	switch q.Sort {
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return newerThan(out[i].ID, out[j].ID) })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	}
	return out
}

// newerThan orders numeric ids descending; ids are creation timestamps or sequence numbers.
// Non-numeric ids sort after numeric ones.
func newerThan(a, b string) bool {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		return ai > bi
	case aerr == nil:
		return true
	case berr == nil:
		return false
	}
	return a > b
}

// Genres returns the distinct genres present, sorted.
func Genres(stories []model.Story) []model.Genre {
	seen := map[model.Genre]bool{}
	var out []model.Genre
	for _, s := range stories {
		if !seen[s.Genre] {
			seen[s.Genre] = true
			out = append(out, s.Genre)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Tags returns the distinct tags present, sorted.
func Tags(stories []model.Story) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range stories {
		for _, t := range s.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Trending returns the n most viewed stories.
func Trending(stories []model.Story, n int) []model.Story {
	out := Query{Sort: SortPopularity}.Apply(stories)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
