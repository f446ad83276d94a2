package library

import "sort"

// SavedSet is the set of story ids the current user has bookmarked.
type SavedSet map[string]struct{}

func NewSavedSet(ids ...string) SavedSet {
	s := SavedSet{}
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s SavedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle flips membership and returns the new membership.
func (s SavedSet) Toggle(id string) bool {
	if s.Has(id) {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

func (s SavedSet) Remove(id string) {
	delete(s, id)
}

// IDs returns the members sorted, for stable output and persistence.
func (s SavedSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s SavedSet) Clone() SavedSet {
	out := make(SavedSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Progress maps story id -> last viewed chapter index.
// A missing entry means "start at chapter 0".
type Progress map[string]int

// Get returns the stored index.
func (p Progress) Get(storyID string) (int, bool) {
	idx, ok := p[storyID]
	return idx, ok
}

// Resume returns the stored index or 0.
func (p Progress) Resume(storyID string) int {
	return p[storyID]
}

// Set upserts the entry; negative indexes are clamped to 0.
func (p Progress) Set(storyID string, idx int) {
	if idx < 0 {
		idx = 0
	}
	p[storyID] = idx
}

func (p Progress) Delete(storyID string) {
	delete(p, storyID)
}

func (p Progress) Clone() Progress {
	out := make(Progress, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
