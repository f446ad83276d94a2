package catalog

import (
	"errors"
	"fmt"
	"strings"

	"storyweave/internal/model"
)

var ErrDuplicateID = errors.New("duplicate story id")

// Catalog is the ordered in-memory collection of stories, newest first.
//
// It is not safe for concurrent use; the controller owns it and runs on the UI loop.
type Catalog struct {
	stories []model.Story
}

func New(stories ...model.Story) *Catalog {
	c := &Catalog{}
	for _, s := range stories {
		c.stories = append(c.stories, s.Clone())
	}
	return c
}

func (c *Catalog) Len() int { return len(c.stories) }

func (c *Catalog) index(id string) int {
	for i := range c.stories {
		if c.stories[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns a copy of the story with id.
func (c *Catalog) Get(id string) (model.Story, bool) {
	i := c.index(strings.TrimSpace(id))
	if i < 0 {
		return model.Story{}, false
	}
	return c.stories[i].Clone(), true
}

func (c *Catalog) Has(id string) bool {
	return c.index(id) >= 0
}

// All returns copies of every story in catalog order.
func (c *Catalog) All() []model.Story {
	return c.Filter(nil)
}

// Filter returns copies of the stories matching keep (nil keeps all), in catalog order.
func (c *Catalog) Filter(keep func(model.Story) bool) []model.Story {
	out := make([]model.Story, 0, len(c.stories))
	for _, s := range c.stories {
		if keep != nil && !keep(s) {
			continue
		}
		out = append(out, s.Clone())
	}
	return out
}

// Insert prepends a new story; the id must be unused.
func (c *Catalog) Insert(s model.Story) error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("story id is empty")
	}
	if c.Has(s.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicateID, s.ID)
	}
	c.stories = append([]model.Story{s.Clone()}, c.stories...)
	return nil
}

// Upsert replaces the story with the same id in place, or prepends it when absent.
// It reports whether an insert happened.
func (c *Catalog) Upsert(s model.Story) (inserted bool, err error) {
	if i := c.index(s.ID); i >= 0 {
		c.stories[i] = s.Clone()
		return false, nil
	}
	if err := c.Insert(s); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes the story with id and reports whether it existed.
func (c *Catalog) Remove(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.stories = append(c.stories[:i], c.stories[i+1:]...)
	return true
}

// ByAuthor returns stories whose author matches any of names (blank names ignored).
func (c *Catalog) ByAuthor(names ...string) []model.Story {
	want := map[string]bool{}
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			want[n] = true
		}
	}
	if len(want) == 0 {
		return []model.Story{}
	}
	return c.Filter(func(s model.Story) bool { return want[s.Author] })
}

// ByIDs returns stories whose id is in ids, in catalog order.
func (c *Catalog) ByIDs(has func(id string) bool) []model.Story {
	if has == nil {
		return []model.Story{}
	}
	return c.Filter(func(s model.Story) bool { return has(s.ID) })
}
