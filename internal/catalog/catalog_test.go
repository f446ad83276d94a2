package catalog

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"storyweave/internal/model"
)

func story(id, author string) model.Story {
	return model.Story{
		ID:       id,
		Title:    "Story " + id,
		Author:   author,
		Genre:    model.GenreMystery,
		Tags:     []string{"Noir"},
		Chapters: []model.Chapter{{ID: "c1", Title: "One", Content: "text"}},
	}
}

func ids(stories []model.Story) []string {
	out := []string{}
	for _, s := range stories {
		out = append(out, s.ID)
	}
	return out
}

func TestUpsert_InsertPrependsAndReplaceKeepsPosition(t *testing.T) {
	t.Parallel()

	c := New(story("1", "a"), story("2", "b"), story("3", "c"))

	inserted, err := c.Upsert(story("9", "you"))
	if err != nil || !inserted {
		t.Fatalf("expected insert, got inserted=%v err=%v", inserted, err)
	}
	if got := ids(c.All()); !reflect.DeepEqual(got, []string{"9", "1", "2", "3"}) {
		t.Fatalf("unexpected order: %v", got)
	}

	edited := story("2", "b")
	edited.Title = "Renamed"
	inserted, err = c.Upsert(edited)
	if err != nil || inserted {
		t.Fatalf("expected replace, got inserted=%v err=%v", inserted, err)
	}
	if got := ids(c.All()); !reflect.DeepEqual(got, []string{"9", "1", "2", "3"}) {
		t.Fatalf("replace moved the story: %v", got)
	}
	got, _ := c.Get("2")
	if got.Title != "Renamed" {
		t.Fatalf("expected replaced title, got %q", got.Title)
	}
}

func TestUpsert_IdempotentForSameRecord(t *testing.T) {
	t.Parallel()

	c := New(story("1", "a"))
	s := story("2", "b")
	if _, err := c.Upsert(s); err != nil {
		t.Fatal(err)
	}
	n := c.Len()
	first, _ := c.Get("2")
	if _, err := c.Upsert(s); err != nil {
		t.Fatal(err)
	}
	second, _ := c.Get("2")
	if c.Len() != n {
		t.Fatalf("expected len %d, got %d", n, c.Len())
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("record changed:\n%#v\n%#v", first, second)
	}
}

func TestInsert_RejectsDuplicate(t *testing.T) {
	t.Parallel()

	c := New(story("1", "a"))
	if err := c.Insert(story("1", "b")); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if err := c.Insert(story("", "b")); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	t.Parallel()

	c := New(story("1", "a"))
	s, _ := c.Get("1")
	s.Tags[0] = "mutated"
	s.Chapters[0].Title = "mutated"
	again, _ := c.Get("1")
	if again.Tags[0] != "Noir" || again.Chapters[0].Title != "One" {
		t.Fatalf("catalog shares memory with caller: %#v", again)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	c := New(story("1", "a"), story("2", "b"))
	if !c.Remove("1") {
		t.Fatalf("expected remove to report true")
	}
	if c.Remove("1") {
		t.Fatalf("expected second remove to report false")
	}
	if got := ids(c.All()); !reflect.DeepEqual(got, []string{"2"}) {
		t.Fatalf("unexpected catalog: %v", got)
	}
}

func TestByAuthorAndByIDs(t *testing.T) {
	t.Parallel()

	c := New(story("1", "You"), story("2", "ana"), story("3", "bob"), story("4", "ana"))
	if got := ids(c.ByAuthor("ana", "You")); !reflect.DeepEqual(got, []string{"1", "2", "4"}) {
		t.Fatalf("ByAuthor: %v", got)
	}
	if got := ids(c.ByAuthor("", " ")); len(got) != 0 {
		t.Fatalf("blank names must match nothing: %v", got)
	}
	saved := map[string]bool{"3": true, "9": true}
	if got := ids(c.ByIDs(func(id string) bool { return saved[id] })); !reflect.DeepEqual(got, []string{"3"}) {
		t.Fatalf("ByIDs: %v", got)
	}
}

func TestSeed_DeterministicAndWellFormed(t *testing.T) {
	t.Parallel()

	a := Seed(rand.New(rand.NewSource(42)), DefaultSeedSize)
	b := Seed(rand.New(rand.NewSource(42)), DefaultSeedSize)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected same seed to produce same catalog")
	}
	if len(a) != DefaultSeedSize {
		t.Fatalf("expected %d stories, got %d", DefaultSeedSize, len(a))
	}
	seen := map[string]bool{}
	for _, s := range a {
		if seen[s.ID] {
			t.Fatalf("duplicate id %s", s.ID)
		}
		seen[s.ID] = true
		if n := len(s.Chapters); n < 3 || n > 12 {
			t.Fatalf("story %s has %d chapters", s.ID, n)
		}
		if s.Rating < 3.0 || s.Rating > 5.0 {
			t.Fatalf("story %s rating %v out of range", s.ID, s.Rating)
		}
		if s.Views < 1000 || s.Views >= 51000 {
			t.Fatalf("story %s views %d out of range", s.ID, s.Views)
		}
		if len(s.Tags) != 3 {
			t.Fatalf("story %s has %d tags", s.ID, len(s.Tags))
		}
		for _, tag := range s.Tags {
			found := false
			for _, want := range genreTags[s.Genre] {
				if tag == want {
					found = true
				}
			}
			if !found {
				t.Fatalf("story %s tag %q not in %s pool", s.ID, tag, s.Genre)
			}
		}
	}
}
