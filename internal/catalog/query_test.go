package catalog

import (
	"reflect"
	"testing"

	"storyweave/internal/model"
)

func browseFixture() []model.Story {
	return []model.Story{
		{ID: "1", Title: "The Star", Author: "Elara Vance", Genre: model.GenreSciFi, Tags: []string{"Space", "AI"}, Rating: 4.1, Views: 100},
		{ID: "2", Title: "Dark Heart", Author: "Jaxon Cole", Genre: model.GenreRomance, Tags: []string{"Love"}, Rating: 4.9, Views: 300},
		{ID: "10", Title: "Hidden Code", Author: "Sarah Jenkins", Genre: model.GenreMystery, Tags: []string{"Noir", "AI"}, Rating: 3.2, Views: 200},
		{ID: "draft", Title: "Untitled", Author: "You", Genre: model.GenreFantasy, Rating: 0, Views: 0},
	}
}

func TestQuery_Apply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{name: "default popularity", q: Query{}, want: []string{"2", "10", "1", "draft"}},
		{name: "rating", q: Query{Sort: SortRating}, want: []string{"2", "1", "10", "draft"}},
		{name: "newest numeric first", q: Query{Sort: SortNewest}, want: []string{"10", "2", "1", "draft"}},
		{name: "search title case-insensitive", q: Query{Search: "heart"}, want: []string{"2"}},
		{name: "search author", q: Query{Search: "vance"}, want: []string{"1"}},
		{name: "genre any-of", q: Query{Genres: []model.Genre{model.GenreSciFi, model.GenreMystery}}, want: []string{"10", "1"}},
		{name: "tag any-of", q: Query{Tags: []string{"AI", "Love"}}, want: []string{"2", "10", "1"}},
		{name: "combined", q: Query{Search: "code", Tags: []string{"AI"}}, want: []string{"10"}},
		{name: "no match", q: Query{Search: "zzz"}, want: []string{}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ids(tc.q.Apply(browseFixture())); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestFacets(t *testing.T) {
	t.Parallel()

	stories := browseFixture()
	if got := Genres(stories); !reflect.DeepEqual(got, []model.Genre{model.GenreFantasy, model.GenreMystery, model.GenreRomance, model.GenreSciFi}) {
		t.Fatalf("genres: %v", got)
	}
	if got := Tags(stories); !reflect.DeepEqual(got, []string{"AI", "Love", "Noir", "Space"}) {
		t.Fatalf("tags: %v", got)
	}
	if got := ids(Trending(stories, 2)); !reflect.DeepEqual(got, []string{"2", "10"}) {
		t.Fatalf("trending: %v", got)
	}
}

func TestParseSortOrder(t *testing.T) {
	t.Parallel()

	if o, err := ParseSortOrder(""); err != nil || o != SortPopularity {
		t.Fatalf("empty: %v %v", o, err)
	}
	if o, err := ParseSortOrder("Rating"); err != nil || o != SortRating {
		t.Fatalf("rating: %v %v", o, err)
	}
	if _, err := ParseSortOrder("alphabetical"); err == nil {
		t.Fatalf("expected error")
	}
	if SortNewest.Next() != SortPopularity {
		t.Fatalf("expected cycle to wrap")
	}
}
