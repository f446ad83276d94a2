package catalog

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"storyweave/internal/model"
)

// DefaultSeedSize is the number of mock stories generated at startup.
const DefaultSeedSize = 50

var (
	seedGenres   = []model.Genre{model.GenreSciFi, model.GenreRomance, model.GenreMystery, model.GenreHorror}
	titlePrefix  = []string{"The", "A", "Lost", "Eternal", "Dark", "Silent", "Broken", "Hidden", "Last", "First"}
	titleNoun    = []string{"Star", "Heart", "Code", "Shadow", "Empire", "Memory", "Echo", "Void", "Prophecy", "Secret", "Labyrinth", "Signal"}
	seedAuthors  = []string{"Elara Vance", "Jaxon Cole", "Sarah Jenkins", "Mike T.", "A. R. Winter", "Elena Vance", "Marcus Thorne"}
	chapterNames = []string{"The Beginning", "The Conflict", "The Twist", "The Journey", "The Revelation"}

	genreTags = map[model.Genre][]string{
		model.GenreSciFi:   {"Space", "Cyberpunk", "AI", "Dystopia", "Aliens"},
		model.GenreRomance: {"Drama", "Love", "Slice of Life", "Contemporary", "Slow Burn"},
		model.GenreMystery: {"Detective", "Thriller", "Crime", "Noir", "Suspense"},
		model.GenreHorror:  {"Supernatural", "Gore", "Psychological", "Ghosts", "Survival"},
	}
)

const fillerText = "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat. "

// Seed generates n mock stories with ids "1".."n". The same rng seed yields the same catalog.
func Seed(rng *rand.Rand, n int) []model.Story {
	if n <= 0 {
		return []model.Story{}
	}
	out := make([]model.Story, 0, n)
	for i := 1; i <= n; i++ {
		genre := seedGenres[rng.Intn(len(seedGenres))]
		title := titlePrefix[rng.Intn(len(titlePrefix))] + " " + titleNoun[rng.Intn(len(titleNoun))]
		chapterCount := rng.Intn(10) + 3

		pool := append([]string(nil), genreTags[genre]...)
		rng.Shuffle(len(pool), func(a, b int) { pool[a], pool[b] = pool[b], pool[a] })
		tags := pool[:3]

		out = append(out, model.Story{
			ID:       strconv.Itoa(i),
			Title:    title,
			Author:   seedAuthors[rng.Intn(len(seedAuthors))],
			CoverURL: fmt.Sprintf("https://picsum.photos/300/450?random=%d", i),
			Genre:    genre,
			Tags:     tags,
			Summary: fmt.Sprintf("A gripping %s story about %s and %s. Join the protagonist as they navigate through challenges in a world defined by %s.",
				genre, strings.ToLower(tags[0]), strings.ToLower(tags[1]), strings.ToLower(tags[2])),
			Rating:    math.Round((rng.Float64()*2+3)*10) / 10,
			Views:     rng.Intn(50000) + 1000,
			Chapters:  seedChapters(chapterCount, genre),
			Completed: rng.Float64() > 0.5,
		})
	}
	return out
}

func seedChapters(count int, genre model.Genre) []model.Chapter {
	out := make([]model.Chapter, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, model.Chapter{
			ID:      fmt.Sprintf("ch-%d", i+1),
			Title:   fmt.Sprintf("Chapter %d: %s", i+1, chapterNames[i%len(chapterNames)]),
			Content: seedContent(genre, i+1),
		})
	}
	return out
}

func seedContent(genre model.Genre, chapterNum int) string {
	mood := "mystery"
	switch genre {
	case model.GenreHorror:
		mood = "dread"
	case model.GenreRomance:
		mood = "longing"
	}
	thing := "shadow"
	if genre == model.GenreSciFi {
		thing = "system"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Chapter %d begins with a sudden realization. ", chapterNum)
	fmt.Fprintf(&b, "The atmosphere was heavy with %s. ", mood)
	fmt.Fprintf(&b, "They knew they couldn't turn back now. The %s was closing in.\n\n", thing)
	for i := 0; i < 10; i++ {
		b.WriteString(fillerText)
		if i%3 == 2 {
			b.WriteString("\n\n")
		}
	}
	return strings.TrimSpace(b.String())
}
