package model

import (
	"strings"
)

type Genre string

const (
	GenreFantasy Genre = "Fantasy"
	GenreSciFi   Genre = "Sci-Fi"
	GenreRomance Genre = "Romance"
	GenreMystery Genre = "Mystery"
	GenreHorror  Genre = "Horror"
)

// Genres is the fixed set offered by the editor, in display order.
var Genres = []Genre{GenreFantasy, GenreSciFi, GenreRomance, GenreMystery, GenreHorror}

type Chapter struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Story struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CoverURL  string    `json:"coverUrl"`
	Genre     Genre     `json:"genre"`
	Tags      []string  `json:"tags"`
	Summary   string    `json:"summary"`
	Rating    float64   `json:"rating"`
	Views     int       `json:"views"`
	Chapters  []Chapter `json:"chapters"`
	Completed bool      `json:"completed"`
}

// Clone returns a deep copy; catalog readers never share slices with the catalog.
func (s Story) Clone() Story {
	out := s
	if s.Tags != nil {
		out.Tags = append([]string(nil), s.Tags...)
	}
	if s.Chapters != nil {
		out.Chapters = append([]Chapter(nil), s.Chapters...)
	}
	return out
}

func (s Story) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Chapter returns the chapter at idx, or false when idx is out of range.
func (s Story) Chapter(idx int) (Chapter, bool) {
	if idx < 0 || idx >= len(s.Chapters) {
		return Chapter{}, false
	}
	return s.Chapters[idx], true
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ParseTags splits a comma separated tag line, dropping blanks.
func ParseTags(line string) []string {
	var out []string
	for _, part := range strings.Split(line, ",") {
		t := strings.TrimSpace(part)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	IsAuthor bool   `json:"isAuthor"`
	IsAdmin  bool   `json:"isAdmin"`
}

// NewStoryAuthor is the author name the editor assigns to stories created in this session.
const NewStoryAuthor = "You"
