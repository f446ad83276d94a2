package nav

import (
	"fmt"
	"strings"
)

// Kind is the closed set of screens the application can display.
type Kind int

const (
	KindLanding Kind = iota
	KindBrowse
	KindStoryDetail
	KindReading
	KindEditor
	KindAuth
	KindProfile
	KindLibrary
	KindAdminLogin
	KindCMS
	KindAuthorDashboard
)

var kindNames = map[Kind]string{
	KindLanding:         "landing",
	KindBrowse:          "browse",
	KindStoryDetail:     "story-detail",
	KindReading:         "reading",
	KindEditor:          "editor",
	KindAuth:            "auth",
	KindProfile:         "profile",
	KindLibrary:         "library",
	KindAdminLogin:      "admin-login",
	KindCMS:             "cms",
	KindAuthorDashboard: "author-dashboard",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindLanding, fmt.Errorf("unknown screen: %q", s)
}

// Screen is a tagged variant: Kind plus only the data that kind needs.
// Story-bound kinds (detail, reading, editor) carry the story id instead of
// sharing a mutable selection, so a deleted story can never be "selected".
//
// Screens are comparable; two screens are the same destination iff they are ==.
type Screen struct {
	Kind Kind
	// StoryID is set for detail and reading, and for editor when editing an existing story.
	StoryID string
	// ChapterIndex is the reader's start index (reading only).
	ChapterIndex int
}

func Landing() Screen         { return Screen{Kind: KindLanding} }
func Browse() Screen          { return Screen{Kind: KindBrowse} }
func Auth() Screen            { return Screen{Kind: KindAuth} }
func Profile() Screen         { return Screen{Kind: KindProfile} }
func Library() Screen         { return Screen{Kind: KindLibrary} }
func AdminLogin() Screen      { return Screen{Kind: KindAdminLogin} }
func CMS() Screen             { return Screen{Kind: KindCMS} }
func AuthorDashboard() Screen { return Screen{Kind: KindAuthorDashboard} }

func StoryDetail(storyID string) Screen {
	return Screen{Kind: KindStoryDetail, StoryID: storyID}
}

func Reading(storyID string, chapterIndex int) Screen {
	if chapterIndex < 0 {
		chapterIndex = 0
	}
	return Screen{Kind: KindReading, StoryID: storyID, ChapterIndex: chapterIndex}
}

// Editor returns the editor screen; an empty storyID means "new story".
func Editor(storyID string) Screen {
	return Screen{Kind: KindEditor, StoryID: storyID}
}

// Refers reports whether the screen is bound to the given story.
func (s Screen) Refers(storyID string) bool {
	return storyID != "" && s.StoryID == storyID
}

// RequiresUser reports whether the screen is a write screen gated behind login.
func (s Screen) RequiresUser() bool {
	switch s.Kind {
	case KindEditor, KindAuthorDashboard, KindProfile:
		return true
	}
	return false
}

func (s Screen) String() string {
	switch s.Kind {
	case KindStoryDetail:
		return fmt.Sprintf("%s(%s)", s.Kind, s.StoryID)
	case KindReading:
		return fmt.Sprintf("%s(%s@%d)", s.Kind, s.StoryID, s.ChapterIndex)
	case KindEditor:
		if s.StoryID == "" {
			return "editor(new)"
		}
		return fmt.Sprintf("%s(%s)", s.Kind, s.StoryID)
	}
	return s.Kind.String()
}
