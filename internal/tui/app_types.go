package tui

import (
	"storyweave/internal/ai"
	"storyweave/internal/model"
	"storyweave/internal/nav"
	"storyweave/internal/session"
)

// sessionChangedMsg is sent by the session adapter when someone signs in or out.
type sessionChangedMsg struct{ user *model.User }

// contentChangedMsg is sent by the file watcher when the database changed on disk.
type contentChangedMsg struct{}

type toastExpiredMsg struct{ seq int }

type aiOp int

const (
	aiOpSummarize aiOp = iota
	aiOpIdea
	aiOpAutoTag
	aiOpModerate
)

func (o aiOp) label() string {
	switch o {
	case aiOpSummarize:
		return "Summarizing"
	case aiOpIdea:
		return "Thinking"
	case aiOpAutoTag:
		return "Tagging"
	case aiOpModerate:
		return "Checking content"
	}
	return "Working"
}

// aiResultMsg carries the result of one assistant call. seq identifies the
// request; results for anything but the latest request are dropped.
type aiResultMsg struct {
	seq     int
	op      aiOp
	screen  nav.Screen
	chapter int

	text    string
	tags    ai.TagSuggestion
	verdict ai.Verdict
	err     error
}

type authResultMsg struct {
	admin  bool
	signUp bool
	result session.SignUpResult
	err    error
}
