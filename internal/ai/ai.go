// Package ai is the writing assistant: idea generation, auto-tagging,
// summaries and moderation. New picks the implementation once at startup.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storyweave/internal/logging"

	"go.uber.org/zap"
)

type IdeaKind string

const (
	IdeaOutline IdeaKind = "outline"
	IdeaTwist   IdeaKind = "twist"
	IdeaRewrite IdeaKind = "rewrite"
)

func ParseIdeaKind(s string) (IdeaKind, error) {
	switch k := IdeaKind(strings.ToLower(strings.TrimSpace(s))); k {
	case IdeaOutline, IdeaTwist, IdeaRewrite:
		return k, nil
	}
	return "", fmt.Errorf("unknown idea kind: %q (expected outline|twist|rewrite)", s)
}

type TagSuggestion struct {
	Genre string   `json:"genre"`
	Tags  []string `json:"tags"`
}

// DefaultTags is returned by AutoTag when the provider fails.
func DefaultTags() TagSuggestion {
	return TagSuggestion{Genre: "Fantasy", Tags: []string{"Adventure", "Magic"}}
}

type Verdict struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

// ParseVerdictText classifies a free-text moderation answer: any occurrence of
// "Approved" passes. "Approved, but borderline" therefore passes too.
func ParseVerdictText(s string) Verdict {
	s = strings.TrimSpace(s)
	return Verdict{Approved: strings.Contains(s, "Approved"), Reason: s}
}

// Assistant is implemented by Stub and Gemini.
type Assistant interface {
	GenerateIdea(ctx context.Context, context string, kind IdeaKind) (string, error)
	AutoTag(ctx context.Context, content string) (TagSuggestion, error)
	Summarize(ctx context.Context, text string) (string, error)
	Moderate(ctx context.Context, text string) (Verdict, error)
	Name() string
}

const DefaultModel = "gemini-2.5-flash"

type Config struct {
	APIKey string
	Model  string
	// MockDelay is the stub's artificial latency.
	MockDelay time.Duration
}

// New returns Gemini when an API key is configured and the client can be built,
// otherwise the Stub.
func New(ctx context.Context, cfg Config, log *zap.Logger) Assistant {
	log = logging.OrNop(log)
	if strings.TrimSpace(cfg.APIKey) == "" {
		log.Debug("no AI API key configured; using stub assistant")
		return NewStub(cfg.MockDelay)
	}
	g, err := NewGemini(ctx, cfg.APIKey, cfg.Model, log)
	if err != nil {
		log.Warn("failed to create Gemini client; using stub assistant", zap.Error(err))
		return NewStub(cfg.MockDelay)
	}
	return g
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
