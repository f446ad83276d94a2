package ai

import (
	"context"
	"time"
)

const (
	StubOutline = "AI Configuration missing."
	StubTwist   = "Suddenly, the ancient artifact wasn't a weapon, but a key to a prison holding something far worse."
	StubRewrite = "The darkness wasn't just an absence of light; it was a living, breathing entity that wrapped around him like a cold shroud."
	StubSummary = "Elias Blackwood encounters a massive Leviathan in the storm. The creature seems to be communicating, or perhaps waiting. The lighthouse beacon reveals its massive eye staring back."
)

// Stub answers every request with fixed text after Delay.
type Stub struct {
	Delay time.Duration
}

func NewStub(delay time.Duration) *Stub { return &Stub{Delay: delay} }

func (s *Stub) Name() string { return "stub" }

func (s *Stub) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Stub) GenerateIdea(ctx context.Context, _ string, kind IdeaKind) (string, error) {
	if err := s.wait(ctx, s.Delay); err != nil {
		return "", err
	}
	switch kind {
	case IdeaTwist:
		return StubTwist, nil
	case IdeaRewrite:
		return StubRewrite, nil
	}
	return StubOutline, nil
}

func (s *Stub) AutoTag(ctx context.Context, _ string) (TagSuggestion, error) {
	if err := s.wait(ctx, s.Delay*2/3); err != nil {
		return TagSuggestion{}, err
	}
	return TagSuggestion{Genre: "Fantasy", Tags: []string{"Magic", "Adventure", "Generated"}}, nil
}

func (s *Stub) Summarize(ctx context.Context, _ string) (string, error) {
	if err := s.wait(ctx, s.Delay); err != nil {
		return "", err
	}
	return StubSummary, nil
}

func (s *Stub) Moderate(ctx context.Context, _ string) (Verdict, error) {
	if err := s.wait(ctx, s.Delay*2/3); err != nil {
		return Verdict{}, err
	}
	return ParseVerdictText("Approved"), nil
}
