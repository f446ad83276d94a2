package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	tagInputLimit      = 1000
	summaryInputLimit  = 2000
	moderateInputLimit = 500
)

// generator is the single call Gemini makes; tests replace it.
type generator interface {
	generate(ctx context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (string, error)
}

type genaiGenerator struct {
	client *genai.Client
}

func (g genaiGenerator) generate(ctx context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Gemini calls the Google Gemini API.
type Gemini struct {
	gen   generator
	model string
	log   *zap.Logger
}

func NewGemini(ctx context.Context, apiKey, model string, log *zap.Logger) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGemini(genaiGenerator{client: client}, model, log), nil
}

func newGemini(gen generator, model string, log *zap.Logger) *Gemini {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Gemini{gen: gen, model: model, log: log}
}

func (g *Gemini) Name() string { return "gemini:" + g.model }

func ideaPrompt(kind IdeaKind, input string) string {
	switch kind {
	case IdeaTwist:
		return fmt.Sprintf("Suggest a shocking plot twist for a story involving: %s.", input)
	case IdeaRewrite:
		return fmt.Sprintf("Rewrite the following text to be more descriptive and engaging: %q", input)
	}
	return fmt.Sprintf("Create a brief story outline based on these keywords: %s. Keep it under 200 words.", input)
}

func (g *Gemini) GenerateIdea(ctx context.Context, input string, kind IdeaKind) (string, error) {
	out, err := g.gen.generate(ctx, g.model, ideaPrompt(kind, input), nil)
	if err != nil {
		g.log.Warn("idea generation failed", zap.String("kind", string(kind)), zap.Error(err))
		return "", fmt.Errorf("generate %s: %w", kind, err)
	}
	if strings.TrimSpace(out) == "" {
		return "No response generated.", nil
	}
	return strings.TrimSpace(out), nil
}

var tagSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"genre": {Type: genai.TypeString},
		"tags":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"genre", "tags"},
}

// AutoTag never fails on provider errors; it returns DefaultTags instead.
func (g *Gemini) AutoTag(ctx context.Context, content string) (TagSuggestion, error) {
	prompt := fmt.Sprintf("Analyze this story snippet: %q... Return a JSON object with a single \"genre\" string and an array of 5 \"tags\".",
		truncate(content, tagInputLimit))
	out, err := g.gen.generate(ctx, g.model, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   tagSchema,
	})
	if err != nil {
		if ctx.Err() != nil {
			return TagSuggestion{}, ctx.Err()
		}
		g.log.Warn("auto-tag failed; using defaults", zap.Error(err))
		return DefaultTags(), nil
	}
	var s TagSuggestion
	if err := json.Unmarshal([]byte(out), &s); err != nil || strings.TrimSpace(s.Genre) == "" {
		g.log.Warn("auto-tag returned malformed JSON; using defaults", zap.Error(err))
		return DefaultTags(), nil
	}
	return s, nil
}

func (g *Gemini) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf("Summarize this text in 3 bullet points for a reader catching up: %q...", truncate(text, summaryInputLimit))
	out, err := g.gen.generate(ctx, g.model, prompt, nil)
	if err != nil {
		g.log.Warn("summarize failed", zap.Error(err))
		return "", fmt.Errorf("summarize: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return "No summary available.", nil
	}
	return strings.TrimSpace(out), nil
}

var verdictSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"approved": {Type: genai.TypeBoolean},
		"reason":   {Type: genai.TypeString},
	},
	Required: []string{"approved"},
}

// Moderate asks for a structured verdict and falls back to the free-text rule
// when the answer is not valid JSON.
func (g *Gemini) Moderate(ctx context.Context, text string) (Verdict, error) {
	prompt := fmt.Sprintf("Review this text for severe violence or explicit content. "+
		"Respond with JSON: \"approved\" true if safe; otherwise false and a brief \"reason\". Text: %q...",
		truncate(text, moderateInputLimit))
	out, err := g.gen.generate(ctx, g.model, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   verdictSchema,
	})
	if err != nil {
		g.log.Warn("moderation failed", zap.Error(err))
		return Verdict{}, fmt.Errorf("moderate: %w", err)
	}
	var v Verdict
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		return ParseVerdictText(out), nil
	}
	if v.Approved && v.Reason == "" {
		v.Reason = "Approved"
	}
	return v, nil
}
