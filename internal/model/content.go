package model

// Section is one named group of landing page copy (field name -> text).
type Section map[string]string

// LandingContent is the editable marketing copy shown on the landing screen.
type LandingContent struct {
	General  Section `json:"general"`
	Hero     Section `json:"hero"`
	Stats    Section `json:"stats"`
	Trending Section `json:"trending"`
	Features Section `json:"features"`
	CTA      Section `json:"cta"`
}

// SectionNames lists the sections in CMS tab order.
var SectionNames = []string{"general", "hero", "stats", "trending", "features", "cta"}

// SectionFields lists the fields of each section in display order.
var SectionFields = map[string][]string{
	"general":  {"logoText", "primaryColor", "secondaryColor"},
	"hero":     {"backgroundImage", "badgeText", "headlineStart", "headlineHighlight", "subheadline", "buttonRead", "buttonWrite"},
	"stats":    {"label1", "value1", "label2", "value2", "label3", "value3"},
	"trending": {"title"},
	"features": {"title", "subtitle", "item1Title", "item1Desc", "item2Title", "item2Desc", "item3Title", "item3Desc"},
	"cta":      {"backgroundImage", "title", "description", "buttonText"},
}

// Section returns the named section (nil for unknown names).
func (c LandingContent) Section(name string) Section {
	switch name {
	case "general":
		return c.General
	case "hero":
		return c.Hero
	case "stats":
		return c.Stats
	case "trending":
		return c.Trending
	case "features":
		return c.Features
	case "cta":
		return c.CTA
	}
	return nil
}

func (c *LandingContent) setSection(name string, s Section) bool {
	switch name {
	case "general":
		c.General = s
	case "hero":
		c.Hero = s
	case "stats":
		c.Stats = s
	case "trending":
		c.Trending = s
	case "features":
		c.Features = s
	case "cta":
		c.CTA = s
	default:
		return false
	}
	return true
}

// Get returns a single field value.
func (c LandingContent) Get(section, field string) (string, bool) {
	s := c.Section(section)
	if s == nil {
		return "", false
	}
	v, ok := s[field]
	return v, ok
}

// With returns a copy of c with section.field set to value.
// Unknown sections are rejected; unknown fields are accepted (sections are open maps).
func (c LandingContent) With(section, field, value string) (LandingContent, bool) {
	out := c.Clone()
	s := out.Section(section)
	if s == nil {
		if !out.setSection(section, Section{}) {
			return c, false
		}
		s = out.Section(section)
	}
	s[field] = value
	return out, true
}

func (c LandingContent) Clone() LandingContent {
	var out LandingContent
	for _, name := range SectionNames {
		src := c.Section(name)
		if src == nil {
			continue
		}
		dst := make(Section, len(src))
		for k, v := range src {
			dst[k] = v
		}
		out.setSection(name, dst)
	}
	return out
}

// MergeDefaults fills missing sections and fields of c from def.
func (c LandingContent) MergeDefaults(def LandingContent) LandingContent {
	out := c.Clone()
	for _, name := range SectionNames {
		d := def.Section(name)
		cur := out.Section(name)
		if cur == nil {
			cur = Section{}
			out.setSection(name, cur)
		}
		for k, v := range d {
			if _, ok := cur[k]; !ok {
				cur[k] = v
			}
		}
	}
	return out
}

// DefaultLandingContent returns the compiled-in landing copy.
func DefaultLandingContent() LandingContent {
	return LandingContent{
		General: Section{
			"logoText":       "StoryWeave",
			"primaryColor":   "indigo",
			"secondaryColor": "purple",
		},
		Hero: Section{
			"backgroundImage":   "https://images.unsplash.com/photo-1490730141103-6cac27aaab94?q=80&w=2070&auto=format&fit=crop",
			"badgeText":         "The Future of Storytelling is Here",
			"headlineStart":     "Dream. Write.",
			"headlineHighlight": "Inspire.",
			"subheadline":       "Weave your imagination into reality with AI-powered tools and a community of dreamers.",
			"buttonRead":        "Start Reading",
			"buttonWrite":       "Start Writing",
		},
		Stats: Section{
			"label1": "Stories",
			"value1": "150k+",
			"label2": "Readers",
			"value2": "2M+",
			"label3": "Authors",
			"value3": "50k+",
		},
		Trending: Section{
			"title": "Trending Dreams",
		},
		Features: Section{
			"title":      "Why StoryWeave?",
			"subtitle":   "Tools designed to turn your daydreams into bestsellers.",
			"item1Title": "Dreamy Editor",
			"item1Desc":  "A distraction-free canvas enhanced with AI that understands your creative flow.",
			"item2Title": "Community",
			"item2Desc":  "Connect with souls who share your passion. Feedback that helps you grow.",
			"item3Title": "Immersive Reading",
			"item3Desc":  "Customize your reading experience to match the mood of the story.",
		},
		CTA: Section{
			"backgroundImage": "https://www.transparenttextures.com/patterns/stardust.png",
			"title":           "Start Your Journey",
			"description":     "Join a sanctuary for imagination. Write, read, and dream with us.",
			"buttonText":      "Join for Free",
		},
	}
}
