package tui

import (
	"fmt"
	"strings"

	"storyweave/internal/catalog"
	"storyweave/internal/model"
	"storyweave/internal/nav"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const trendingCount = 4

type landingState struct {
	trending []model.Story
}

func (m *appModel) enterLanding() {
	m.landing.trending = trending(m.ctrl.Catalog().All())
}

// trending is the most-read stories, at most trendingCount.
func trending(stories []model.Story) []model.Story {
	top := catalog.Query{Sort: catalog.SortPopularity}.Apply(stories)
	if len(top) > trendingCount {
		top = top[:trendingCount]
	}
	return top
}

func (m *appModel) updateLanding(msg tea.KeyMsg) tea.Cmd {
	switch k := msg.String(); k {
	case "b", "enter":
		m.ctrl.NavigateTo(nav.Browse())
	case "w":
		m.ctrl.StartWriting()
	case "l":
		m.ctrl.Open(nav.Library())
	case "p":
		m.ctrl.Open(nav.Profile())
	case "a":
		m.ctrl.OpenCMS()
	case "i":
		if m.ctrl.User() == nil {
			m.ctrl.NavigateTo(nav.Auth())
		}
	case "o":
		if m.ctrl.User() != nil {
			_ = m.ctrl.Logout(m.ctx)
		}
	case "1", "2", "3", "4":
		idx := int(k[0] - '1')
		if idx < len(m.landing.trending) {
			_ = m.ctrl.SelectStory(m.landing.trending[idx].ID)
		}
	}
	return nil
}

func (m appModel) viewLanding(w int) string {
	c := m.ctrl.Content()
	hero, stats, feat, cta := c.Hero, c.Stats, c.Features, c.CTA

	var b strings.Builder
	if badge := strings.TrimSpace(hero["badgeText"]); badge != "" {
		b.WriteString(styleBadge().Render(badge) + "\n\n")
	}
	b.WriteString(styleTitle().Render(hero["headlineStart"]) + " " + styleAccent().Render(hero["headlineHighlight"]) + "\n")
	b.WriteString(wrapText(hero["subheadline"], w) + "\n\n")
	b.WriteString(styleTab(true).Render("b "+hero["buttonRead"]) + "  " + styleTab(false).Render("w "+hero["buttonWrite"]) + "\n\n")

	var cells []string
	for i := 1; i <= 3; i++ {
		v := stats[fmt.Sprintf("value%d", i)]
		l := stats[fmt.Sprintf("label%d", i)]
		cells = append(cells, styleAccent().Render(v)+" "+styleMuted().Render(l))
	}
	b.WriteString(strings.Join(cells, "   ") + "\n\n")

	b.WriteString(styleTitle().Render(c.Trending["title"]) + "\n")
	for i, s := range m.landing.trending {
		b.WriteString(fmt.Sprintf("  %d  %s  %s\n", i+1, s.Title, styleMuted().Render(fmt.Sprintf("%s %s %.1f  %s reads", s.Author, glyphStar(), s.Rating, formatCount(s.Views)))))
	}
	b.WriteString("\n")

	b.WriteString(styleTitle().Render(feat["title"]) + "\n")
	b.WriteString(styleMuted().Render(feat["subtitle"]) + "\n")
	for i := 1; i <= 3; i++ {
		title := feat[fmt.Sprintf("item%dTitle", i)]
		desc := feat[fmt.Sprintf("item%dDesc", i)]
		b.WriteString("  " + glyphBullet() + " " + lipgloss.NewStyle().Bold(true).Render(title) + "  " + styleMuted().Render(desc) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(styleTitle().Render(cta["title"]) + "\n")
	b.WriteString(wrapText(cta["description"], w) + "\n")
	if m.ctrl.User() == nil {
		b.WriteString(styleTab(true).Render("i "+cta["buttonText"]) + "\n")
	}
	return b.String()
}
