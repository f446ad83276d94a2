// Package perm holds the access rules shared by the TUI and the CLI.
package perm

import (
	"strings"

	"storyweave/internal/model"
)

// AuthorNames are the author values a user owns: stories written locally
// ("You") and stories under the user's display name.
func AuthorNames(u *model.User) []string {
	names := []string{model.NewStoryAuthor}
	if u == nil {
		return names
	}
	if n := strings.TrimSpace(u.Name); n != "" && n != model.NewStoryAuthor {
		names = append(names, n)
	}
	return names
}

// CanEditStory enforces StoryWeave ownership rules for opening a story in the editor.
//
// Rules:
//   - Anonymous users cannot edit.
//   - A signed-in user can edit stories created on this device and stories
//     whose author matches their display name.
//   - Admins manage landing content, not other authors' stories.
func CanEditStory(u *model.User, s model.Story) bool {
	if u == nil {
		return false
	}
	for _, n := range AuthorNames(u) {
		if s.Author == n {
			return true
		}
	}
	return false
}

// CanManageContent reports whether u may open the CMS and change landing copy.
func CanManageContent(u *model.User) bool {
	return u != nil && u.IsAdmin
}
