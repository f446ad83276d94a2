package perm

import (
	"testing"

	"storyweave/internal/model"
)

func TestCanEditStory_Ownership(t *testing.T) {
	ada := &model.User{ID: "u1", Name: "ada", IsAuthor: true}

	local := model.Story{ID: "1", Author: model.NewStoryAuthor}
	own := model.Story{ID: "2", Author: "ada"}
	other := model.Story{ID: "3", Author: "Elena Fisher"}

	if CanEditStory(nil, local) {
		t.Fatalf("expected anonymous edit to be denied")
	}
	if !CanEditStory(ada, local) {
		t.Fatalf("expected locally created story to be editable")
	}
	if !CanEditStory(ada, own) {
		t.Fatalf("expected story under the user's name to be editable")
	}
	if CanEditStory(ada, other) {
		t.Fatalf("expected another author's story to be read-only")
	}

	admin := &model.User{ID: "u2", Name: "root", IsAdmin: true}
	if CanEditStory(admin, other) {
		t.Fatalf("admin rights must not grant story edits")
	}
}

func TestAuthorNames(t *testing.T) {
	if got := AuthorNames(nil); len(got) != 1 || got[0] != model.NewStoryAuthor {
		t.Fatalf("unexpected names for anonymous: %v", got)
	}
	if got := AuthorNames(&model.User{Name: "  "}); len(got) != 1 {
		t.Fatalf("blank name should not be an author: %v", got)
	}
	if got := AuthorNames(&model.User{Name: "ada"}); len(got) != 2 || got[1] != "ada" {
		t.Fatalf("unexpected names: %v", got)
	}
}

func TestCanManageContent(t *testing.T) {
	if CanManageContent(nil) {
		t.Fatalf("anonymous must not manage content")
	}
	if CanManageContent(&model.User{Name: "ada"}) {
		t.Fatalf("authors must not manage content")
	}
	if !CanManageContent(&model.User{Name: "root", IsAdmin: true}) {
		t.Fatalf("admins manage content")
	}
}
