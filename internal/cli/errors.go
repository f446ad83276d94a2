package cli

import (
	"errors"
	"fmt"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

var (
	errSignInRequired = errors.New("sign in required (run `storyweave auth login`)")
	errAdminRequired  = errors.New("admin access required (sign in with an admin account)")
)

func errNotOwner(id string) error {
	return fmt.Errorf("story %s belongs to another author", id)
}

func errInvalidChapter(arg string) error {
	return fmt.Errorf("invalid chapter index: %s", arg)
}
