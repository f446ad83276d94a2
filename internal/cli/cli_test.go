package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

type cliHarness struct {
	t   *testing.T
	dir string
}

func newHarness(t *testing.T) *cliHarness {
	t.Helper()
	t.Setenv("STORYWEAVE_CONFIG_DIR", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("STORYWEAVE_PASSWORD", "")
	// Keep the stub assistant fast.
	cfgDir := os.Getenv("STORYWEAVE_CONFIG_DIR")
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("ai:\n  mock_delay: 1ms\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return &cliHarness{t: t, dir: t.TempDir()}
}

func (h *cliHarness) args(args ...string) []string {
	return append([]string{"--dir", h.dir, "--seed", "1"}, args...)
}

func (h *cliHarness) ok(args ...string) map[string]any {
	h.t.Helper()
	stdout, stderr, err := runCLI(h.t, h.args(args...))
	if err != nil {
		h.t.Fatalf("command failed: storyweave %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		h.t.Fatalf("unmarshal stdout: %v\nstdout:\n%s", err, stdout)
	}
	if _, ok := env["data"]; !ok {
		h.t.Fatalf("expected data envelope; got %s", stdout)
	}
	return env
}

func (h *cliHarness) fails(args ...string) string {
	h.t.Helper()
	_, stderr, err := runCLI(h.t, h.args(args...))
	if err == nil {
		h.t.Fatalf("expected storyweave %v to fail", args)
	}
	return string(stderr)
}

func dataList(t *testing.T, env map[string]any) []any {
	t.Helper()
	xs, ok := env["data"].([]any)
	if !ok {
		t.Fatalf("expected list data; got %T", env["data"])
	}
	return xs
}

func dataMap(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	m, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data; got %T", env["data"])
	}
	return m
}

func containsID(xs []any, id string) bool {
	for _, x := range xs {
		if m, ok := x.(map[string]any); ok && m["id"] == id {
			return true
		}
	}
	return false
}

func TestCLI_StoriesLibraryProgressFlow(t *testing.T) {
	h := newHarness(t)

	list := h.ok("stories", "list", "--limit", "3")
	if n := len(dataList(t, list)); n != 3 {
		t.Fatalf("expected 3 stories, got %d", n)
	}
	if total := list["meta"].(map[string]any)["total"].(float64); total != 50 {
		t.Fatalf("expected seeded catalog of 50, got %v", total)
	}

	// Same seed and dir: catalog is persisted, ids are stable.
	show := h.ok("stories", "show", "1")
	title := dataMap(t, show)["title"]
	if again := dataMap(t, h.ok("stories", "show", "1"))["title"]; again != title {
		t.Fatalf("catalog not stable across commands: %v vs %v", title, again)
	}

	if stderr := h.fails("library", "toggle", "1"); !strings.Contains(stderr, "sign in required") {
		t.Fatalf("expected sign-in error; got %q", stderr)
	}

	signup := h.ok("auth", "signup", "--email", "ada@example.com", "--password", "secret1")
	if dataMap(t, signup)["needsConfirmation"] != false {
		t.Fatalf("expected immediate sign-in")
	}
	who := dataMap(t, h.ok("auth", "whoami"))
	if who["name"] != "ada" {
		t.Fatalf("unexpected whoami: %v", who)
	}

	if saved := dataMap(t, h.ok("library", "toggle", "1"))["saved"]; saved != true {
		t.Fatalf("expected saved")
	}
	if !containsID(dataList(t, h.ok("library", "list")), "1") {
		t.Fatalf("library should contain story 1")
	}

	h.ok("progress", "set", "1", "2")
	if ch := dataMap(t, h.ok("progress", "get", "1"))["chapter"]; ch != float64(2) {
		t.Fatalf("expected chapter 2, got %v", ch)
	}
	h.fails("progress", "set", "1", "999")

	h.fails("stories", "delete", "1")
	h.ok("stories", "delete", "1", "--yes")
	if containsID(dataList(t, h.ok("library", "list")), "1") {
		t.Fatalf("deleted story still in library")
	}
	if stderr := h.fails("progress", "get", "1"); !strings.Contains(stderr, "story not found: 1") {
		t.Fatalf("expected not found; got %q", stderr)
	}

	h.ok("auth", "logout")
	if who := h.ok("auth", "whoami"); who["data"] != nil {
		t.Fatalf("expected null user after logout; got %v", who["data"])
	}
	// Device state survives logout.
	h.ok("auth", "login", "--email", "ada@example.com", "--password", "secret1")
	if n := len(dataList(t, h.ok("library", "list"))); n != 0 {
		t.Fatalf("expected empty library after delete, got %d", n)
	}
}

func TestCLI_SaveStoryAndMine(t *testing.T) {
	h := newHarness(t)
	h.ok("auth", "signup", "--email", "bo@example.com", "--password", "secret1")

	file := filepath.Join(t.TempDir(), "story.json")
	body := `{"title":"Tide","genre":"Mystery","chapters":[{"id":"c1","title":"One","content":"Salt."}]}`
	if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	res := dataMap(t, h.ok("stories", "save", "--file", file))
	id, _ := res["id"].(string)
	if id == "" || res["inserted"] != true {
		t.Fatalf("unexpected save result: %v", res)
	}

	mine := dataList(t, h.ok("stories", "list", "--mine"))
	if len(mine) != 1 || !containsID(mine, id) {
		t.Fatalf("expected only the new story in --mine; got %v", mine)
	}
	newest := dataList(t, h.ok("stories", "list", "--sort", "newest", "--limit", "1"))
	if !containsID(newest, id) {
		t.Fatalf("new story should sort first by newest; got %v", newest)
	}

	// Seeded stories belong to other authors.
	other := filepath.Join(t.TempDir(), "other.json")
	if err := os.WriteFile(other, []byte(`{"id":"1","title":"Mine now","chapters":[{"id":"c1","title":"One"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	h.fails("stories", "save", "--file", other)
}

func TestCLI_ContentRequiresAdmin(t *testing.T) {
	h := newHarness(t)

	hero := dataMap(t, h.ok("content", "show", "hero"))
	if hero["buttonRead"] != "Start Reading" {
		t.Fatalf("expected default hero copy; got %v", hero)
	}
	h.fails("content", "set", "hero", "badgeText", "New")

	h.ok("auth", "signup", "--email", "root@example.com", "--password", "secret1", "--admin")
	h.ok("content", "set", "hero", "badgeText", "New")
	if got := dataMap(t, h.ok("content", "show", "hero"))["badgeText"]; got != "New" {
		t.Fatalf("expected updated badge; got %v", got)
	}
	h.fails("content", "set", "nope", "x", "y")
	h.ok("content", "reset")
	if got := dataMap(t, h.ok("content", "show", "hero"))["badgeText"]; got == "New" {
		t.Fatalf("reset did not restore defaults")
	}
}

func TestCLI_ExportAndAI(t *testing.T) {
	h := newHarness(t)
	out := t.TempDir()

	res := dataMap(t, h.ok("stories", "export", "2", "--to", out, "--as", "html"))
	written := res["written"].([]any)
	if len(written) != 1 || !strings.HasSuffix(written[0].(string), filepath.Join("stories", "2.html")) {
		t.Fatalf("unexpected export result: %v", res)
	}

	twist := h.ok("ai", "idea", "twist", "a", "lighthouse")
	if !strings.Contains(twist["data"].(string), "artifact") {
		t.Fatalf("expected stub twist; got %v", twist["data"])
	}
	verdict := dataMap(t, h.ok("ai", "moderate", "hello"))
	if verdict["approved"] != true {
		t.Fatalf("expected approval; got %v", verdict)
	}
	h.ok("ai", "summarize", "--story", "2", "--chapter", "0")
	h.fails("ai", "idea", "poem", "x")
}

func TestCLI_FormatsAndEphemeral(t *testing.T) {
	t.Setenv("STORYWEAVE_CONFIG_DIR", t.TempDir())

	stdout, _, err := runCLI(t, []string{"--ephemeral", "--seed", "3", "--format", "edn", "stories", "show", "1"})
	if err != nil {
		t.Fatalf("edn show: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "{:data {") || !strings.Contains(string(stdout), ":cover-url") {
		t.Fatalf("unexpected edn: %s", stdout)
	}

	if _, _, err := runCLI(t, []string{"--ephemeral", "--format", "xml", "stories", "list"}); err == nil {
		t.Fatalf("expected unknown format error")
	}

	dir := t.TempDir()
	if _, _, err := runCLI(t, []string{"--dir", dir, "--ephemeral", "stories", "list"}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "storyweave.sqlite")); err == nil {
		t.Fatalf("--ephemeral must not create a database")
	}
}

func TestCLI_Docs(t *testing.T) {
	h := newHarness(t)

	topics := dataMap(t, h.ok("docs"))["topics"]
	list, _ := topics.([]any)
	if len(list) == 0 {
		t.Fatalf("expected topics; got %v", topics)
	}
	doc := dataMap(t, h.ok("docs", "keys"))
	if md, _ := doc["markdown"].(string); !strings.Contains(md, "ctrl+s") {
		t.Fatalf("expected key reference; got %v", doc)
	}
	h.fails("docs", "nope")

	stdout, _, err := runCLI(t, h.args("docs", "stories", "--raw"))
	if err != nil || !strings.HasPrefix(string(stdout), "# Stories") {
		t.Fatalf("raw docs: err=%v out=%q", err, stdout)
	}
}
