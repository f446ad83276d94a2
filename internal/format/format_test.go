package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID       string   `json:"id"`
	CoverURL string   `json:"coverUrl"`
	Rating   float64  `json:"rating"`
	Views    int      `json:"views"`
	Tags     []string `json:"tags"`
	Done     bool     `json:"completed"`
}

func TestWriteEDN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := sample{ID: "7", CoverURL: "u", Rating: 4.5, Views: 10, Tags: []string{"a", "b"}}
	if err := Write(&buf, v, "edn", false); err != nil {
		t.Fatal(err)
	}
	want := `{:completed false :cover-url "u" :id "7" :rating 4.5 :tags ["a" "b"] :views 10}` + "\n"
	if buf.String() != want {
		t.Fatalf("got  %q\nwant %q", buf.String(), want)
	}

	buf.Reset()
	if err := WriteEDN(&buf, map[string]any{"empty": []string{}}, true); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\n  :empty []\n}\n" {
		t.Fatalf("unexpected pretty output %q", buf.String())
	}
}

func TestKeyword(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"id":            ":id",
		"coverUrl":      ":cover-url",
		"headlineStart": ":headline-start",
		"item1Title":    ":item1-title",
		"logo text":     ":logo-text",
	} {
		if got := Keyword(in); got != want {
			t.Fatalf("Keyword(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteYAMLAndJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, sample{ID: "7"}, "yaml", false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "coverUrl: \"\"") || !strings.Contains(buf.String(), "id: \"7\"") {
		t.Fatalf("unexpected yaml: %s", buf.String())
	}

	buf.Reset()
	if err := Write(&buf, map[string]int{"n": 1}, "", false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\"n\":1}\n" {
		t.Fatalf("unexpected json: %q", buf.String())
	}

	if err := Write(&buf, 1, "xml", false); err == nil {
		t.Fatalf("expected unknown format error")
	}
	if Valid("xml") || !Valid("EDN") {
		t.Fatalf("Valid mismatch")
	}
}
