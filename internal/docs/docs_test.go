package docs

import (
	"strings"
	"testing"
)

func TestTopics_AllReadable(t *testing.T) {
	topics := Topics()
	if len(topics) == 0 {
		t.Fatalf("expected embedded topics")
	}
	for _, topic := range topics {
		body, ok := Get(topic)
		if !ok || !strings.HasPrefix(body, "# ") {
			t.Fatalf("topic %q: ok=%v body=%q", topic, ok, body)
		}
	}
}

func TestGet_CaseInsensitiveAndUnknown(t *testing.T) {
	if _, ok := Get("  KEYS "); !ok {
		t.Fatalf("expected keys topic")
	}
	if _, ok := Get("nope"); ok {
		t.Fatalf("unexpected topic")
	}
	if _, ok := Get(""); ok {
		t.Fatalf("empty topic must not resolve")
	}
}
