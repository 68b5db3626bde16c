package main

import (
	"strings"
	"testing"

	"github.com/graphmint/graphmint/internal/encoder"
)

func TestParseEvents(t *testing.T) {
	raw := `[
		{"kind": "startRecord", "name": "42"},
		{"kind": "literal", "name": "title", "value": "Hello"},
		{"kind": "startEntity", "name": "author"},
		{"kind": "literal", "name": "name", "value": "Doe"},
		{"kind": "endEntity"},
		{"kind": "endRecord"}
	]`

	events, err := parseEvents([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []encoder.Event{
		encoder.StartRecord("42"),
		encoder.Literal("title", "Hello"),
		encoder.StartEntity("author"),
		encoder.Literal("name", "Doe"),
		encoder.EndEntity(),
		encoder.EndRecord(),
	}

	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}

	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestParseEventsRejectsUnknownKind(t *testing.T) {
	_, err := parseEvents([]byte(`[{"kind": "resetRecord"}]`))
	if err == nil || !strings.Contains(err.Error(), "resetRecord") {
		t.Fatalf("got %v, want an error naming the unknown kind", err)
	}
}

func TestParseEventsRejectsMalformedFile(t *testing.T) {
	if _, err := parseEvents([]byte(`{"kind": "startRecord"}`)); err == nil {
		t.Fatal("expected an error for a non-array document")
	}
}
