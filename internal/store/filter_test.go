package store_test

import (
	"testing"

	"github.com/graphmint/graphmint/internal/encoder"
	"github.com/graphmint/graphmint/internal/gdm"
	"github.com/graphmint/graphmint/internal/store"
)

func TestFilterByLiteral(t *testing.T) {
	records := map[string]*gdm.RecordModel{}

	for _, rm := range encodeTestRecords(t, "dm1", []encoder.Event{
		encoder.StartRecord("1"),
		encoder.Literal("title", "needle"),
		encoder.EndRecord(),
		encoder.StartRecord("2"),
		encoder.Literal("title", "hay"),
		encoder.EndRecord(),
		encoder.StartRecord("3"),
		encoder.Literal("title", "needle"),
		encoder.EndRecord(),
	}) {
		records[rm.RecordURI] = rm
	}

	matched := store.FilterByLiteral(records, "http://x/title", "needle", 0)
	if len(matched) != 2 {
		t.Errorf("got %d matches, want 2", len(matched))
	}

	// The value must match exactly; the uri match is on the predicate, not
	// the field name.
	if got := store.FilterByLiteral(records, "http://x/title", "need", 0); len(got) != 0 {
		t.Errorf("prefix value matched %d records, want 0", len(got))
	}

	if got := store.FilterByLiteral(records, "title", "needle", 0); len(got) != 0 {
		t.Errorf("bare field name matched %d records, want 0", len(got))
	}

	if got := store.FilterByLiteral(records, "http://x/title", "needle", 1); len(got) != 1 {
		t.Errorf("capped filter returned %d records, want 1", len(got))
	}
}
