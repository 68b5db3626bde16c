package mint

import (
	"strings"
	"testing"
)

func TestIsAbsoluteURI(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "http uri", token: "http://example.org/a", want: true},
		{name: "https uri", token: "https://example.org/a#b", want: true},
		{name: "urn", token: "urn:isbn:0451450523", want: true},
		{name: "empty", token: "", want: false},
		{name: "relative path", token: "records/42", want: false},
		{name: "bare name", token: "title", want: false},
		{name: "spaces", token: "not a uri at all", want: false},
		{name: "control char", token: "http://example.org/\x01", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAbsoluteURI(tc.token); got != tc.want {
				t.Errorf("IsAbsoluteURI(%q) = %v, want %v", tc.token, got, tc.want)
			}
		})
	}
}

func TestMintTermURI(t *testing.T) {
	tests := []struct {
		name      string
		base      string
		localName string
		want      string
	}{
		{name: "slash base", base: "http://x/", localName: "title", want: "http://x/title"},
		{name: "hash join", base: "http://x/terms", localName: "title", want: "http://x/terms#title"},
		{name: "base ends in hash", base: "http://x/terms#", localName: "title", want: "http://x/terms#title"},
		{name: "local name with hash marker", base: "http://x/", localName: "#lang", want: "http://x/lang"},
		{name: "local name with at marker", base: "http://x/", localName: "@id", want: "http://x/id"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MintTermURI(tc.base, tc.localName); got != tc.want {
				t.Errorf("MintTermURI(%q, %q) = %q, want %q", tc.base, tc.localName, got, tc.want)
			}
		})
	}
}

func TestMintRecordURI(t *testing.T) {
	t.Run("absolute key passes through", func(t *testing.T) {
		got := MintRecordURI("http://example.org/rec/1", "7")
		if got != "http://example.org/rec/1" {
			t.Errorf("got %q, want the key unchanged", got)
		}
	})

	t.Run("deterministic for fixed key and data model", func(t *testing.T) {
		first := MintRecordURI("42", "7")
		second := MintRecordURI("42", "7")

		if first != second {
			t.Errorf("minting is not deterministic: %q vs %q", first, second)
		}

		want := DataModelBaseURI + "7/records/42"
		if first != want {
			t.Errorf("got %q, want %q", first, want)
		}
	})

	t.Run("empty key mints distinct uris", func(t *testing.T) {
		first := MintRecordURI("", "7")
		second := MintRecordURI("", "7")

		if first == second {
			t.Errorf("expected distinct uris for empty keys, got %q twice", first)
		}

		prefix := DataModelBaseURI + "7/records/"
		if !strings.HasPrefix(first, prefix) || len(first) == len(prefix) {
			t.Errorf("got %q, want a random token under %q", first, prefix)
		}
	})

	t.Run("no data model falls back to record namespace", func(t *testing.T) {
		got := MintRecordURI("42", "")
		if got != RecordBaseURI+"42" {
			t.Errorf("got %q, want %q", got, RecordBaseURI+"42")
		}
	})
}

func TestTermName(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{name: "hash fragment", uri: "http://x/terms#title", want: "title"},
		{name: "path segment", uri: "http://x/terms/title", want: "title"},
		{name: "trailing slash", uri: "http://x/terms/title/", want: "title"},
		{name: "no separator", uri: "title", want: "title"},
		{name: "hash wins over slash", uri: "http://x/a/b#c", want: "c"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TermName(tc.uri); got != tc.want {
				t.Errorf("TermName(%q) = %q, want %q", tc.uri, got, tc.want)
			}
		})
	}
}
