package gdm

import (
	"encoding/json"
	"testing"
)

func buildTestModel() *Model {
	m := NewModel()
	root := NewResourceNode("http://x/r/1")
	title := NewPredicate("http://x/title")
	author := NewPredicate("http://x/author")

	res := m.GetOrCreateResource(root)
	res.AddStatement(Statement{Subject: root, Predicate: NewPredicate(RDFType), Object: NewResourceNode("http://x/RecordType"), Order: 1})
	res.AddStatement(Statement{Subject: root, Predicate: title, Object: NewLiteralNode("Hello"), Order: 1})
	res.AddStatement(Statement{Subject: root, Predicate: title, Object: NewLiteralNode("World"), Order: 2})

	entity := NewBlankNode(1)
	res.AddStatement(Statement{Subject: root, Predicate: author, Object: entity, Order: 1})

	sub := m.GetOrCreateResource(entity)
	sub.AddStatement(Statement{Subject: entity, Predicate: NewPredicate("http://x/name"), Object: NewLiteralNode("Doe"), Order: 1})
	sub.AddStatement(Statement{
		Subject:   entity,
		Predicate: NewPredicate("http://x/born"),
		Object:    NewTypedLiteralNode("1900", "http://www.w3.org/2001/XMLSchema#gYear"),
		Order:     1,
	})

	return m
}

func TestModelJSONRoundTrip(t *testing.T) {
	m := buildTestModel()

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded := NewModel()
	if err := json.Unmarshal(data, decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.Size() != m.Size() {
		t.Fatalf("decoded size = %d, want %d", decoded.Size(), m.Size())
	}

	want := m.Statements()
	got := decoded.Statements()

	for i := range want {
		if got[i].Subject != want[i].Subject {
			t.Errorf("statement %d subject = %v, want %v", i, got[i].Subject, want[i].Subject)
		}

		if got[i].Predicate.URI != want[i].Predicate.URI {
			t.Errorf("statement %d predicate = %q, want %q", i, got[i].Predicate.URI, want[i].Predicate.URI)
		}

		if got[i].Object != want[i].Object {
			t.Errorf("statement %d object = %v, want %v", i, got[i].Object, want[i].Object)
		}

		if got[i].Order != want[i].Order {
			t.Errorf("statement %d order = %d, want %d", i, got[i].Order, want[i].Order)
		}
	}

	// The resource index must be rebuilt on decode.
	if decoded.Resource("_:1") == nil {
		t.Error("decoded model lost the entity resource")
	}
}

func TestModelUnmarshalInvalid(t *testing.T) {
	m := NewModel()

	if err := json.Unmarshal([]byte(`{"resources": "nope"}`), m); err == nil {
		t.Error("expected an error for a malformed document")
	}

	if err := json.Unmarshal([]byte(`{"resources": [null]}`), m); err == nil {
		t.Error("expected an error for a null resource entry")
	}
}
