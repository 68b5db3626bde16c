package service

import (
	"context"
	"errors"
	"testing"

	"github.com/graphmint/graphmint/internal/encoder"
	"github.com/graphmint/graphmint/internal/gdm"
	"github.com/graphmint/graphmint/internal/models"
)

func twoRecordStream() *encoder.SliceReader {
	return encoder.NewSliceReader([]encoder.Event{
		encoder.StartRecord("1"),
		encoder.Literal("title", "A"),
		encoder.EndRecord(),
		encoder.StartRecord("2"),
		encoder.Literal("title", "B"),
		encoder.StartEntity("author"),
		encoder.Literal("name", "N"),
		encoder.EndEntity(),
		encoder.EndRecord(),
	})
}

func TestRunEncodesWritesAndReconciles(t *testing.T) {
	written := map[string]*gdm.RecordModel{}
	graphs := &mockGraphStore{
		writeFunc: func(_ context.Context, dataModelID string, rec *gdm.RecordModel) error {
			if dataModelID != "dm1" {
				t.Errorf("write for data model %q, want dm1", dataModelID)
			}

			written[rec.RecordURI] = rec

			return nil
		},
	}

	fake := newFakePersistence()
	svc := NewIngestService(graphs, NewSchemaReconciler(fake, testLogger()), "http://x/", testLogger())

	result, err := svc.Run(context.Background(), "dm1", twoRecordStream())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Records != 2 {
		t.Errorf("records = %d, want 2", result.Records)
	}

	// First record: type + title. Second: type + title + author entity with
	// its own type and name.
	if result.Statements != 7 {
		t.Errorf("statements = %d, want 7", result.Statements)
	}

	if len(written) != 2 {
		t.Fatalf("store received %d records, want 2", len(written))
	}

	if result.Schema == nil {
		t.Fatal("run did not reconcile a schema")
	}

	if result.Schema.RecordClass == nil || result.Schema.RecordClass.URI != "http://x/RecordType" {
		t.Errorf("schema record class = %v, want http://x/RecordType", result.Schema.RecordClass)
	}

	if len(result.Schema.AttributePaths) != 2 {
		t.Errorf("schema has %d attribute paths, want 2", len(result.Schema.AttributePaths))
	}

	if fake.saves != 1 {
		t.Errorf("saves = %d, want 1", fake.saves)
	}
}

func TestRunEmptyStreamSkipsReconciliation(t *testing.T) {
	fake := newFakePersistence()
	svc := NewIngestService(&mockGraphStore{}, NewSchemaReconciler(fake, testLogger()), "http://x/", testLogger())

	result, err := svc.Run(context.Background(), "dm1", encoder.NewSliceReader(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Records != 0 || result.Schema != nil {
		t.Errorf("result = %+v, want zero records and no schema", result)
	}

	if fake.saves != 0 {
		t.Error("empty run must not touch the schema")
	}
}

func TestRunWriteErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	graphs := &mockGraphStore{
		writeFunc: func(context.Context, string, *gdm.RecordModel) error { return boom },
	}

	fake := newFakePersistence()
	svc := NewIngestService(graphs, NewSchemaReconciler(fake, testLogger()), "http://x/", testLogger())

	if _, err := svc.Run(context.Background(), "dm1", twoRecordStream()); !errors.Is(err, boom) {
		t.Fatalf("got error %v, want %v", err, boom)
	}

	if fake.saves != 0 {
		t.Error("failed run must not reconcile the schema")
	}
}

func TestRunEncodeErrorAborts(t *testing.T) {
	fake := newFakePersistence()
	svc := NewIngestService(&mockGraphStore{}, NewSchemaReconciler(fake, testLogger()), "http://x/", testLogger())

	events := encoder.NewSliceReader([]encoder.Event{
		encoder.Literal("title", "no record open"),
	})

	if _, err := svc.Run(context.Background(), "dm1", events); !errors.Is(err, encoder.ErrNoActiveRecord) {
		t.Fatalf("got error %v, want ErrNoActiveRecord", err)
	}

	if fake.saves != 0 {
		t.Error("failed run must not reconcile the schema")
	}
}

func TestRunRequiresDataModelID(t *testing.T) {
	svc := NewIngestService(&mockGraphStore{}, NewSchemaReconciler(newFakePersistence(), testLogger()), "", testLogger())

	if _, err := svc.Run(context.Background(), "", encoder.NewSliceReader(nil)); !errors.Is(err, models.ErrMissingDataModelID) {
		t.Errorf("got error %v, want ErrMissingDataModelID", err)
	}
}
