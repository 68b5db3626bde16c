package service

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/graphmint/graphmint/internal/gdm"
	"github.com/graphmint/graphmint/internal/mint"
	"github.com/graphmint/graphmint/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

// fakePersistence is an in-memory SchemaPersistence with creation counters
// and per-method error injection.
type fakePersistence struct {
	attributes map[string]*models.Attribute
	claszes    map[string]*models.Clasz
	paths      map[string]*models.AttributePath
	schemas    map[string]*models.Schema
	nextPathID int64

	attributeCreates int
	pathCreates      int
	saves            int

	attributeErr error
	claszErr     error
	pathErr      error
	loadErr      error
	saveErr      error
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{
		attributes: map[string]*models.Attribute{},
		claszes:    map[string]*models.Clasz{},
		paths:      map[string]*models.AttributePath{},
		schemas:    map[string]*models.Schema{},
	}
}

func (f *fakePersistence) GetOrCreateAttribute(_ context.Context, uri string) (*models.Attribute, error) {
	if f.attributeErr != nil {
		return nil, f.attributeErr
	}

	if a, ok := f.attributes[uri]; ok {
		return a, nil
	}

	a := &models.Attribute{URI: uri, Name: mint.TermName(uri)}
	f.attributes[uri] = a
	f.attributeCreates++

	return a, nil
}

func (f *fakePersistence) GetOrCreateClasz(_ context.Context, uri string) (*models.Clasz, error) {
	if f.claszErr != nil {
		return nil, f.claszErr
	}

	if c, ok := f.claszes[uri]; ok {
		return c, nil
	}

	c := &models.Clasz{URI: uri, Name: mint.TermName(uri)}
	f.claszes[uri] = c

	return c, nil
}

func (f *fakePersistence) GetOrCreateAttributePath(_ context.Context, attributeURIs []string) (*models.AttributePath, error) {
	if f.pathErr != nil {
		return nil, f.pathErr
	}

	key := models.PathKey(attributeURIs)
	if p, ok := f.paths[key]; ok {
		return p, nil
	}

	f.nextPathID++

	attrs := make([]models.Attribute, len(attributeURIs))
	for i, uri := range attributeURIs {
		attrs[i] = models.Attribute{URI: uri, Name: mint.TermName(uri)}
	}

	p := &models.AttributePath{ID: f.nextPathID, Attributes: attrs}
	f.paths[key] = p
	f.pathCreates++

	return p, nil
}

func (f *fakePersistence) LoadSchema(_ context.Context, dataModelID string) (*models.Schema, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}

	s, ok := f.schemas[dataModelID]
	if !ok {
		return nil, models.ErrSchemaNotFound
	}

	return &models.Schema{
		ID:             s.ID,
		RecordClass:    s.RecordClass,
		AttributePaths: append([]models.AttributePath(nil), s.AttributePaths...),
	}, nil
}

func (f *fakePersistence) SaveSchema(_ context.Context, dataModelID string, schema *models.Schema) error {
	if f.saveErr != nil {
		return f.saveErr
	}

	f.saves++
	f.schemas[dataModelID] = &models.Schema{
		ID:             schema.ID,
		RecordClass:    schema.RecordClass,
		AttributePaths: append([]models.AttributePath(nil), schema.AttributePaths...),
	}

	return nil
}

// mockGraphStore delegates to its func fields; unset methods succeed with
// zero values.
type mockGraphStore struct {
	writeFunc         func(ctx context.Context, dataModelID string, rec *gdm.RecordModel) error
	readFunc          func(ctx context.Context, dataModelID, recordClassURI string, atMost int) (map[string]*gdm.RecordModel, error)
	getRecordFunc     func(ctx context.Context, dataModelID, recordURI string) (*gdm.RecordModel, error)
	getRecordsFunc    func(ctx context.Context, dataModelID string, recordURIs []string) (map[string]*gdm.RecordModel, error)
	searchRecordsFunc func(ctx context.Context, dataModelID, recordClassURI, keyAttributeURI, value string, atMost int) (map[string]*gdm.RecordModel, error)
	deleteFunc        func(ctx context.Context, dataModelID string) error
}

func (m *mockGraphStore) Write(ctx context.Context, dataModelID string, rec *gdm.RecordModel) error {
	if m.writeFunc == nil {
		return nil
	}

	return m.writeFunc(ctx, dataModelID, rec)
}

func (m *mockGraphStore) Read(ctx context.Context, dataModelID, recordClassURI string, atMost int) (map[string]*gdm.RecordModel, error) {
	if m.readFunc == nil {
		return nil, nil
	}

	return m.readFunc(ctx, dataModelID, recordClassURI, atMost)
}

func (m *mockGraphStore) GetRecord(ctx context.Context, dataModelID, recordURI string) (*gdm.RecordModel, error) {
	if m.getRecordFunc == nil {
		return nil, nil
	}

	return m.getRecordFunc(ctx, dataModelID, recordURI)
}

func (m *mockGraphStore) GetRecords(ctx context.Context, dataModelID string, recordURIs []string) (map[string]*gdm.RecordModel, error) {
	if m.getRecordsFunc == nil {
		return nil, nil
	}

	return m.getRecordsFunc(ctx, dataModelID, recordURIs)
}

func (m *mockGraphStore) SearchRecords(ctx context.Context, dataModelID, recordClassURI, keyAttributeURI, value string, atMost int) (map[string]*gdm.RecordModel, error) {
	if m.searchRecordsFunc == nil {
		return nil, nil
	}

	return m.searchRecordsFunc(ctx, dataModelID, recordClassURI, keyAttributeURI, value, atMost)
}

func (m *mockGraphStore) Delete(ctx context.Context, dataModelID string) error {
	if m.deleteFunc == nil {
		return nil
	}

	return m.deleteFunc(ctx, dataModelID)
}
