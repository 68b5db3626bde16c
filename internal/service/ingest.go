package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/graphmint/graphmint/internal/domain"
	"github.com/graphmint/graphmint/internal/encoder"
	"github.com/graphmint/graphmint/internal/gdm"
	"github.com/graphmint/graphmint/internal/metrics"
	"github.com/graphmint/graphmint/internal/models"
)

// modelBuffer is the channel depth between the encoder and the graph
// writer; encoding can run ahead of store round-trips by this many records.
const modelBuffer = 16

// IngestService drives one ingestion run: it owns the run's encoder
// session, streams encoded record graphs into the graph store, and
// reconciles the observed schema once the run ends. A service instance may
// serve many runs, each run gets its own session; concurrent runs into
// different data models are independent.
type IngestService struct {
	graphs     domain.GraphStore
	reconciler *SchemaReconciler
	baseURI    string
	log        *logrus.Logger
}

// NewIngestService creates an IngestService. baseURI is the namespace for
// minted terms; empty means per-data-model namespaces.
func NewIngestService(graphs domain.GraphStore, reconciler *SchemaReconciler, baseURI string, log *logrus.Logger) *IngestService {
	return &IngestService{graphs: graphs, reconciler: reconciler, baseURI: baseURI, log: log}
}

// RunResult summarizes one completed ingestion run.
type RunResult struct {
	Records    int
	Statements int
	Schema     *models.Schema
}

// Run encodes every record of the event stream, writes the record graphs
// under the data model's namespace, and reconciles the schema from the
// accumulated attribute paths. Graph writes proceed concurrently with
// encoding; the first error aborts the run and is returned unmodified.
// Continuation policy is the caller's.
func (s *IngestService) Run(ctx context.Context, dataModelID string, events encoder.EventReader) (*RunResult, error) {
	if dataModelID == "" {
		return nil, models.ErrMissingDataModelID
	}

	sess := encoder.NewSession(dataModelID, s.baseURI, s.log)
	enc := encoder.New(sess)
	result := &RunResult{}

	ch := make(chan *gdm.RecordModel, modelBuffer)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for rm := range ch {
			if err := s.graphs.Write(gctx, dataModelID, rm); err != nil {
				return fmt.Errorf("storing record %q: %w", rm.RecordURI, err)
			}
		}

		return nil
	})

	g.Go(func() error {
		defer close(ch)

		return s.encode(gctx, enc, events, result, ch)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if result.Records == 0 {
		s.log.WithField("data_model", dataModelID).Info("ingestion run produced no records")

		return result, nil
	}

	schema, err := s.reconciler.Reconcile(ctx, dataModelID, sess.RecordClassURI(), sess.Paths().Paths())
	if err != nil {
		return nil, err
	}

	result.Schema = schema

	s.log.WithFields(logrus.Fields{
		"data_model": dataModelID,
		"records":    result.Records,
		"statements": result.Statements,
		"paths":      sess.Paths().Len(),
	}).Info("ingestion run complete")

	return result, nil
}

func (s *IngestService) encode(ctx context.Context, enc *encoder.Encoder, events encoder.EventReader, result *RunResult, ch chan<- *gdm.RecordModel) error {
	for {
		ev, err := events.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("reading events: %w", err)
		}

		rm, err := enc.Consume(ev)
		if err != nil {
			metrics.EncodeFailures.Inc()

			return err
		}

		if rm == nil {
			continue
		}

		metrics.RecordsEncoded.Inc()
		metrics.StatementsEncoded.Add(float64(rm.Model.Size()))

		result.Records++
		result.Statements += rm.Model.Size()

		select {
		case ch <- rm:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
