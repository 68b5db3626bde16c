package main

import (
	"encoding/json"
	"fmt"

	"github.com/graphmint/graphmint/internal/encoder"
)

// eventDoc is one element of an ingest file: a JSON array of protocol
// events, e.g.
//
//	[{"kind": "startRecord", "name": "42"},
//	 {"kind": "literal", "name": "title", "value": "Hello"},
//	 {"kind": "endRecord"}]
type eventDoc struct {
	Kind  string `json:"kind"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

func parseEvents(raw []byte) ([]encoder.Event, error) {
	var docs []eventDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("parsing event file: %w", err)
	}

	events := make([]encoder.Event, 0, len(docs))

	for i, d := range docs {
		switch d.Kind {
		case encoder.EventStartRecord.String():
			events = append(events, encoder.StartRecord(d.Name))
		case encoder.EventStartEntity.String():
			events = append(events, encoder.StartEntity(d.Name))
		case encoder.EventLiteral.String():
			events = append(events, encoder.Literal(d.Name, d.Value))
		case encoder.EventEndEntity.String():
			events = append(events, encoder.EndEntity())
		case encoder.EventEndRecord.String():
			events = append(events, encoder.EndRecord())
		default:
			return nil, fmt.Errorf("event %d: unknown kind %q", i, d.Kind)
		}
	}

	return events, nil
}
