package gdm

import (
	"encoding/json"
	"fmt"
)

// The wire format is a single JSON object:
//
//	{"resources": [{"subject": {...}, "statements": [{"s": ..., "p": {"uri": ...}, "o": ..., "order": n}, ...]}, ...]}
//
// Node objects are tagged by "type" (resource | bnode | literal). The codec
// round-trips statements and order exactly; predicate interning is an
// encoding-time optimization and is not reconstructed on decode.

type modelJSON struct {
	Resources []*Resource `json:"resources"`
}

// MarshalJSON implements json.Marshaler.
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(modelJSON{Resources: m.resources})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Model) UnmarshalJSON(data []byte) error {
	var raw modelJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding graph model: %w", err)
	}

	m.resources = raw.Resources
	m.index = make(map[string]*Resource, len(raw.Resources))

	for _, r := range raw.Resources {
		if r == nil {
			return fmt.Errorf("decoding graph model: null resource entry")
		}

		m.index[r.Subject.Key()] = r
	}

	return nil
}
