package gdm

// RecordModel pairs the graph model of one source record with the record's
// root identifier and, once known, the record class URI used for the type
// statement on the root.
type RecordModel struct {
	Model          *Model `json:"model"`
	RecordURI      string `json:"record_uri"`
	RecordClassURI string `json:"record_class_uri,omitempty"`
}

// NewRecordModel wraps a model with its root identifier.
func NewRecordModel(model *Model, recordURI, recordClassURI string) *RecordModel {
	return &RecordModel{Model: model, RecordURI: recordURI, RecordClassURI: recordClassURI}
}

// AttributePaths derives every distinct root-to-leaf predicate path observed
// in the record, in first-seen order. A path ends at a literal object;
// traversal descends through blank-node entities. Type statements do not
// contribute attributes.
func (rm *RecordModel) AttributePaths() [][]string {
	if rm.Model == nil {
		return nil
	}

	root := rm.Model.Resource(rm.RecordURI)
	if root == nil {
		return nil
	}

	var (
		paths   [][]string
		seen    = map[string]bool{}
		visited = map[string]bool{}
	)

	var walk func(r *Resource, prefix []string)
	walk = func(r *Resource, prefix []string) {
		key := r.Subject.Key()
		if visited[key] {
			return
		}
		visited[key] = true
		defer delete(visited, key)

		for _, st := range r.Statements {
			if st.Predicate == nil || st.Predicate.URI == RDFType {
				continue
			}

			path := append(append([]string(nil), prefix...), st.Predicate.URI)

			switch {
			case st.Object.IsLiteral():
				k := pathKey(path)
				if !seen[k] {
					seen[k] = true
					paths = append(paths, path)
				}
			case st.Object.IsBlank():
				if sub := rm.Model.Resource(st.Object.Key()); sub != nil {
					walk(sub, path)
				}
			}
		}
	}

	walk(root, nil)

	return paths
}

func pathKey(path []string) string {
	k := ""
	for _, p := range path {
		k += p + "\x1f"
	}

	return k
}
