package gdm

// Statement is one (subject, predicate, object) edge. Order is a 1-based
// sequence number scoped to the (subject, predicate) pair, so that repeated
// fields keep their original emission order.
type Statement struct {
	Subject   Node       `json:"s"`
	Predicate *Predicate `json:"p"`
	Object    Node       `json:"o"`
	Order     int64      `json:"order"`
}

// Resource is a subject node together with its outgoing statements, in
// emission order. One Resource exists per record root and per nested entity.
type Resource struct {
	Subject    Node        `json:"subject"`
	Statements []Statement `json:"statements"`
}

// NewResource returns an empty resource for the given subject.
func NewResource(subject Node) *Resource {
	return &Resource{Subject: subject}
}

// AddStatement appends a statement to the resource.
func (r *Resource) AddStatement(st Statement) {
	r.Statements = append(r.Statements, st)
}

// Model is the ordered set of resources produced for exactly one source
// record: the record root plus every nested entity reachable from it.
type Model struct {
	resources []*Resource
	index     map[string]*Resource
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{index: make(map[string]*Resource)}
}

// Resource returns the resource whose subject has the given key, or nil.
func (m *Model) Resource(key string) *Resource {
	return m.index[key]
}

// GetOrCreateResource returns the resource for the subject, creating and
// registering it on first use.
func (m *Model) GetOrCreateResource(subject Node) *Resource {
	key := subject.Key()
	if r, ok := m.index[key]; ok {
		return r
	}

	r := NewResource(subject)
	m.resources = append(m.resources, r)
	m.index[key] = r

	return r
}

// Resources returns all resources in insertion order.
func (m *Model) Resources() []*Resource {
	return m.resources
}

// Size returns the total number of statements across all resources.
func (m *Model) Size() int {
	n := 0
	for _, r := range m.resources {
		n += len(r.Statements)
	}

	return n
}

// Statements returns all statements of the model in resource order. The
// slice is rebuilt on each call; mutating it does not affect the model.
func (m *Model) Statements() []Statement {
	out := make([]Statement, 0, m.Size())
	for _, r := range m.resources {
		out = append(out, r.Statements...)
	}

	return out
}
