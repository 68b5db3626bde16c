package encoder

import "github.com/graphmint/graphmint/internal/models"

// PathSet accumulates attribute-path shapes observed during a run,
// deduplicated by their order-sensitive URI sequence, in first-seen order.
type PathSet struct {
	keys  map[string]bool
	paths [][]string
}

// NewPathSet returns an empty set.
func NewPathSet() *PathSet {
	return &PathSet{keys: make(map[string]bool)}
}

// Add records a path shape; empty paths and known shapes are ignored.
// It reports whether the set grew.
func (s *PathSet) Add(path []string) bool {
	if len(path) == 0 {
		return false
	}

	key := models.PathKey(path)
	if s.keys[key] {
		return false
	}

	s.keys[key] = true
	s.paths = append(s.paths, append([]string(nil), path...))

	return true
}

// AddAll records every given path shape.
func (s *PathSet) AddAll(paths [][]string) {
	for _, p := range paths {
		s.Add(p)
	}
}

// Paths returns the accumulated shapes in first-seen order.
func (s *PathSet) Paths() [][]string {
	return s.paths
}

// Len returns the number of distinct shapes.
func (s *PathSet) Len() int {
	return len(s.paths)
}
