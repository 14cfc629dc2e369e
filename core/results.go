package core

import (
	"maps"
	"sync"

	"github.com/guregu/null/v6"
)

// ResultsStore collects ratio results from concurrently running calculations.
// Each calculation owns its key, an invalid value is the missing marker.
type ResultsStore struct {
	mu     sync.RWMutex
	values map[string]null.Float
}

func NewResultsStore() *ResultsStore {
	return &ResultsStore{values: make(map[string]null.Float)}
}

func (rs *ResultsStore) Put(name string, value null.Float) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.values[name] = value
}

func (rs *ResultsStore) Get(name string) (null.Float, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	v, ok := rs.values[name]
	return v, ok
}

func (rs *ResultsStore) Len() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.values)
}

// Values is a copy of the flat name -> value mapping
func (rs *ResultsStore) Values() map[string]null.Float {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return maps.Clone(rs.values)
}

// Snapshot returns the nested {name: {name: value}} shape used for aggregation
func (rs *ResultsStore) Snapshot() map[string]map[string]null.Float {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	res := make(map[string]map[string]null.Float, len(rs.values))
	for name, value := range rs.values {
		res[name] = map[string]null.Float{name: value}
	}
	return res
}
