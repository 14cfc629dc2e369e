package core

import (
	"fmt"
	"sync"
	"testing"

	"github.com/guregu/null/v6"

	ex "ratios.service/data/extensions"
)

func TestResultsStoreConcurrentPuts(t *testing.T) {
	store := NewResultsStore()

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Put(fmt.Sprintf("ratio-%d", i), null.FloatFrom(float64(i)))
		}()
	}
	wg.Wait()

	ex.AssertAreEqual(t, "size", 64, store.Len())
	v, ok := store.Get("ratio-42")
	ex.AssertAreEqual(t, "found", true, ok)
	ex.AssertFloat(t, "ratio-42", 42, v)

	_, ok = store.Get("ratio-64")
	ex.AssertAreEqual(t, "not found", false, ok)
}

func TestResultsStoreSnapshot(t *testing.T) {
	store := NewResultsStore()
	store.Put(string(ROEKey), null.FloatFrom(0.25))
	store.Put(string(CurrentRatioKey), null.Float{})

	snapshot := store.Snapshot()

	ex.AssertAreEqual(t, "entries", 2, len(snapshot))
	ex.AssertAreEqual(t, "nested entries", 1, len(snapshot[string(ROEKey)]))
	ex.AssertFloat(t, "roe", 0.25, snapshot[string(ROEKey)][string(ROEKey)])
	ex.AssertMissing(t, "current ratio", snapshot[string(CurrentRatioKey)][string(CurrentRatioKey)])
}

func TestResultsStoreValuesIsACopy(t *testing.T) {
	store := NewResultsStore()
	store.Put(string(ROAKey), null.FloatFrom(0.05))

	values := store.Values()
	values[string(ROAKey)] = null.FloatFrom(99)
	values["other"] = null.FloatFrom(1)

	v, _ := store.Get(string(ROAKey))
	ex.AssertFloat(t, "roa", 0.05, v)
	ex.AssertAreEqual(t, "size", 1, store.Len())
}

func TestResultsStoreLastWriteWins(t *testing.T) {
	store := NewResultsStore()
	store.Put(string(ROAKey), null.FloatFrom(0.05))
	store.Put(string(ROAKey), null.Float{})

	v, _ := store.Get(string(ROAKey))
	ex.AssertMissing(t, "roa", v)
	ex.AssertAreEqual(t, "size", 1, store.Len())
}
