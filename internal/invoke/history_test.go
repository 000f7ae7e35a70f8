package invoke

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryPushPrepends(t *testing.T) {
	h := NewHistory(10)
	h.Push(Record{Method: "first"})
	h.Push(Record{Method: "second"})

	recs := h.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "second", recs[0].Method)
	assert.Equal(t, "first", recs[1].Method)
}

func TestHistoryCapEvictsOldest(t *testing.T) {
	h := NewHistory(10)
	for i := 1; i <= 11; i++ {
		h.Push(Record{Method: fmt.Sprintf("m%d", i)})
	}

	recs := h.Records()
	require.Len(t, recs, 10)
	assert.Equal(t, "m11", recs[0].Method, "newest kept")
	assert.Equal(t, "m2", recs[9].Method, "oldest evicted")
	for _, r := range recs {
		assert.NotEqual(t, "m1", r.Method)
	}
}

func TestHistoryMixedMethodsEvictByCompletionOrder(t *testing.T) {
	h := NewHistory(10)
	for i := 0; i < 11; i++ {
		h.Push(Record{Method: []string{"alpha", "beta", "gamma"}[i%3]})
	}
	assert.Equal(t, 10, h.Len())
}

func TestHistoryZeroCapUsesDefault(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < DefaultCap+5; i++ {
		h.Push(Record{Method: "m"})
	}
	assert.Equal(t, DefaultCap, h.Len())
}

func TestHistoryGeneratesUniqueIDs(t *testing.T) {
	h := NewHistory(10)
	a := h.Push(Record{Method: "a"})
	b := h.Push(Record{Method: "b"})
	assert.NotEmpty(t, a)
	assert.NotEmpty(t, b)
	assert.NotEqual(t, a, b)
}

func TestHistoryKeepsProvidedID(t *testing.T) {
	h := NewHistory(10)
	id := h.Push(Record{ID: "fixed", Method: "a"})
	assert.Equal(t, "fixed", id)
}

func TestHistoryStampsTimestamp(t *testing.T) {
	h := NewHistory(10)
	h.Push(Record{Method: "a"})
	assert.False(t, h.Records()[0].Timestamp.IsZero())
}

func TestHistoryUpdateByIDKeepsPosition(t *testing.T) {
	h := NewHistory(10)
	h.Push(Record{Method: "a"})
	id := h.Push(Record{Method: "b", Stage: StageSubmitted})
	h.Push(Record{Method: "c"})

	ok := h.Update(id, func(r *Record) {
		r.Stage = StageConfirmed
		r.Block = 42
	})
	require.True(t, ok)

	recs := h.Records()
	require.Len(t, recs, 3)
	// Newest first: c, b, a. The update must not move b.
	assert.Equal(t, "c", recs[0].Method)
	assert.Equal(t, "b", recs[1].Method)
	assert.Equal(t, StageConfirmed, recs[1].Stage)
	assert.Equal(t, uint64(42), recs[1].Block)
	assert.Equal(t, "a", recs[2].Method)
}

func TestHistoryUpdateEvictedRecord(t *testing.T) {
	h := NewHistory(2)
	id := h.Push(Record{Method: "old"})
	h.Push(Record{Method: "mid"})
	h.Push(Record{Method: "new"}) // evicts "old"

	ok := h.Update(id, func(r *Record) { r.Stage = StageConfirmed })
	assert.False(t, ok)
}

func TestHistoryRecordsIsACopy(t *testing.T) {
	h := NewHistory(10)
	h.Push(Record{Method: "a"})

	recs := h.Records()
	recs[0].Method = "mutated"

	assert.Equal(t, "a", h.Records()[0].Method)
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(10)
	h.Push(Record{Method: "a"})
	h.Clear()
	assert.Zero(t, h.Len())
}
