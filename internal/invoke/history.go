package invoke

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCap is how many records a history keeps when no size is configured.
const DefaultCap = 10

// Stage tracks where a record sits in its invocation lifecycle.
type Stage string

const (
	// StageDone marks a completed read call.
	StageDone Stage = "done"
	// StageSubmitted marks a broadcast transaction awaiting inclusion.
	StageSubmitted Stage = "submitted"
	// StageConfirmed marks an included transaction.
	StageConfirmed Stage = "confirmed"
	// StageFailed marks any invocation that errored.
	StageFailed Stage = "failed"
)

// Record is one displayed invocation outcome. Records are identified by ID,
// never by list position, so a confirmation can rewrite its own submitted
// entry even after newer results land.
type Record struct {
	ID        string
	Method    string
	Stage     Stage
	Result    string
	Err       bool
	TxHash    string
	Block     uint64
	GasUsed   uint64
	Timestamp time.Time
}

// History is a bounded, newest-first record list. Ordering follows completion
// order: each Push prepends and evicts the oldest entry beyond the cap.
// Updates address records by ID and keep their position.
type History struct {
	mu   sync.Mutex
	max  int
	recs []Record
}

// NewHistory returns a history bounded to max records; non-positive max
// falls back to DefaultCap.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultCap
	}
	return &History{max: max}
}

// Push prepends the record, stamping an ID and timestamp when absent, and
// returns the record's ID.
func (h *History) Push(r Record) string {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recs = append([]Record{r}, h.recs...)
	if len(h.recs) > h.max {
		h.recs = h.recs[:h.max]
	}
	return r.ID
}

// Update rewrites the record with the given ID in place, preserving its
// position. Reports false when no such record remains (already evicted).
func (h *History) Update(id string, fn func(*Record)) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.recs {
		if h.recs[i].ID == id {
			fn(&h.recs[i])
			return true
		}
	}
	return false
}

// Records returns a copy of the history, newest first.
func (h *History) Records() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Record, len(h.recs))
	copy(out, h.recs)
	return out
}

// Len reports how many records the history holds.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.recs)
}

// Clear drops every record.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recs = nil
}
