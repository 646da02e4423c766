package weather

import "sync"

// History is the rolling store of admitted measurement records.
//
// Records are appended in arrival order and never evicted; only the tail
// is ever read, so growth is linear in uptime. Eviction is a known gap,
// accepted for the deployment sizes this relay targets.
//
// All methods are safe for concurrent use: MQTT handlers run on separate
// goroutines, so the store guards its slice with a mutex.
type History struct {
	mu      sync.Mutex
	records []Record
}

// NewHistory creates an empty measurement history.
func NewHistory() *History {
	return &History{}
}

// Add appends a record in arrival order. Duplicates are retained; each
// counts toward LastN.
func (h *History) Add(rec Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
}

// LastN returns the most recent min(count, size) records in chronological
// order, oldest of the selected window first. A count of zero or an empty
// history yields an empty slice.
func (h *History) LastN(count int) []Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	if count <= 0 || len(h.records) == 0 {
		return nil
	}
	start := len(h.records) - count
	if start < 0 {
		start = 0
	}

	out := make([]Record, len(h.records)-start)
	copy(out, h.records[start:])
	return out
}

// Len returns the number of stored records.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

// Snapshot returns a copy of the full history for persistence.
func (h *History) Snapshot() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

// Replace swaps the stored records for the given slice, used when loading
// persisted state at startup. The slice is copied; the caller keeps
// ownership of its argument.
func (h *History) Replace(records []Record) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = make([]Record, len(records))
	copy(h.records, records)
}
