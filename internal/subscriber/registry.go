package subscriber

import "sync"

// ID identifies a chat participant. Telegram chat IDs are 64-bit integers.
type ID = int64

// Registry tracks notification recipients and the two FIFO queues of
// requesters awaiting a device-list reply and an info reply.
//
// The subscriber set is persisted; the queues are process-lifetime only.
// A pending request cannot be meaningfully resumed after a restart because
// replies correlate with requests only by arrival order, so the queues
// deliberately reset to empty.
//
// All methods are safe for concurrent use: bus handlers and chat handlers
// run on independent goroutines, and FIFO ordering plus the
// subscribe-if-absent check require the shared lock.
type Registry struct {
	mu       sync.Mutex
	members  map[ID]struct{}
	order    []ID
	listWait queue
	infoWait queue
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		members: make(map[ID]struct{}),
	}
}

// Subscribe adds id to the broadcast set.
//
// Idempotent: adding a present id is a no-op. The return value reports
// whether the id was newly added, which drives whether the caller persists.
func (r *Registry) Subscribe(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[id]; ok {
		return false
	}
	r.members[id] = struct{}{}
	r.order = append(r.order, id)
	return true
}

// BroadcastTargets returns every current subscriber exactly once.
// Callers must not assume any particular order.
func (r *Registry) BroadcastTargets() []ID {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ID, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the current subscriber count.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// EnqueueListRequest records that id awaits a device-list reply.
// Repeated requests from the same id queue separate entries.
func (r *Registry) EnqueueListRequest(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listWait.push(id)
}

// DequeueListRequest returns the oldest pending list requester. The second
// return value is false when nobody is waiting; the caller should drop the
// reply rather than treat this as an error.
func (r *Registry) DequeueListRequest() (ID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listWait.pop()
}

// EnqueueInfoRequest records that id awaits a device-info reply.
func (r *Registry) EnqueueInfoRequest(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infoWait.push(id)
}

// DequeueInfoRequest returns the oldest pending info requester, false when
// nobody is waiting.
func (r *Registry) DequeueInfoRequest() (ID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.infoWait.pop()
}

// Load merges persisted subscribers into the set (union with whatever is
// already present). Queues are unaffected.
func (r *Registry) Load(ids []ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if _, ok := r.members[id]; ok {
			continue
		}
		r.members[id] = struct{}{}
		r.order = append(r.order, id)
	}
}
