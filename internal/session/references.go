package session

import (
	"sync"
	"time"
)

type reference struct {
	buyer     string
	createdAt time.Time
	consumed  bool
}

// References maps short order references to the buyer that created them, so
// asynchronous payment webhooks can be reconciled back to a session.
type References struct {
	mu        sync.Mutex
	retention time.Duration
	refs      map[string]*reference
	now       func() time.Time
}

// NewReferences builds an empty table. Entries older than retention, or
// already consumed and past retention, are dropped by Sweep.
func NewReferences(retention time.Duration) *References {
	return &References{
		retention: retention,
		refs:      make(map[string]*reference),
		now:       time.Now,
	}
}

// Put records a reference->buyer mapping. Re-recording the same reference is
// a no-op overwrite, which keeps link issuance safe to retry.
func (r *References) Put(referenceID, buyer string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refs[referenceID] = &reference{buyer: buyer, createdAt: r.now()}
}

// Resolve looks up the buyer for a reference and marks it consumed. The entry
// is kept so duplicate webhook deliveries still resolve.
func (r *References) Resolve(referenceID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.refs[referenceID]
	if !ok {
		return "", false
	}
	ref.consumed = true
	return ref.buyer, true
}

// Sweep evicts references past the retention window and returns the count.
func (r *References) Sweep(now time.Time) int {
	if r.retention <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, ref := range r.refs {
		if now.Sub(ref.createdAt) > r.retention {
			delete(r.refs, id)
			evicted++
		}
	}
	return evicted
}

// Len reports how many references are currently retained.
func (r *References) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.refs)
}
