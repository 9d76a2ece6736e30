package session

import (
	"sync"
	"time"
)

// Line is one selected item in a buyer's cart. Selecting the same item twice
// produces two lines.
type Line struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type cart struct {
	mu         sync.Mutex
	lines      []Line
	lastActive time.Time
	evicted    bool
}

// Store tracks in-progress carts keyed by buyer channel address. Every
// read-modify-write runs under that buyer's lock; callers must perform
// network calls only after the store method returns.
type Store struct {
	mu    sync.Mutex
	ttl   time.Duration
	carts map[string]*cart
	now   func() time.Time
}

// NewStore builds an empty store. Carts idle longer than ttl are dropped by
// Sweep; a non-positive ttl disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:   ttl,
		carts: make(map[string]*cart),
		now:   time.Now,
	}
}

func (s *Store) cartFor(buyer string) *cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[buyer]
	if !ok {
		c = &cart{}
		s.carts[buyer] = c
	}
	return c
}

// withCart runs fn under the buyer's cart lock. A cart swept between lookup
// and locking is marked evicted, so the loop re-fetches rather than mutating
// an orphan.
func (s *Store) withCart(buyer string, fn func(c *cart)) {
	for {
		c := s.cartFor(buyer)
		c.mu.Lock()
		if c.evicted {
			c.mu.Unlock()
			continue
		}
		fn(c)
		c.mu.Unlock()
		return
	}
}

// Append adds a line to the buyer's cart, creating the cart if absent, and
// returns the new cart length.
func (s *Store) Append(buyer string, line Line) int {
	var length int
	s.withCart(buyer, func(c *cart) {
		c.lines = append(c.lines, line)
		c.lastActive = s.now()
		length = len(c.lines)
	})
	return length
}

// Replace swaps the buyer's cart for the given lines in one step.
func (s *Store) Replace(buyer string, lines []Line) {
	s.withCart(buyer, func(c *cart) {
		c.lines = append([]Line(nil), lines...)
		c.lastActive = s.now()
	})
}

// Snapshot copies the buyer's current cart without clearing it.
func (s *Store) Snapshot(buyer string) []Line {
	var lines []Line
	s.withCart(buyer, func(c *cart) {
		c.lastActive = s.now()
		lines = append([]Line(nil), c.lines...)
	})
	return lines
}

// Clear empties the buyer's cart. The session entry survives until swept.
func (s *Store) Clear(buyer string) {
	s.withCart(buyer, func(c *cart) {
		c.lines = nil
		c.lastActive = s.now()
	})
}

// Take atomically snapshots and clears the buyer's cart.
func (s *Store) Take(buyer string) []Line {
	var lines []Line
	s.withCart(buyer, func(c *cart) {
		lines = c.lines
		c.lines = nil
		c.lastActive = s.now()
	})
	return lines
}

// TakeIfNotEmpty atomically snapshots and clears the cart only when it holds
// at least one line. A second call for the same settled order returns false,
// which is the reconciliation idempotence guard.
func (s *Store) TakeIfNotEmpty(buyer string) ([]Line, bool) {
	var lines []Line
	var ok bool
	s.withCart(buyer, func(c *cart) {
		if len(c.lines) == 0 {
			return
		}
		lines = c.lines
		c.lines = nil
		c.lastActive = s.now()
		ok = true
	})
	return lines, ok
}

// Sweep drops carts idle past the TTL and returns how many were evicted.
// Evicted carts are flagged under their own lock so an in-flight operation
// holding a stale pointer re-fetches instead of writing into the orphan.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for buyer, c := range s.carts {
		c.mu.Lock()
		if now.Sub(c.lastActive) > s.ttl {
			c.evicted = true
			delete(s.carts, buyer)
			evicted++
		}
		c.mu.Unlock()
	}
	return evicted
}

// Len reports how many buyer sessions currently exist.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}
