package catalog

import (
	"sync"
	"sync/atomic"
)

// Snapshot holds the catalog as currently displayed on one terminal. Every
// search replaces it wholesale; there is no merge path. Each outstanding
// search carries a monotonically increasing sequence number so a slow
// response can never overwrite the result of a newer one.
type Snapshot struct {
	mu       sync.RWMutex
	products []Product
	index    map[int64]int
	applied  uint64

	seq atomic.Uint64
}

// NewSnapshot builds an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{index: make(map[int64]int)}
}

// NextSeq issues the sequence number for a search about to go out.
func (s *Snapshot) NextSeq() uint64 {
	return s.seq.Add(1)
}

// Replace installs a search result set. It reports false, leaving the
// snapshot untouched, when a result with a newer sequence number has already
// been applied.
func (s *Snapshot) Replace(seq uint64, products []Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied {
		return false
	}
	s.applied = seq
	s.products = make([]Product, len(products))
	copy(s.products, products)
	s.index = make(map[int64]int, len(products))
	for i, p := range s.products {
		s.index[p.ID] = i
	}
	return true
}

// Products returns a copy of the displayed product list.
func (s *Snapshot) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Product, len(s.products))
	copy(result, s.products)
	return result
}

// Get returns a displayed product by identifier.
func (s *Snapshot) Get(id int64) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

// Available returns the displayed available quantity for a product. The
// second return is false when the product is not on the current catalog.
func (s *Snapshot) Available(id int64) (int64, bool) {
	p, ok := s.Get(id)
	if !ok {
		return 0, false
	}
	return p.Quantity, true
}

// Decrement reduces a displayed quantity after a successful transaction.
// This is the optimistic client-side update; no re-fetch happens. Unknown
// identifiers are ignored.
func (s *Snapshot) Decrement(id, qty int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return
	}
	s.products[i].Quantity -= qty
	if s.products[i].Quantity < 0 {
		s.products[i].Quantity = 0
	}
}

// Len reports the number of displayed products.
func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
