// Package quotes keeps the session quote list: calculation snapshots a sales
// rep accumulates while quoting a customer. The list is in-memory only; it is
// a scratchpad for the current session, not an order record.
package quotes

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// Quote is one saved calculation result.
type Quote struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Calculator  string    `json:"calculator"`
	Product     string    `json:"product"`
	Description string    `json:"description"`
	PartNumber  string    `json:"part_number"`
	Price       float64   `json:"price"`
	CartonQty   int       `json:"carton_qty"`
	CartonPrice float64   `json:"carton_price"`
	Notices     []string  `json:"notices,omitempty"`
}

// Store is a concurrency-safe in-memory quote list.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []Quote

	now func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Add assigns the quote an ID and timestamp and appends it to the list.
// The stored copy is returned.
func (s *Store) Add(q Quote) Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	q.ID = s.nextID
	q.CreatedAt = s.now().UTC()
	s.items = append(s.items, q)
	return q
}

// List returns quotes newest first. A non-empty query filters by substring
// match on product, part number, or description, case-insensitively.
func (s *Store) List(query string) []Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Quote, 0, len(s.items))
	for _, q := range s.items {
		if query != "" && !matchesQuery(q, query) {
			continue
		}
		out = append(out, q)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func matchesQuery(q Quote, query string) bool {
	for _, field := range []string{q.Product, q.PartNumber, q.Description} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Remove deletes the quote with the given ID, reporting whether it existed.
func (s *Store) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, q := range s.items {
		if q.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the list. IDs keep counting up so removed quotes are never
// confused with later ones.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Total sums the unit prices of all quotes on the list, rounded to cents.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, q := range s.items {
		total += q.Price
	}
	return math.Round(total*100) / 100
}
