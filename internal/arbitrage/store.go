package arbitrage

import (
	"sync"
	"time"
)

// Scan is the outcome of one full pass: graph shape, both extreme cycles
// and the tickers that could not be resolved or quoted.
type Scan struct {
	At       time.Time `json:"at"`
	Nodes    int       `json:"nodes"`
	Edges    int       `json:"edges"`
	Min      *Result   `json:"min,omitempty"`
	Max      *Result   `json:"max,omitempty"`
	Excluded []string  `json:"excluded,omitempty"`
}

// Store keeps the most recent scan for the HTTP surface.
type Store struct {
	mu   sync.RWMutex
	last *Scan
}

func NewStore() *Store { return &Store{} }

func (s *Store) Set(scan Scan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &scan
}

// Last returns the most recent scan, nil if none completed yet.
func (s *Store) Last() *Scan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
