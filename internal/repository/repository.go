package repository

import (
	"sync"

	"github.com/Dan9191/fincalc/internal/models"
)

// RateStore keeps the most recently fetched key rate in memory
type RateStore struct {
	mu     sync.RWMutex
	latest models.KeyRate
	ok     bool
}

// NewRateStore initializes an empty store
func NewRateStore() *RateStore {
	return &RateStore{}
}

// Save replaces the stored snapshot unless it is older than the current one
func (r *RateStore) Save(kr models.KeyRate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ok && kr.FetchedAt.Before(r.latest.FetchedAt) {
		return
	}
	r.latest = kr
	r.ok = true
}

// Latest returns the stored snapshot and whether one exists
func (r *RateStore) Latest() (models.KeyRate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest, r.ok
}
