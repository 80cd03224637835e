// Package cachestore is a Store backed by an expiring in-memory cache, so an
// abandoned selection does not outlive its session forever.
package cachestore

import (
	"time"

	"github.com/drivenas/nasd/transfer"
	gocache "github.com/patrickmn/go-cache"
)

// Store holds at most one pending transfer per username.
type Store struct {
	cache *gocache.Cache
}

// New returns a Store whose entries expire after ttl.
func New(ttl time.Duration) *Store {
	return &Store{cache: gocache.New(ttl, 2*ttl)}
}

// Get returns the pending transfer for the user, if any.
func (s *Store) Get(username string) (*transfer.Pending, bool) {
	v, ok := s.cache.Get(username)
	if !ok {
		return nil, false
	}
	return v.(*transfer.Pending), true
}

// Set stores the pending transfer, replacing any previous one.
func (s *Store) Set(username string, pending *transfer.Pending) {
	s.cache.SetDefault(username, pending)
}

// Clear removes the pending transfer for the user.
func (s *Store) Clear(username string) {
	s.cache.Delete(username)
}
