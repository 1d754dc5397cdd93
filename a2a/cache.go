package a2a

import "sync"

// CardCache is a process-wide store of agent cards keyed by endpoint base URL.
// Entries never expire; agent topology is assumed static for the lifetime of
// the process. The cache is safe for concurrent use and tolerates two callers
// racing to populate the same endpoint (last write wins, cards are idempotent
// facts).
//
// The cache is passed into each Client explicitly rather than living as a
// package-level singleton so concurrent invocations and tests can decide
// whether to share one.
type CardCache struct {
	mu    sync.RWMutex
	cards map[string]*AgentCard
}

// NewCardCache constructs an empty card cache.
func NewCardCache() *CardCache {
	return &CardCache{cards: make(map[string]*AgentCard)}
}

// Get returns the cached card for an endpoint, if any.
func (c *CardCache) Get(endpoint string) (*AgentCard, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	card, ok := c.cards[endpoint]
	return card, ok
}

// Put stores the card for an endpoint, replacing any previous entry.
func (c *CardCache) Put(endpoint string, card *AgentCard) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cards[endpoint] = card
}

// Len reports the number of cached endpoints.
func (c *CardCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cards)
}
