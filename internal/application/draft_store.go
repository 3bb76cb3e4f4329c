package application

import (
	"sync"
	"time"
)

// draftStore holds one payment draft per session until it is consumed or
// expires.
type draftStore struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]draftEntry
}

type draftEntry struct {
	draft     PaymentDraft
	expiresAt time.Time
}

func newDraftStore(ttl time.Duration, maxEntries int, now func() time.Time) *draftStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	if now == nil {
		now = time.Now
	}
	return &draftStore{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]draftEntry),
	}
}

func (c *draftStore) Get(sessionID string) (PaymentDraft, bool) {
	if c == nil {
		return PaymentDraft{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[sessionID]
	c.mu.RUnlock()
	if !ok {
		return PaymentDraft{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, sessionID)
		c.mu.Unlock()
		return PaymentDraft{}, false
	}
	return cloneDraft(entry.draft), true
}

func (c *draftStore) Store(sessionID string, draft PaymentDraft) {
	if c == nil {
		return
	}
	cloned := cloneDraft(draft)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if _, exists := c.entries[sessionID]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[sessionID] = draftEntry{draft: cloned, expiresAt: expiry}
}

func (c *draftStore) Delete(sessionID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, sessionID)
	c.mu.Unlock()
}

func (c *draftStore) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *draftStore) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *draftStore) evictOldestLocked() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for key, entry := range c.entries {
		if !found || entry.expiresAt.Before(oldest) {
			oldestKey, oldest, found = key, entry.expiresAt, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
	}
}

func cloneDraft(draft PaymentDraft) PaymentDraft {
	if draft.ServiceNames != nil {
		names := make([]string, len(draft.ServiceNames))
		copy(names, draft.ServiceNames)
		draft.ServiceNames = names
	}
	return draft
}
