package screening

import (
	"sync"
	"time"
)

const defaultRunTTL = 30 * time.Minute

// RunCache keeps completed runs addressable by run id until they expire.
type RunCache struct {
	mu   sync.Mutex
	runs map[string]cachedRun
	now  func() time.Time
	ttl  time.Duration
}

type cachedRun struct {
	run       *Run
	expiresAt time.Time
}

func NewRunCache(ttl time.Duration, now func() time.Time) *RunCache {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = defaultRunTTL
	}
	return &RunCache{
		runs: make(map[string]cachedRun),
		now:  now,
		ttl:  ttl,
	}
}

// Put stores run and drops expired entries.
func (c *RunCache) Put(run *Run) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, entry := range c.runs {
		if !now.Before(entry.expiresAt) {
			delete(c.runs, id)
		}
	}
	c.runs[run.ID] = cachedRun{run: run, expiresAt: now.Add(c.ttl)}
}

func (c *RunCache) Get(id string) (*Run, bool) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.runs[id]
	if !ok {
		return nil, false
	}
	if !now.Before(entry.expiresAt) {
		delete(c.runs, id)
		return nil, false
	}
	return entry.run, true
}
