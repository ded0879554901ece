package preview

import (
	"sync"
	"time"
)

// buildStatus tracks the outcome of the latest reload for /healthz.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastReload   time.Time
	hasGoodBuild bool // true if at least one snapshot was published
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.lastReload = time.Now()
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.lastReload = time.Now()
	bs.hasGoodBuild = true
}

func (bs *buildStatus) getStatus() (lastErr error, hasGoodBuild bool, lastReload time.Time) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.hasGoodBuild, bs.lastReload
}
