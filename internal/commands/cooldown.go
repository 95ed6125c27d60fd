// internal/commands/cooldown.go
package commands

import (
	"fmt"
	"sync"
	"time"
)

// CooldownTracker rate-limits command use per (user, command). Expired
// entries are overwritten on the next attempt, so the map stays bounded by
// the active user set.
type CooldownTracker struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Check reports whether the user may run the command now. When allowed, the
// cooldown window is armed; when blocked, the remaining wait is returned.
func (c *CooldownTracker) Check(userID, command string, window time.Duration) (bool, time.Duration) {
	key := fmt.Sprintf("%s:%s", userID, command)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if until, ok := c.entries[key]; ok && now.Before(until) {
		return false, until.Sub(now)
	}

	c.entries[key] = now.Add(window)
	return true, 0
}
