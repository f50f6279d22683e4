package scheduling

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type lockEntry struct {
	mu       sync.Mutex
	refs     int
	lastUsed time.Time
}

// LockTable serializes booking writes per key so two concurrent requests for
// the same (tenant, date, staff) slot cannot both pass the final availability
// re-check. Entries are created on demand and pruned once idle.
type LockTable struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

func NewLockTable() *LockTable {
	lt := &LockTable{locks: make(map[string]*lockEntry)}
	go lt.cleanup()
	return lt
}

func (lt *LockTable) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		lt.mu.Lock()
		now := time.Now()
		for key, entry := range lt.locks {
			if entry.refs == 0 && now.Sub(entry.lastUsed) > 10*time.Minute {
				delete(lt.locks, key)
			}
		}
		lt.mu.Unlock()
	}
}

// Lock acquires the mutex for key and returns the matching unlock func.
func (lt *LockTable) Lock(key string) func() {
	lt.mu.Lock()
	entry, exists := lt.locks[key]
	if !exists {
		entry = &lockEntry{}
		lt.locks[key] = entry
	}
	entry.refs++
	lt.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		lt.mu.Lock()
		entry.refs--
		entry.lastUsed = time.Now()
		lt.mu.Unlock()
	}
}

// BookingKey builds the serialization key for a booking write. All writes for
// one tenant and date share a key, because an unassigned booking conflicts
// with the whole day while staff bookings conflict with their own column;
// a narrower key would let those two race each other.
func BookingKey(tenantID uuid.UUID, date string) string {
	return tenantID.String() + ":" + date
}
