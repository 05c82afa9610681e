package utils

import "sync"

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// AccountLocks serializes work per account ID. Entries are dropped once no
// goroutine holds or waits on them.
type AccountLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

func NewAccountLocks() *AccountLocks {
	return &AccountLocks{locks: make(map[string]*lockEntry)}
}

// Lock blocks until id is free and returns the matching unlock.
func (l *AccountLocks) Lock(id string) (unlock func()) {
	l.mu.Lock()
	entry, exists := l.locks[id]
	if !exists {
		entry = &lockEntry{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()

			l.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(l.locks, id)
			}
			l.mu.Unlock()
		})
	}
}

// Size returns the number of IDs currently held or awaited.
func (l *AccountLocks) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
