// Package syncutil provides the per-user mutual exclusion used to serialize
// record mutations while fetch/deliver work runs in parallel across users.
package syncutil

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex is a mutex per int64 key. Entries are created on first Lock and
// dropped once the last holder unlocks, so the map stays bounded by the number
// of concurrently active keys.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[int64]*entry)}
}

func (k *KeyedMutex) Lock(key int64) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

func (k *KeyedMutex) Unlock(key int64) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		k.mu.Unlock()
		panic("syncutil: unlock of unlocked key")
	}
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
