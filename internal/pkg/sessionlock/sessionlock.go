// Package sessionlock provides per-session mutual exclusion so concurrent
// turns on one session cannot interleave their read-append-compact sequence.
package sessionlock

import "sync"

// KeyedMutex hands out one mutex per key. Mutexes are never evicted; the
// working set is bounded by the number of live sessions, which is small and
// TTL-bounded upstream.
type KeyedMutex struct {
	locks sync.Map
}

func New() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock acquires the mutex for key and returns its unlock function.
func (km *KeyedMutex) Lock(key string) func() {
	value, _ := km.locks.LoadOrStore(key, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
