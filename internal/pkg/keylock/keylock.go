// Package keylock provides per-key mutual exclusion inside one process.
package keylock

import "sync"

// Locker hands out one mutex per key. An entry lives only while somebody holds
// or waits for it, so the map stays as small as the set of busy keys.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock blocks until key is free and returns the function that releases it.
//
// Example:
//
//	unlock := locks.Lock(orderID.String())
//	defer unlock()
func (l *Locker) Lock(key string) (unlock func()) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return l.release(key, e)
}

func (l *Locker) release(key string, e *entry) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			l.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(l.locks, key)
			}
			l.mu.Unlock()
		})
	}
}

// TryLock acquires key only if nobody holds it.
func (l *Locker) TryLock(key string) (unlock func(), ok bool) {
	l.mu.Lock()
	if _, busy := l.locks[key]; busy {
		l.mu.Unlock()
		return nil, false
	}
	e := &entry{refs: 1}
	e.mu.Lock()
	l.locks[key] = e
	l.mu.Unlock()

	return l.release(key, e), true
}

// Len reports how many keys are currently held or awaited.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
