package service

import (
	"sort"
	"sync"
)

// accountLocks serializes work on the same account numbers within the process
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*accountLock
}

type accountLock struct {
	mu   sync.Mutex
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*accountLock)}
}

// Lock acquires the locks of all given accounts in sorted order, so two
// transfers between the same pair in opposite directions can not deadlock.
func (l *accountLocks) Lock(numbers ...string) func() {
	keys := make([]string, 0, len(numbers))
	seen := make(map[string]bool, len(numbers))
	for _, n := range numbers {
		if !seen[n] {
			seen[n] = true
			keys = append(keys, n)
		}
	}
	sort.Strings(keys)

	held := make([]*accountLock, 0, len(keys))
	l.mu.Lock()
	for _, k := range keys {
		lk, ok := l.locks[k]
		if !ok {
			lk = &accountLock{}
			l.locks[k] = lk
		}
		lk.refs++
		held = append(held, lk)
	}
	l.mu.Unlock()

	for _, lk := range held {
		lk.mu.Lock()
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
		}

		l.mu.Lock()
		for i, k := range keys {
			held[i].refs--
			if held[i].refs == 0 {
				delete(l.locks, k)
			}
		}
		l.mu.Unlock()
	}
}
