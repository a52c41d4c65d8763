package services

import "sync"

// CompetitionLocks serializes read-modify-write cycles per key inside one process.
// Across processes the row locks taken in the transaction do the same job.
type CompetitionLocks struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func NewCompetitionLocks() *CompetitionLocks {
	return &CompetitionLocks{locks: make(map[string]*refMutex)}
}

// Lock blocks until key is free and returns the unlock function.
func (l *CompetitionLocks) Lock(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &refMutex{}
		l.locks[key] = m
	}
	m.refs++
	l.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		l.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
