// Package lock provides per-user locking. Handlers that read-modify-write
// user-scoped state (registration step, wizard session, party roster)
// hold the user's lock so that a duplicated callback and a text message
// arriving together cannot interleave.
package lock

import (
	"errors"
	"sync"
)

// ErrBusy is returned by WithTryLock when the user already has an
// operation in flight.
var ErrBusy = errors.New("another operation is in progress")

// UserLock provides per-user mutual exclusion.
type UserLock struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewUserLock creates a new UserLock instance.
func NewUserLock() *UserLock {
	return &UserLock{locks: make(map[int64]*sync.Mutex)}
}

func (ul *UserLock) get(userID int64) *sync.Mutex {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	m, ok := ul.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		ul.locks[userID] = m
	}
	return m
}

// Lock acquires the lock for a user.
func (ul *UserLock) Lock(userID int64) {
	ul.get(userID).Lock()
}

// Unlock releases the lock for a user.
func (ul *UserLock) Unlock(userID int64) {
	ul.get(userID).Unlock()
}

// TryLock attempts to acquire the lock without blocking.
func (ul *UserLock) TryLock(userID int64) bool {
	return ul.get(userID).TryLock()
}

// WithLock executes fn while holding the user's lock.
func (ul *UserLock) WithLock(userID int64, fn func() error) error {
	ul.Lock(userID)
	defer ul.Unlock(userID)
	return fn()
}

// WithTryLock executes fn while holding the user's lock, or returns
// ErrBusy without waiting. Used to suppress duplicated callbacks.
func (ul *UserLock) WithTryLock(userID int64, fn func() error) error {
	if !ul.TryLock(userID) {
		return ErrBusy
	}
	defer ul.Unlock(userID)
	return fn()
}
