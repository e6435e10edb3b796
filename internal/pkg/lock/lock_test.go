package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// For any interleaving of concurrent read-modify-write operations on the
// same user, holding the user's lock must make the result equal to
// sequential execution.
func TestConcurrentUpdateSafetyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numOps := rapid.IntRange(2, 20).Draw(t, "numOps")
		userID := rapid.Int64Range(1, 1000000).Draw(t, "userID")

		deltas := make([]int64, numOps)
		var expected int64
		for i := range deltas {
			deltas[i] = rapid.Int64Range(-500, 500).Draw(t, "delta")
			expected += deltas[i]
		}

		ul := NewUserLock()
		var counter int64

		var wg sync.WaitGroup
		wg.Add(numOps)
		for _, d := range deltas {
			go func(d int64) {
				defer wg.Done()
				ul.Lock(userID)
				defer ul.Unlock(userID)
				v := counter
				counter = v + d
			}(d)
		}
		wg.Wait()

		if counter != expected {
			t.Fatalf("counter=%d, expected %d", counter, expected)
		}
	})
}

func TestTryLock(t *testing.T) {
	ul := NewUserLock()

	require.True(t, ul.TryLock(1))
	assert.False(t, ul.TryLock(1), "second TryLock on same user must fail")
	assert.True(t, ul.TryLock(2), "other users are unaffected")

	ul.Unlock(1)
	assert.True(t, ul.TryLock(1))
	ul.Unlock(1)
	ul.Unlock(2)
}

func TestWithTryLockBusy(t *testing.T) {
	ul := NewUserLock()
	ul.Lock(7)

	err := ul.WithTryLock(7, func() error { return nil })
	assert.ErrorIs(t, err, ErrBusy)

	ul.Unlock(7)
	called := false
	err = ul.WithTryLock(7, func() error { called = true; return nil })
	require.NoError(t, err)
	assert.True(t, called)
}
