package local

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoroutineIdent_StableWithinGoroutine(t *testing.T) {
	assert.Equal(t, GoroutineIdent(), GoroutineIdent())
}

func TestGoroutineIdent_DiffersAcrossGoroutines(t *testing.T) {
	mine := GoroutineIdent()

	var (
		theirs ContextID
		wg     sync.WaitGroup
	)

	wg.Add(1)

	go func() {
		defer wg.Done()
		theirs = GoroutineIdent()
	}()

	wg.Wait()

	assert.NotEqual(t, mine, theirs)
}

func TestFixedIdent(t *testing.T) {
	fn := FixedIdent(42)

	assert.Equal(t, ContextID(42), fn())
	assert.Equal(t, ContextID(42), fn())
}

func TestNewSequenceIdent_AllocatesDistinctIDs(t *testing.T) {
	next := NewSequenceIdent()

	seen := make(map[ContextID]struct{})
	for range 100 {
		id := next()
		_, dup := seen[id]
		assert.False(t, dup, "id %d allocated twice", id)
		seen[id] = struct{}{}
	}
}
