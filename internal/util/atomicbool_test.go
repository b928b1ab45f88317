package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBool(t *testing.T) {
	b := NewBool(false)
	assert.False(t, b.Load())

	b.Store(true)
	assert.True(t, b.Load())

	assert.True(t, b.Swap(false))
	assert.False(t, b.Load())

	assert.True(t, b.CAS(false, true))
	assert.False(t, b.CAS(false, true))
	assert.True(t, b.Load())

	assert.True(t, b.Toggle())
	assert.False(t, b.Load())
}

// concurrent writers and readers - run with -race to verify the atomicity
// the search's stop flag depends on.
func TestBoolConcurrent(t *testing.T) {
	b := NewBool(false)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				b.Store(true)
				_ = b.Load()
			}
		}()
	}
	wg.Wait()
	assert.True(t, b.Load())
}
