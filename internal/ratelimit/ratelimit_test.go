package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowEnforcesCeiling(t *testing.T) {
	l := New(5, time.Hour)
	defer l.Stop()

	for i := range 5 {
		assert.True(t, l.Allow("10.0.0.1"), "request %d should be admitted", i+1)
	}

	assert.False(t, l.Allow("10.0.0.1"), "request over the ceiling should be rejected")
}

func TestAllowTracksClientsIndependently(t *testing.T) {
	l := New(1, time.Hour)
	defer l.Stop()

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	assert.True(t, l.Allow("10.0.0.2"), "a fresh client must not inherit another client's count")
}

func TestAllowIsSafeForConcurrentUse(t *testing.T) {
	l := New(1000, time.Hour)
	defer l.Stop()

	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("10.0.0.%d", n)
			for range 50 {
				l.Allow(key)
			}
		}(i)
	}

	wg.Wait()

	for i := range 10 {
		assert.True(t, l.Allow(fmt.Sprintf("10.0.0.%d", i)))
	}
}
