package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCallWindow(t *testing.T) {
	now := time.Now()
	w := newCallWindow(3)
	w.now = func() time.Time { return now }

	t.Run("allows up to the ceiling", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			assert.True(t, w.Allow())
			w.Record()
		}
		assert.False(t, w.Allow())
		assert.Equal(t, 3, w.Recent())
	})

	t.Run("old calls slide out of the window", func(t *testing.T) {
		now = now.Add(61 * time.Second)
		assert.True(t, w.Allow())
		assert.Equal(t, 0, w.Recent())
	})

	t.Run("partial pruning keeps recent calls", func(t *testing.T) {
		w.Record()
		w.Record()
		now = now.Add(30 * time.Second)
		w.Record()
		now = now.Add(31 * time.Second)
		// The first two calls are now outside the 60s window.
		assert.Equal(t, 1, w.Recent())
		assert.True(t, w.Allow())
	})
}
