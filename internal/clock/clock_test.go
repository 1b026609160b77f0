package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNowMSMonotonicAndNonNegative(t *testing.T) {
	c := New()
	first := c.NowMS()
	assert.GreaterOrEqual(t, first, int64(0))

	time.Sleep(5 * time.Millisecond)
	second := c.NowMS()
	assert.Greater(t, second, first)
}

func TestNowMSResolution(t *testing.T) {
	c := New()
	time.Sleep(10 * time.Millisecond)
	assert.InDelta(t, 10, c.NowMS(), 20, "clock should resolve sub-10ms sleeps without huge drift")
}
