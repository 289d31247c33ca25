package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_Phases(t *testing.T) {
	timer := NewTimer()

	time.Sleep(10 * time.Millisecond)
	first := timer.Mark("spawn")

	time.Sleep(5 * time.Millisecond)
	second := timer.Mark("parse")

	assert.GreaterOrEqual(t, first, 10*time.Millisecond)
	assert.GreaterOrEqual(t, second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, timer.Elapsed(), first+second)

	phases := timer.Phases()
	require.Len(t, phases, 2)
	assert.Equal(t, "spawn", phases[0].Label)
	assert.Equal(t, "parse", phases[1].Label)

	d, ok := timer.Get("parse")
	assert.True(t, ok)
	assert.Equal(t, second, d)

	_, ok = timer.Get("missing")
	assert.False(t, ok)
}

func TestTimer_PhasesIsACopy(t *testing.T) {
	timer := NewTimer()
	timer.Mark("a")

	phases := timer.Phases()
	phases[0].Label = "changed"

	assert.Equal(t, "a", timer.Phases()[0].Label)
}

func TestTimer_Summary(t *testing.T) {
	timer := NewTimer()
	assert.Regexp(t, `^total \d+\.\d{3}ms$`, timer.Summary())

	timer.Mark("args")
	timer.Mark("clang")
	assert.Regexp(t, `^total \d+\.\d{3}ms \(args \d+\.\d{3}ms, clang \d+\.\d{3}ms\)$`, timer.Summary())
}
