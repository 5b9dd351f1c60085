package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeBlockDurationMin(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	b := TimeBlock{StartTime: start, EndTime: start.Add(90 * time.Minute)}
	assert.Equal(t, 90, b.DurationMin())
}

func TestTimeBlockOverlaps(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 3, 2, h, 0, 0, 0, time.UTC) }
	block := func(s, e int) TimeBlock { return TimeBlock{StartTime: at(s), EndTime: at(e)} }

	assert.True(t, block(9, 11).Overlaps(block(10, 12)))
	assert.True(t, block(9, 11).Overlaps(block(8, 12)))
	// Half-open: touching endpoints do not overlap.
	assert.False(t, block(9, 11).Overlaps(block(11, 12)))
	assert.False(t, block(9, 11).Overlaps(block(7, 9)))
}

func TestCanTransitionTo(t *testing.T) {
	scheduled := TimeBlock{Status: BlockScheduled}
	assert.True(t, scheduled.CanTransitionTo(BlockCompleted))
	assert.True(t, scheduled.CanTransitionTo(BlockSkipped))
	assert.False(t, scheduled.CanTransitionTo(BlockScheduled))
	assert.False(t, scheduled.CanTransitionTo(BlockExternal))

	for _, terminal := range []BlockStatus{BlockCompleted, BlockSkipped, BlockExternal} {
		b := TimeBlock{Status: terminal}
		assert.False(t, b.CanTransitionTo(BlockCompleted), "from %s", terminal)
		assert.False(t, b.CanTransitionTo(BlockSkipped), "from %s", terminal)
	}
}

func TestErrInvalidTransitionMessage(t *testing.T) {
	err := &ErrInvalidTransition{From: BlockCompleted, To: BlockSkipped}
	assert.Equal(t, "invalid block transition completed -> skipped", err.Error())
}
