package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStabilizer(t *testing.T) {
	var s Stabilizer

	off, changed := s.OnScroll(ScrollEvent{Offset: 10, User: true})
	assert.Equal(t, 10, off)
	assert.False(t, changed, "unarmed stabilizer passes events through")

	s.Arm(25)

	off, changed = s.OnScroll(ScrollEvent{Offset: 31})
	assert.Equal(t, 25, off)
	assert.True(t, changed)

	off, changed = s.OnScroll(ScrollEvent{Offset: 12, User: true})
	assert.Equal(t, 25, off, "user scroll during reflow is still corrected")
	assert.True(t, changed)

	off, changed = s.OnScroll(ScrollEvent{Offset: 25})
	assert.Equal(t, 25, off)
	assert.False(t, changed)

	s.Settle()

	off, _ = s.OnScroll(ScrollEvent{Offset: 28})
	assert.Equal(t, 25, off, "reflow events after settle are corrected")
	assert.True(t, s.Armed())

	off, changed = s.OnScroll(ScrollEvent{Offset: 26, User: true})
	assert.Equal(t, 26, off)
	assert.False(t, changed)
	assert.False(t, s.Armed(), "first user scroll after settle disarms")
}

func TestStabilizer_SettleWhileDisarmed(t *testing.T) {
	var s Stabilizer
	s.Settle()
	s.Arm(3)

	off, _ := s.OnScroll(ScrollEvent{Offset: 9, User: true})
	assert.Equal(t, 3, off, "settle before arm has no effect")
}
