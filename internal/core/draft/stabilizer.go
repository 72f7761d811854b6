package draft

// ScrollSource reports the current vertical scroll position of the host.
type ScrollSource interface {
	ScrollOffset() int
}

// ScrollEvent is a scroll position change observed by the host. User is set
// when the change came from keyboard or pointer input rather than reflow.
type ScrollEvent struct {
	Offset int
	User   bool
}

// Stabilizer pins the scroll position while the discussion list reflows
// after a commit. It is armed with the offset captured before the list
// changes, restores that offset for every scroll event until the host calls
// Settle, and disarms on the first user scroll after that.
type Stabilizer struct {
	armed   bool
	settled bool
	offset  int
}

// Arm captures offset as the position to restore.
func (s *Stabilizer) Arm(offset int) {
	s.armed = true
	s.settled = false
	s.offset = offset
}

// Armed reports whether scroll events are being corrected.
func (s *Stabilizer) Armed() bool {
	return s.armed
}

// OnScroll returns the offset the host should scroll to and whether it
// differs from the one in the event.
func (s *Stabilizer) OnScroll(ev ScrollEvent) (int, bool) {
	if !s.armed {
		return ev.Offset, false
	}
	if ev.User && s.settled {
		s.Disarm()
		return ev.Offset, false
	}
	return s.offset, ev.Offset != s.offset
}

// Settle marks the reflow as finished.
func (s *Stabilizer) Settle() {
	if s.armed {
		s.settled = true
	}
}

// Disarm stops correcting scroll events.
func (s *Stabilizer) Disarm() {
	s.armed = false
	s.settled = false
}
