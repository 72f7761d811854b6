package threadview

import "github.com/hay-kot/threadline/internal/core/selection"

var _ selection.Handle = (*lineHandle)(nil)

// lineHandle is the render state of one on-screen source line.
type lineHandle struct {
	highlighted bool
	control     bool
}

func (h *lineHandle) SetHighlighted(on bool)    { h.highlighted = on }
func (h *lineHandle) SetControlVisible(on bool) { h.control = on }
