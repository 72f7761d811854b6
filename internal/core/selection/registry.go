package selection

// Handle is the per-line render hook the controller drives. The host
// registers one for every line it currently has on screen.
type Handle interface {
	SetHighlighted(on bool)
	SetControlVisible(on bool)
}

// Registry holds the handles for the lines in the rendered window, keyed by
// 1-indexed source line.
type Registry struct {
	handles map[int]Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[int]Handle)}
}

// Get returns the handle for a line.
func (r *Registry) Get(line int) (Handle, bool) {
	h, ok := r.handles[line]
	return h, ok
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	return len(r.handles)
}

func (r *Registry) set(line int, h Handle) {
	r.handles[line] = h
}

func (r *Registry) remove(line int) {
	delete(r.handles, line)
}
