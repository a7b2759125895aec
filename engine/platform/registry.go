package platform

import (
	"github.com/rotisserie/eris"
)

// Registry maps window handles to the procedures that own them. Handles are
// slot indices plus one, and freed slots are reused.
type Registry struct {
	owners []WindowProcedure
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Acquire(owner WindowProcedure) WindowHandle {
	for i := range r.owners {
		// Existing free spot. Take it.
		if r.owners[i] == nil {
			r.owners[i] = owner
			return WindowHandle(i + 1)
		}
	}

	// If here, no existing free slots. Need a new id, so push one.
	r.owners = append(r.owners, owner)
	return WindowHandle(len(r.owners))
}

func (r *Registry) Lookup(handle WindowHandle) (WindowProcedure, bool) {
	if handle == InvalidWindowHandle || int(handle) > len(r.owners) {
		return nil, false
	}
	owner := r.owners[handle-1]
	return owner, owner != nil
}

func (r *Registry) Release(handle WindowHandle) error {
	if handle == InvalidWindowHandle || int(handle) > len(r.owners) {
		return eris.Errorf("window handle '%d' out of range (max=%d). Nothing was done", handle, len(r.owners))
	}
	if r.owners[handle-1] == nil {
		return eris.Errorf("window handle '%d' is not in use. Nothing was done", handle)
	}
	// Just zero out the entry, making it available for use.
	r.owners[handle-1] = nil
	return nil
}

// Len returns the number of handles in use.
func (r *Registry) Len() int {
	n := 0
	for _, o := range r.owners {
		if o != nil {
			n++
		}
	}
	return n
}
