package renderer

// handle counts the references to one native resource. The owner holds the
// first reference and borrowers add more; free runs when the count drops to
// zero and never again.
type handle struct {
	refs int
	free func()
}

func newHandle(free func()) *handle {
	return &handle{refs: 1, free: free}
}

func (h *handle) alive() bool {
	return h != nil && h.refs > 0
}

func (h *handle) retain() {
	if h.refs > 0 {
		h.refs++
	}
}

func (h *handle) release() {
	if h.refs == 0 {
		return
	}
	h.refs--
	if h.refs == 0 && h.free != nil {
		free := h.free
		h.free = nil
		free()
	}
}

// owned is the owner's end of a handle. Embedded in every wrapper.
type owned struct {
	h      *handle
	closed bool
}

// Close drops the owner's reference. The native resource is freed once no
// borrower holds it either. Calling Close more than once is a no-op.
func (o *owned) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	o.h.release()
	return nil
}

// usable reports ErrReleased once the owner has closed the wrapper.
func (o *owned) usable() error {
	if o.closed || !o.h.alive() {
		return ErrReleased
	}
	return nil
}

// borrow points *slot at next, retaining next before releasing the previous
// target so re-assigning the same object is safe.
func borrow(slot **handle, next *handle) {
	if next != nil {
		next.retain()
	}
	if *slot != nil {
		(*slot).release()
	}
	*slot = next
}
