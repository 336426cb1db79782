package compiler

// Frame hands out local variable slots for one method with a stack
// discipline: slots are released in reverse order of allocation.
type Frame struct {
	size      int
	maxLocals int
}

// NewFrame reserves the first reserved slots, e.g. slot 0 for main's args.
func NewFrame(reserved int) *Frame {
	return &Frame{size: reserved, maxLocals: reserved}
}

func (f *Frame) AllocLocal() int {
	slot := f.size
	f.size++
	if f.size > f.maxLocals {
		f.maxLocals = f.size
	}
	return slot
}

// PopLocal releases the most recently allocated slot and returns it.
func (f *Frame) PopLocal() int {
	if f.size == 0 {
		panic("compiler: PopLocal on empty frame")
	}
	f.size--
	return f.size
}

// FrameEnd is the first free slot.
func (f *Frame) FrameEnd() int {
	return f.size
}

// MaxLocals is the high-water mark, the value for `.limit locals`.
func (f *Frame) MaxLocals() int {
	return f.maxLocals
}

// popTo releases slots until FrameEnd is end.
func (f *Frame) popTo(end int) {
	for f.size > end {
		f.PopLocal()
	}
}
