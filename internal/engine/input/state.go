package input

import (
	"slices"
	"sync"

	"github.com/veandco/go-sdl2/sdl"
)

// KeySet is the set of keys currently held down, shared between the event
// loop and the render loop.
type KeySet struct {
	mu      sync.Mutex
	held    map[sdl.Scancode]struct{}
	pressed []sdl.Scancode
}

// NewKeySet creates an empty key set.
func NewKeySet() *KeySet {
	return &KeySet{held: make(map[sdl.Scancode]struct{})}
}

// Press records a key going down. Auto-repeat presses of a held key are
// not queued again.
func (k *KeySet) Press(sc sdl.Scancode) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.held[sc]; ok {
		return
	}
	k.held[sc] = struct{}{}
	k.pressed = append(k.pressed, sc)
}

// Release records a key going up.
func (k *KeySet) Release(sc sdl.Scancode) {
	k.mu.Lock()
	delete(k.held, sc)
	k.mu.Unlock()
}

// Snapshot copies the held keys. Held keys stay held until released.
func (k *KeySet) Snapshot() Keys {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make(Keys, len(k.held))
	for sc := range k.held {
		out[sc] = struct{}{}
	}
	return out
}

// TakePressed returns the keys pressed since the last call, in order, and
// clears the queue.
func (k *KeySet) TakePressed() []sdl.Scancode {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := k.pressed
	k.pressed = nil
	return out
}

// Keys is an immutable copy of a KeySet.
type Keys map[sdl.Scancode]struct{}

// Has reports whether sc was held.
func (k Keys) Has(sc sdl.Scancode) bool {
	_, ok := k[sc]
	return ok
}

// Sorted returns the held scancodes in ascending order.
func (k Keys) Sorted() []sdl.Scancode {
	out := make([]sdl.Scancode, 0, len(k))
	for sc := range k {
		out = append(out, sc)
	}
	slices.Sort(out)
	return out
}

// MouseDelta accumulates relative mouse motion and wheel steps between
// frames.
type MouseDelta struct {
	mu     sync.Mutex
	dx, dy float32
	wheel  float32
}

// Add accumulates motion in pixels.
func (m *MouseDelta) Add(dx, dy float32) {
	m.mu.Lock()
	m.dx += dx
	m.dy += dy
	m.mu.Unlock()
}

// AddWheel accumulates wheel steps.
func (m *MouseDelta) AddWheel(steps float32) {
	m.mu.Lock()
	m.wheel += steps
	m.mu.Unlock()
}

// Take returns the accumulated motion and resets it to zero.
func (m *MouseDelta) Take() (dx, dy, wheel float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dx, dy, wheel = m.dx, m.dy, m.wheel
	m.dx, m.dy, m.wheel = 0, 0, 0
	return dx, dy, wheel
}

// Viewport carries the latest window size from the event loop to the
// render loop.
type Viewport struct {
	mu            sync.Mutex
	width, height int
	changed       bool
}

// Resize records a new drawable size.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	v.width, v.height = width, height
	v.changed = true
	v.mu.Unlock()
}

// Take returns the latest size if it changed since the last call.
func (v *Viewport) Take() (width, height int, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.changed {
		return 0, 0, false
	}
	v.changed = false
	return v.width, v.height, true
}
