// Package input pumps SDL2 events into state shared with the render loop.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	DX, DY float32
}

// State is what the event loop shares with the render loop.
type State struct {
	Keys     *KeySet
	Mouse    *MouseDelta
	Viewport *Viewport
}

// NewState creates empty shared input state.
func NewState() *State {
	return &State{
		Keys:     NewKeySet(),
		Mouse:    &MouseDelta{},
		Viewport: &Viewport{},
	}
}

// Apply folds one event into the shared state. It reports whether the
// event asks the program to quit.
func (s *State) Apply(e Event) bool {
	switch e.Type {
	case EventQuit:
		return true
	case EventWindowResize:
		s.Viewport.Resize(e.Width, e.Height)
	case EventKeyDown:
		if e.Key == sdl.SCANCODE_ESCAPE {
			return true
		}
		s.Keys.Press(e.Key)
	case EventKeyUp:
		s.Keys.Release(e.Key)
	case EventMouseMove:
		s.Mouse.Add(e.DX, e.DY)
	case EventMouseWheel:
		s.Mouse.AddWheel(e.DY)
	}
	return false
}

// Input converts SDL events. It must run on the main thread.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls pending SDL events into the shared state.
// Returns true if the program should quit.
func (i *Input) Update(s *State) bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		e, ok := convert(event)
		if !ok {
			continue
		}
		i.events = append(i.events, e)
		if s.Apply(e) {
			quit = true
		}
	}
	return quit
}

// Wait blocks up to timeoutMS for an event, then drains the queue like
// Update.
func (i *Input) Wait(s *State, timeoutMS int) bool {
	event := sdl.WaitEventTimeout(timeoutMS)
	if event != nil {
		if e, ok := convert(event); ok && s.Apply(e) {
			return true
		}
	}
	return i.Update(s)
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

func convert(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		}

	case *sdl.KeyboardEvent:
		switch e.Type {
		case sdl.KEYDOWN:
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		case sdl.KEYUP:
			return Event{Type: EventKeyUp, Key: e.Keysym.Scancode}, true
		}

	case *sdl.MouseMotionEvent:
		return Event{Type: EventMouseMove, DX: float32(e.XRel), DY: float32(e.YRel)}, true

	case *sdl.MouseWheelEvent:
		return Event{Type: EventMouseWheel, DY: float32(e.Y)}, true
	}
	return Event{}, false
}
