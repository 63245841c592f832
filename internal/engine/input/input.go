// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	Wheel  float32
	Button uint8
}

// Input handles all input processing.
type Input struct {
	events   []Event
	dragging bool
	dragX    float32
	dragY    float32
	wheel    float32
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events for this frame.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.dragX, i.dragY, i.wheel = 0, 0, 0

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.handle(event) {
			return true
		}
	}
	return false
}

func (i *Input) handle(event sdl.Event) (quit bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED {
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			break
		}
		typ := EventKeyUp
		if e.Type == sdl.KEYDOWN {
			typ = EventKeyDown
		}
		i.events = append(i.events, Event{Type: typ, Key: e.Keysym.Scancode})

	case *sdl.MouseMotionEvent:
		if i.dragging {
			i.dragX += float32(e.XRel)
			i.dragY += float32(e.YRel)
		}
		i.events = append(i.events, Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: int(e.XRel),
			DeltaY: int(e.YRel),
		})

	case *sdl.MouseButtonEvent:
		typ := EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			typ = EventMouseDown
		}
		if e.Button == sdl.BUTTON_LEFT {
			i.dragging = typ == EventMouseDown
		}
		i.events = append(i.events, Event{
			Type:   typ,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: e.Button,
		})

	case *sdl.MouseWheelEvent:
		i.wheel += e.PreciseY
		i.events = append(i.events, Event{Type: EventMouseWheel, Wheel: e.PreciseY})
	}
	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Drag returns the mouse movement with the left button held this frame.
func (i *Input) Drag() (dx, dy float32) {
	return i.dragX, i.dragY
}

// Wheel returns the scroll amount this frame.
func (i *Input) Wheel() float32 {
	return i.wheel
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
