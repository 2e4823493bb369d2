// Package input turns window backend events into engine key and mouse
// state. Backends translate their native codes to Key and push Events.
package input

// Key is a backend-independent key code.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyF
	KeyC
	KeyTab
	KeyEscape
	KeyF12
	keyCount
)

var keyNames = [keyCount]string{
	KeyUnknown: "Unknown",
	KeyW:       "W",
	KeyA:       "A",
	KeyS:       "S",
	KeyD:       "D",
	KeyQ:       "Q",
	KeyE:       "E",
	KeyF:       "F",
	KeyC:       "C",
	KeyTab:     "Tab",
	KeyEscape:  "Escape",
	KeyF12:     "F12",
}

func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return "Unknown"
}

// Button is a mouse button.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// EventType identifies an Event.
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
	// EventFocusLost releases every held key.
	EventFocusLost
)

// Event is a processed input event. DX and DY are the relative motion of
// an EventMouseMove.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
	DX, DY float32
	Button Button
}

// Input collects the events of one frame and tracks held keys across
// frames.
type Input struct {
	events []Event
	down   [keyCount]bool

	quit             bool
	resized          bool
	width, height    int
	mouseDX, mouseDY float32
}

// New creates an input handler.
func New() *Input {
	return &Input{events: make([]Event, 0, 16)}
}

// BeginFrame clears the per-frame events. Held keys persist.
func (i *Input) BeginFrame() {
	i.events = i.events[:0]
	i.resized = false
	i.mouseDX, i.mouseDY = 0, 0
}

// Push records an event.
func (i *Input) Push(e Event) {
	i.events = append(i.events, e)
	switch e.Type {
	case EventQuit:
		i.quit = true
	case EventWindowResize:
		i.resized = true
		i.width, i.height = e.Width, e.Height
	case EventKeyDown:
		if e.Key < keyCount {
			i.down[e.Key] = true
		}
	case EventKeyUp:
		if e.Key < keyCount {
			i.down[e.Key] = false
		}
	case EventMouseMove:
		i.mouseDX += e.DX
		i.mouseDY += e.DY
	case EventFocusLost:
		i.ReleaseAll()
	}
}

// Events returns the events pushed since BeginFrame.
func (i *Input) Events() []Event { return i.events }

// QuitRequested reports whether a quit event was ever pushed.
func (i *Input) QuitRequested() bool { return i.quit }

// Resized returns the latest size if the window was resized this frame.
func (i *Input) Resized() (width, height int, ok bool) {
	return i.width, i.height, i.resized
}

// Down reports whether key is held.
func (i *Input) Down(key Key) bool {
	return key < keyCount && i.down[key]
}

// Pressed reports whether key went down this frame.
func (i *Input) Pressed(key Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}

// Clicked reports whether button went down this frame.
func (i *Input) Clicked(b Button) bool {
	for _, e := range i.events {
		if e.Type == EventMouseDown && e.Button == b {
			return true
		}
	}
	return false
}

// MouseDelta returns the summed relative mouse motion of this frame.
func (i *Input) MouseDelta() (dx, dy float32) {
	return i.mouseDX, i.mouseDY
}

// ReleaseAll forgets every held key, for when the window loses focus.
func (i *Input) ReleaseAll() {
	i.down = [keyCount]bool{}
}
