// Package render draws RSVP frames to a terminal and translates raw key
// presses into the abstract input events the player accepts. The Backend
// interface decouples the drawing code from tcell so tests run against an
// in-memory screen.
package render

// Style selects one of the fixed cell styles of the reader surface.
type Style int

const (
	StyleNormal Style = iota
	StyleFocus
	StyleDim
	StyleStatus
)

// Key identifies non-rune keys the session loop cares about.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyEnter
	KeyEscape
)

// Event is a terminal event: KeyEvent, ResizeEvent or RefreshEvent.
type Event any

// KeyEvent is one key press; Rune is set for printable keys.
type KeyEvent struct {
	Key  Key
	Rune rune
}

// ResizeEvent reports a changed terminal size.
type ResizeEvent struct{}

// RefreshEvent is posted by player hooks to wake the session loop for a
// redraw; it never originates from the terminal.
type RefreshEvent struct{}

// Backend is the terminal abstraction. PollEvent blocks; a nil return
// means the backend is shutting down.
type Backend interface {
	Init() error
	Fini()
	Size() (width, height int)
	SetContent(x, y int, r rune, style Style)
	Clear()
	Show()
	PollEvent() Event
	PostEvent(ev Event)
}
