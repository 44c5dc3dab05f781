package render

import "sync"

// SimBackend is an in-memory Backend for tests: a fixed-size cell grid and
// a scripted event queue.
type SimBackend struct {
	mu     sync.Mutex
	width  int
	height int
	cells  [][]rune
	styles [][]Style
	events chan Event
	closed bool
}

func NewSimBackend(width, height int) *SimBackend {
	b := &SimBackend{
		width:  width,
		height: height,
		events: make(chan Event, 64),
	}
	b.resetGrid()
	return b
}

func (b *SimBackend) resetGrid() {
	b.cells = make([][]rune, b.height)
	b.styles = make([][]Style, b.height)
	for y := range b.cells {
		b.cells[y] = make([]rune, b.width)
		b.styles[y] = make([]Style, b.width)
		for x := range b.cells[y] {
			b.cells[y][x] = ' '
		}
	}
}

func (b *SimBackend) Init() error { return nil }

func (b *SimBackend) Fini() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.events)
	}
}

func (b *SimBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *SimBackend) SetContent(x, y int, r rune, style Style) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.cells[y][x] = r
	b.styles[y][x] = style
}

func (b *SimBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetGrid()
}

func (b *SimBackend) Show() {}

func (b *SimBackend) PollEvent() Event {
	ev, ok := <-b.events
	if !ok {
		return nil
	}
	return ev
}

func (b *SimBackend) PostEvent(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.events <- ev:
	default:
	}
}

// Row returns the text content of a screen row.
func (b *SimBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	return string(b.cells[y])
}

// StyleAt returns the style of one cell.
func (b *SimBackend) StyleAt(x, y int) Style {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return StyleNormal
	}
	return b.styles[y][x]
}
