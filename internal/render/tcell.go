package render

import (
	"github.com/gdamore/tcell/v2"
)

// TcellBackend renders through a real terminal.
type TcellBackend struct {
	screen tcell.Screen
}

func NewTcellBackend() (*TcellBackend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &TcellBackend{screen: screen}, nil
}

func (b *TcellBackend) Init() error {
	if err := b.screen.Init(); err != nil {
		return err
	}
	b.screen.HideCursor()
	return nil
}

func (b *TcellBackend) Fini() {
	b.screen.Fini()
}

func (b *TcellBackend) Size() (int, int) {
	return b.screen.Size()
}

func (b *TcellBackend) SetContent(x, y int, r rune, style Style) {
	b.screen.SetContent(x, y, r, nil, convertStyle(style))
}

func (b *TcellBackend) Clear() {
	b.screen.Clear()
}

func (b *TcellBackend) Show() {
	b.screen.Show()
}

func (b *TcellBackend) PollEvent() Event {
	for {
		switch ev := b.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			b.screen.Sync()
			return ResizeEvent{}
		case *tcell.EventInterrupt:
			return RefreshEvent{}
		case *tcell.EventKey:
			return convertKey(ev)
		}
	}
}

func (b *TcellBackend) PostEvent(ev Event) {
	// Only refresh wakes are ever posted from outside the terminal.
	_ = b.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

func convertKey(ev *tcell.EventKey) KeyEvent {
	switch ev.Key() {
	case tcell.KeyLeft:
		return KeyEvent{Key: KeyLeft}
	case tcell.KeyRight:
		return KeyEvent{Key: KeyRight}
	case tcell.KeyUp:
		return KeyEvent{Key: KeyUp}
	case tcell.KeyDown:
		return KeyEvent{Key: KeyDown}
	case tcell.KeyEnter:
		return KeyEvent{Key: KeyEnter}
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return KeyEvent{Key: KeyEscape}
	case tcell.KeyRune:
		return KeyEvent{Rune: ev.Rune()}
	default:
		return KeyEvent{}
	}
}

func convertStyle(s Style) tcell.Style {
	base := tcell.StyleDefault
	switch s {
	case StyleFocus:
		return base.Foreground(tcell.ColorRed).Bold(true)
	case StyleDim:
		return base.Foreground(tcell.ColorGray)
	case StyleStatus:
		return base.Foreground(tcell.ColorTeal)
	default:
		return base
	}
}
