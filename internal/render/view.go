package render

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Frame is everything the surface shows at one instant. The session loop
// owns it; drawing is a pure projection of the frame onto the backend.
type Frame struct {
	Word string
	// ORP is the rune offset inside Word to pin at the focus column.
	ORP    int
	Status string

	// Question, when non-nil, overlays the word with a quiz prompt.
	Question *QuestionView

	Done       bool
	DoneResult string
}

// QuestionView is the rendered form of a quiz prompt.
type QuestionView struct {
	Prompt  string
	Choices []string
	Number  int
	Total   int
}

// Draw projects the frame onto the backend. The word is positioned so its
// ORP rune sits at the fixed focus column; the eye never moves.
func Draw(b Backend, f Frame) {
	b.Clear()
	w, h := b.Size()
	cx := w / 2
	cy := h / 2

	switch {
	case f.Done:
		drawCentered(b, cy-1, "session complete", StyleNormal)
		if f.DoneResult != "" {
			drawCentered(b, cy+1, f.DoneResult, StyleDim)
		}
	case f.Question != nil:
		drawQuestion(b, f.Question, w, h)
	default:
		drawWord(b, f.Word, f.ORP, cx, cy)
	}

	if f.Status != "" {
		drawText(b, 1, h-1, f.Status, StyleStatus)
	}
	b.Show()
}

func drawWord(b Backend, word string, orp, cx, cy int) {
	// Guide marks above and below the focus column.
	b.SetContent(cx, cy-1, '▼', StyleDim)
	b.SetContent(cx, cy+1, '▲', StyleDim)

	runes := []rune(word)
	if orp < 0 {
		orp = 0
	}
	if orp >= len(runes) && len(runes) > 0 {
		orp = len(runes) - 1
	}

	prefix := 0
	for _, r := range runes[:orp] {
		prefix += runewidth.RuneWidth(r)
	}

	x := cx - prefix
	for i, r := range runes {
		style := StyleNormal
		if i == orp {
			style = StyleFocus
		}
		b.SetContent(x, cy, r, style)
		x += runewidth.RuneWidth(r)
	}
}

func drawQuestion(b Backend, q *QuestionView, w, h int) {
	top := h/2 - (len(q.Choices)+3)/2
	if top < 0 {
		top = 0
	}
	drawCentered(b, top, fmt.Sprintf("question %d of %d", q.Number, q.Total), StyleDim)
	drawCentered(b, top+1, q.Prompt, StyleNormal)
	for i, choice := range q.Choices {
		drawCentered(b, top+3+i, fmt.Sprintf("%d) %s", i+1, choice), StyleNormal)
	}
}

func drawCentered(b Backend, y int, s string, style Style) {
	w, _ := b.Size()
	x := (w - runewidth.StringWidth(s)) / 2
	if x < 0 {
		x = 0
	}
	drawText(b, x, y, s, style)
}

func drawText(b Backend, x, y int, s string, style Style) {
	for _, r := range s {
		b.SetContent(x, y, r, style)
		x += runewidth.RuneWidth(r)
	}
}
