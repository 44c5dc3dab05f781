package item

import "unicode"

// Ending classifies the literal trailing character of an item, with a
// paragraph break (blank line in the source text) taking precedence.
type Ending int

const (
	EndNone Ending = iota
	EndComma
	EndPeriod
	EndPara
)

// Item is one display unit: a whitespace-delimited run of the source text
// with its byte span. Items are produced once per run and never mutated.
type Item struct {
	Text     string
	Start    int
	End      int
	EndsWith Ending
}

// Itemize splits text into items ordered by Start. Item spans are
// non-overlapping and contain no internal whitespace.
func Itemize(text string) []Item {
	items := make([]Item, 0, len(text)/6)
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				items = append(items, Item{Text: text[start:i], Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		items = append(items, Item{Text: text[start:], Start: start, End: len(text)})
	}

	for i := range items {
		items[i].EndsWith = classify(items[i], text)
	}
	return items
}

func classify(it Item, text string) Ending {
	if paragraphBreakAfter(text, it.End) {
		return EndPara
	}
	runes := []rune(it.Text)
	for i := len(runes) - 1; i >= 0; i-- {
		switch runes[i] {
		case '"', '\'', ')', ']', '”', '’':
			continue
		case '.', '!', '?', '…':
			return EndPeriod
		case ',', ';', ':':
			return EndComma
		}
		break
	}
	return EndNone
}

// paragraphBreakAfter reports whether the whitespace run starting at pos
// contains a blank line, i.e. two newlines with nothing but spaces between.
func paragraphBreakAfter(text string, pos int) bool {
	newlines := 0
	for _, r := range text[pos:] {
		if !unicode.IsSpace(r) {
			break
		}
		if r == '\n' {
			newlines++
			if newlines >= 2 {
				return true
			}
		}
	}
	return false
}

// ORP returns the optimal-recognition-point rune offset for a word: the
// letter the eye should fixate on when the word is flashed at a fixed
// position. Trailing punctuation is not counted toward the word length.
func ORP(word string) int {
	runes := []rune(word)
	n := len(runes)
	for n > 0 && !unicode.IsLetter(runes[n-1]) && !unicode.IsDigit(runes[n-1]) {
		n--
	}
	if n == 0 {
		n = len(runes)
	}
	switch {
	case n <= 1:
		return 0
	case n <= 5:
		return 1
	case n <= 9:
		return 2
	case n <= 13:
		return 3
	default:
		return 4
	}
}
