package render

import (
	"strings"
	"testing"
	"time"

	"pacereader/internal/item"
	"pacereader/internal/pace"
	"pacereader/internal/player"
	"pacereader/internal/quiz"
)

func TestDrawWordPinsORP(t *testing.T) {
	b := NewSimBackend(40, 9)
	Draw(b, Frame{Word: "paragraph", ORP: 2})

	row := b.Row(4)
	if !strings.Contains(row, "paragraph") {
		t.Fatalf("word not drawn: %q", row)
	}
	// The ORP rune must sit at the focus column regardless of word length.
	cx := 40 / 2
	if row[cx] != 'r' {
		t.Errorf("focus column holds %q, want 'r'", row[cx])
	}
	if b.StyleAt(cx, 4) != StyleFocus {
		t.Errorf("focus rune not highlighted")
	}
	if b.StyleAt(cx, 3) != StyleDim {
		t.Errorf("guide mark missing above focus column")
	}
}

func TestDrawWordSameColumnAcrossWords(t *testing.T) {
	b := NewSimBackend(40, 9)
	cx := 40 / 2

	for _, w := range []string{"a", "house", "incomprehensible"} {
		Draw(b, Frame{Word: w, ORP: item.ORP(w)})
		row := b.Row(4)
		want := []rune(w)[item.ORP(w)]
		if rune(row[cx]) != want {
			t.Errorf("word %q: focus column holds %q, want %q", w, row[cx], want)
		}
	}
}

func TestDrawQuestionOverlay(t *testing.T) {
	b := NewSimBackend(60, 12)
	Draw(b, Frame{
		Question: &QuestionView{
			Prompt:  "Who wrote it?",
			Choices: []string{"Ann", "Ben"},
			Number:  1,
			Total:   2,
		},
		Status: "answer with 1-9",
	})

	var all []string
	for y := 0; y < 12; y++ {
		all = append(all, b.Row(y))
	}
	screen := strings.Join(all, "\n")
	for _, want := range []string{"question 1 of 2", "Who wrote it?", "1) Ann", "2) Ben", "answer with 1-9"} {
		if !strings.Contains(screen, want) {
			t.Errorf("screen missing %q:\n%s", want, screen)
		}
	}
}

func TestDrawDone(t *testing.T) {
	b := NewSimBackend(40, 9)
	Draw(b, Frame{Done: true, DoneResult: "quiz score 2/3 in 45s"})
	screen := b.Row(3) + b.Row(5)
	if !strings.Contains(screen, "session complete") || !strings.Contains(screen, "2/3") {
		t.Errorf("done frame wrong: %q", screen)
	}
}

func sessionConfig(text string, durMs int) player.Config {
	items := item.Itemize(text)
	durations := make([]int, len(items))
	for i := range durations {
		durations[i] = durMs
	}
	p := pace.Default()
	p.MinMs = 10
	return player.Config{
		Items:     items,
		Durations: durations,
		Params:    p,
		DoneDelay: 5 * time.Millisecond,
	}
}

func TestSessionQuitKey(t *testing.T) {
	b := NewSimBackend(40, 9)
	s, err := NewSession(b, sessionConfig("one two three", 1500))
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	done := make(chan *player.Result, 1)
	go func() {
		res, runErr := s.Run()
		if runErr != nil {
			t.Errorf("run: %v", runErr)
		}
		done <- res
	}()

	b.PostEvent(KeyEvent{Rune: 'q'})
	select {
	case res := <-done:
		if res != nil {
			t.Errorf("no quiz configured but result %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session did not exit on q")
	}
}

func TestSessionRunsToCompletion(t *testing.T) {
	b := NewSimBackend(40, 9)
	s, err := NewSession(b, sessionConfig("just four small words", 15))
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	done := make(chan struct{})
	go func() {
		_, _ = s.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session never completed")
	}
}

func TestSessionAnswersQuiz(t *testing.T) {
	cfg := sessionConfig("one two three four", 15)
	cfg.Quiz = []quiz.Item{{
		WordIndex: 1,
		Question:  quiz.Question{Prompt: "?", Choices: []string{"x", "y"}, CorrectIndex: 1},
	}}

	b := NewSimBackend(40, 9)
	s, err := NewSession(b, cfg)
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	done := make(chan *player.Result, 1)
	go func() {
		res, _ := s.Run()
		done <- res
	}()

	// Wait for question mode, then answer with the '2' key.
	deadline := time.Now().Add(2 * time.Second)
	for s.player.State() != player.StateQuestion {
		if time.Now().After(deadline) {
			t.Fatal("question mode never entered")
		}
		time.Sleep(2 * time.Millisecond)
	}
	b.PostEvent(KeyEvent{Rune: '2'})

	select {
	case res := <-done:
		if res == nil || res.Score != 1 {
			t.Fatalf("result %+v, want score 1", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session never completed after answer")
	}
}

func TestSessionParamsPersistCallback(t *testing.T) {
	b := NewSimBackend(40, 9)
	s, err := NewSession(b, sessionConfig("steady words here", 1500))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	var gotWPM int
	s.OnParamsChanged = func(wpm int, gamma float64) { gotWPM = wpm }

	done := make(chan struct{})
	go func() {
		_, _ = s.Run()
		close(done)
	}()

	b.PostEvent(KeyEvent{Key: KeyUp})
	deadline := time.Now().Add(2 * time.Second)
	for {
		if wpm, _ := s.player.Speed(); wpm == 325 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("wpm never adjusted")
		}
		time.Sleep(2 * time.Millisecond)
	}
	b.PostEvent(KeyEvent{Rune: 'q'})
	<-done

	if gotWPM != 325 {
		t.Errorf("persist callback saw wpm %d, want 325", gotWPM)
	}
}
