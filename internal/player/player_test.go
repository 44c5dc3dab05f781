package player

import (
	"testing"
	"time"

	"pacereader/internal/item"
	"pacereader/internal/pace"
	"pacereader/internal/quiz"
)

func testParams() pace.Params {
	p := pace.Default()
	p.MinMs = 10
	return p
}

func waitState(t *testing.T, p *Player, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p.State() == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for state %s, stuck in %s", want, p.State())
}

func TestStartEmptyFails(t *testing.T) {
	p, err := New(Config{Params: testParams()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := p.Start(); err != ErrNoItems {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}
}

func TestSingleItemRunsToDone(t *testing.T) {
	done := make(chan *Result, 1)
	p, err := New(Config{
		Items:     item.Itemize("word"),
		Durations: []int{15},
		Params:    testParams(),
		DoneDelay: 5 * time.Millisecond,
		Hooks:     Hooks{OnDone: func(r *Result) { done <- r }},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case r := <-done:
		if r != nil {
			t.Errorf("no quiz configured but result = %+v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session never completed")
	}
	if res := p.Stop(); res != nil {
		t.Errorf("stop after natural done returned %+v, want nil", res)
	}
	if p.State() != StateDone {
		t.Errorf("state %s, want done", p.State())
	}
}

func TestPauseCancelsAndResumeRestartsFull(t *testing.T) {
	var presented []int
	p, err := New(Config{
		Items:     item.Itemize("one two"),
		Durations: []int{1500, 1500},
		Params:    testParams(),
		Hooks: Hooks{OnItem: func(i int, _ item.Item, d int) {
			presented = append(presented, d)
		}},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	p.TogglePause()
	if p.State() != StatePaused {
		t.Fatalf("state %s after pause", p.State())
	}
	p.TogglePause()
	if p.State() != StatePlaying {
		t.Fatalf("state %s after resume", p.State())
	}

	if len(presented) != 2 {
		t.Fatalf("presented %d times, want 2 (start + resume)", len(presented))
	}
	if presented[1] != presented[0] {
		t.Errorf("resume rearmed %dms, want the full %dms", presented[1], presented[0])
	}
	if p.Index() != 0 {
		t.Errorf("resume moved to index %d", p.Index())
	}
}

func TestNavigationClamps(t *testing.T) {
	p, err := New(Config{
		Items:     item.Itemize("a b c"),
		Durations: []int{1500, 1500, 1500},
		Params:    testParams(),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	p.TogglePause()

	p.Prev()
	if p.Index() != 0 {
		t.Errorf("prev at start moved to %d", p.Index())
	}
	p.Next()
	p.Next()
	p.Next()
	if p.Index() != 2 {
		t.Errorf("next clamped to %d, want 2", p.Index())
	}
	p.Prev()
	if p.Index() != 1 {
		t.Errorf("prev moved to %d, want 1", p.Index())
	}
}

func TestNavigationIgnoredWhenIdle(t *testing.T) {
	p, _ := New(Config{
		Items:     item.Itemize("a b"),
		Durations: []int{1500, 1500},
		Params:    testParams(),
	})
	p.Next()
	if p.Index() != 0 {
		t.Errorf("navigation before start moved index to %d", p.Index())
	}
}

func TestWPMDoublingHalvesDuration(t *testing.T) {
	var durs []int
	p, err := New(Config{
		Items:     item.Itemize("steady words here"),
		Durations: []int{1600, 1600, 1600},
		Params:    testParams(),
		Hooks:     Hooks{OnItem: func(_ int, _ item.Item, d int) { durs = append(durs, d) }},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	p.AdjustWPM(300) // 300 -> 600
	if len(durs) != 2 {
		t.Fatalf("expected immediate reschedule, got %d presentations", len(durs))
	}
	if durs[1] != durs[0]/2 {
		t.Errorf("doubled wpm gave %dms, want %dms", durs[1], durs[0]/2)
	}

	wpm, _ := p.Speed()
	if wpm != 600 {
		t.Errorf("wpm = %d, want 600", wpm)
	}
}

func TestWPMClamped(t *testing.T) {
	p, _ := New(Config{
		Items:     item.Itemize("a"),
		Durations: []int{1500},
		Params:    testParams(),
	})
	_ = p.Start()
	p.AdjustWPM(100000)
	if wpm, _ := p.Speed(); wpm != pace.MaxWPM {
		t.Errorf("wpm = %d, want clamp at %d", wpm, pace.MaxWPM)
	}
	p.AdjustWPM(-100000)
	if wpm, _ := p.Speed(); wpm != pace.MinWPM {
		t.Errorf("wpm = %d, want clamp at %d", wpm, pace.MinWPM)
	}
}

func TestGammaToZeroConvergesOnBase(t *testing.T) {
	var durs []int
	params := testParams() // wpm 300, gamma 0.6
	p, err := New(Config{
		Items:     item.Itemize("dense"),
		Durations: []int{320}, // 200 base + 120 slowdown
		Params:    params,
		Hooks:     Hooks{OnItem: func(_ int, _ item.Item, d int) { durs = append(durs, d) }},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_ = p.Start()

	p.AdjustGamma(-2.0) // clamped to 0
	if _, g := p.Speed(); g != 0 {
		t.Fatalf("gamma = %v, want 0", g)
	}
	if durs[len(durs)-1] != pace.BaseMs(300) {
		t.Errorf("gamma 0 gave %dms, want pure base %dms", durs[len(durs)-1], pace.BaseMs(300))
	}
}

func quizFixture() []quiz.Item {
	return []quiz.Item{{
		WordIndex: 1,
		Question: quiz.Question{
			Prompt:       "What came first?",
			Choices:      []string{"one", "two", "three"},
			CorrectIndex: 0,
		},
	}}
}

func TestQuizInterruptAndScore(t *testing.T) {
	asked := make(chan quiz.Item, 1)
	done := make(chan *Result, 1)
	p, err := New(Config{
		Items:     item.Itemize("one two three"),
		Durations: []int{15, 15, 15},
		Params:    testParams(),
		Quiz:      quizFixture(),
		DoneDelay: 5 * time.Millisecond,
		Hooks: Hooks{
			OnQuestion: func(q quiz.Item, _, _ int) { asked <- q },
			OnDone:     func(r *Result) { done <- r },
		},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case <-asked:
	case <-time.After(2 * time.Second):
		t.Fatal("quiz prompt never fired")
	}
	if p.State() != StateQuestion {
		t.Fatalf("state %s, want question", p.State())
	}

	// Out-of-range input is ignored with no state change.
	p.Answer(7)
	p.Answer(-1)
	if p.State() != StateQuestion {
		t.Fatal("invalid answer changed state")
	}

	p.Answer(0)
	select {
	case r := <-done:
		if r == nil {
			t.Fatal("quiz configured but result is nil")
		}
		if r.Score != 1 || r.Total != 1 {
			t.Errorf("result %d/%d, want 1/1", r.Score, r.Total)
		}
		if r.Elapsed <= 0 {
			t.Errorf("elapsed %v not positive", r.Elapsed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session never completed after answer")
	}
}

func TestQuizWrongAnswer(t *testing.T) {
	done := make(chan *Result, 1)
	p, _ := New(Config{
		Items:     item.Itemize("one two three"),
		Durations: []int{15, 15, 15},
		Params:    testParams(),
		Quiz:      quizFixture(),
		DoneDelay: 5 * time.Millisecond,
		Hooks:     Hooks{OnDone: func(r *Result) { done <- r }},
	})
	_ = p.Start()
	waitState(t, p, StateQuestion)
	p.Answer(2)

	select {
	case r := <-done:
		if r.Score != 0 || r.Total != 1 {
			t.Errorf("result %d/%d, want 0/1", r.Score, r.Total)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session never completed")
	}
}

func TestAnswerIgnoredOutsideQuestionMode(t *testing.T) {
	p, _ := New(Config{
		Items:     item.Itemize("one two three"),
		Durations: []int{1500, 1500, 1500},
		Params:    testParams(),
		Quiz:      quizFixture(),
	})
	_ = p.Start()
	p.Answer(0)
	if score, answered := p.Score(); score != 0 || answered != 0 {
		t.Errorf("answer outside question mode was counted: %d/%d", score, answered)
	}
}

func TestStopIdempotentFromAnyState(t *testing.T) {
	p, _ := New(Config{
		Items:     item.Itemize("one two"),
		Durations: []int{1500, 1500},
		Params:    testParams(),
		Quiz:      quizFixture(),
	})
	_ = p.Start()

	first := p.Stop()
	second := p.Stop()
	if first == nil {
		t.Fatal("stop with quiz configured returned nil")
	}
	if second == nil || *second != *first {
		t.Errorf("second stop returned %+v, want %+v", second, first)
	}
	if p.State() != StateDone {
		t.Errorf("state %s after stop", p.State())
	}

	// Terminal: nothing revives a stopped session.
	p.TogglePause()
	p.Next()
	if p.State() != StateDone {
		t.Errorf("input revived a done session into %s", p.State())
	}
}

func TestMaxItemsCutoff(t *testing.T) {
	done := make(chan *Result, 1)
	var lastIdx int
	p, _ := New(Config{
		Items:     item.Itemize("one two three four five"),
		Durations: []int{15, 15, 15, 15, 15},
		Params:    testParams(),
		MaxItems:  2,
		DoneDelay: 5 * time.Millisecond,
		Hooks: Hooks{
			OnItem: func(i int, _ item.Item, _ int) { lastIdx = i },
			OnDone: func(r *Result) { done <- r },
		},
	})
	_ = p.Start()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cutoff session never completed")
	}
	if lastIdx != 1 {
		t.Errorf("last presented index %d, want 1", lastIdx)
	}
}

func TestNoScheduleFallsBackToLiveWPM(t *testing.T) {
	var durs []int
	params := testParams()
	p, _ := New(Config{
		Items:  item.Itemize("plain, word"),
		Params: params,
		Hooks:  Hooks{OnItem: func(_ int, _ item.Item, d int) { durs = append(durs, d) }},
	})
	_ = p.Start()
	p.Stop()

	want := pace.BaseMs(300) + params.CommaBonusMs
	if durs[0] != want {
		t.Errorf("no-schedule duration %dms, want %dms", durs[0], want)
	}
}
