package render

import (
	"fmt"
	"sync"
	"time"

	"pacereader/internal/item"
	"pacereader/internal/player"
	"pacereader/internal/quiz"
)

// Session drives one reading session: it installs hooks on the player that
// update a frame and wake the event loop, and translates key presses into
// player input. All drawing happens on the loop goroutine.
type Session struct {
	backend Backend
	player  *player.Player

	mu    sync.Mutex
	frame Frame
	total int

	// OnParamsChanged, when set, is called after every live wpm/gamma
	// change so a collaborator can persist the new values.
	OnParamsChanged func(wpm int, gamma float64)
}

// NewSession builds the player from cfg with the session's hooks installed.
// Caller-provided hooks in cfg are replaced.
func NewSession(b Backend, cfg player.Config) (*Session, error) {
	s := &Session{backend: b, total: len(cfg.Items)}
	cfg.Hooks = player.Hooks{
		OnItem:     s.onItem,
		OnState:    s.onState,
		OnParams:   s.onParams,
		OnQuestion: s.onQuestion,
		OnAnswered: s.onAnswered,
		OnDone:     s.onDone,
	}
	p, err := player.New(cfg)
	if err != nil {
		return nil, err
	}
	s.player = p
	return s, nil
}

// Run starts playback and blocks until the session ends, returning the
// player's result.
func (s *Session) Run() (*player.Result, error) {
	if err := s.player.Start(); err != nil {
		return nil, err
	}

	for {
		s.draw()
		if s.player.State() == player.StateDone {
			break
		}
		ev := s.backend.PollEvent()
		if ev == nil {
			break
		}
		if s.handle(ev) {
			break
		}
	}
	return s.player.Stop(), nil
}

// handle reacts to one event; true means the session should end.
func (s *Session) handle(ev Event) bool {
	if key, ok := ev.(KeyEvent); ok {
		return s.handleKey(key)
	}
	// Refresh and resize events just trigger the redraw at the loop top.
	return false
}

func (s *Session) handleKey(e KeyEvent) bool {
	if e.Key == KeyEscape || e.Rune == 'q' {
		return true
	}

	if s.player.State() == player.StateQuestion {
		if e.Rune >= '1' && e.Rune <= '9' {
			s.player.Answer(int(e.Rune - '1'))
		}
		return false
	}

	switch {
	case e.Rune == ' ':
		s.player.TogglePause()
	case e.Key == KeyLeft || e.Rune == 'h':
		s.player.Prev()
	case e.Key == KeyRight || e.Rune == 'l':
		s.player.Next()
	case e.Key == KeyUp || e.Rune == '+' || e.Rune == '=':
		s.player.AdjustWPM(25)
	case e.Key == KeyDown || e.Rune == '-':
		s.player.AdjustWPM(-25)
	case e.Rune == ']':
		s.player.AdjustGamma(0.1)
	case e.Rune == '[':
		s.player.AdjustGamma(-0.1)
	}
	return false
}

func (s *Session) draw() {
	s.mu.Lock()
	frame := s.frame
	s.mu.Unlock()
	// Status is assembled outside the frame lock: the player hooks run
	// under the player's own lock and also take s.mu, so querying the
	// player while holding s.mu would invert the lock order.
	frame.Status = s.status()
	Draw(s.backend, frame)
}

func (s *Session) status() string {
	wpm, gamma := s.player.Speed()
	idx := s.player.Index()
	status := fmt.Sprintf("%d/%d  %d wpm  boost %.1f", idx+1, s.total, wpm, gamma)
	switch s.player.State() {
	case player.StatePaused:
		status += "  [paused]"
	case player.StateQuestion:
		status += "  answer with 1-9"
	default:
		status += "  space pause  arrows speed/seek  q quit"
	}
	return status
}

func (s *Session) refresh() {
	s.backend.PostEvent(RefreshEvent{})
}

func (s *Session) onItem(index int, it item.Item, durationMs int) {
	s.mu.Lock()
	s.frame.Word = it.Text
	s.frame.ORP = item.ORP(it.Text)
	s.frame.Question = nil
	s.mu.Unlock()
	s.refresh()
}

func (s *Session) onState(player.State) {
	s.refresh()
}

func (s *Session) onParams(wpm int, gamma float64) {
	if s.OnParamsChanged != nil {
		s.OnParamsChanged(wpm, gamma)
	}
	s.refresh()
}

func (s *Session) onQuestion(q quiz.Item, number, total int) {
	s.mu.Lock()
	s.frame.Question = &QuestionView{
		Prompt:  q.Question.Prompt,
		Choices: q.Question.Choices,
		Number:  number,
		Total:   total,
	}
	s.mu.Unlock()
	s.refresh()
}

func (s *Session) onAnswered(correct bool, score, answered int) {
	s.mu.Lock()
	s.frame.Question = nil
	s.mu.Unlock()
	s.refresh()
}

func (s *Session) onDone(res *player.Result) {
	s.mu.Lock()
	s.frame.Done = true
	s.frame.Question = nil
	if res != nil {
		s.frame.DoneResult = fmt.Sprintf("quiz score %d/%d in %s", res.Score, res.Total, res.Elapsed.Round(time.Second))
	}
	s.mu.Unlock()
	s.refresh()
}
