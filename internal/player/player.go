// Package player is the run-time state machine of a reading session. It
// presents one item at a time from a duration schedule, honors live speed
// and intensity changes, manual navigation, pausing, and inline quiz
// prompts, and terminates with a session result.
//
// The player owns exactly one pending timer at any moment. All side effects
// are confined to that timer and the Hooks notifications; rendering is the
// caller's job. Hooks run with the player's lock held and must not call
// back into the Player — post to your own event loop instead.
package player

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"pacereader/internal/item"
	"pacereader/internal/pace"
	"pacereader/internal/quiz"
)

type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateQuestion
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateQuestion:
		return "question"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

var ErrNoItems = errors.New("nothing to present: empty item sequence")

// Result is the outcome of a session that had quiz prompts configured.
type Result struct {
	Score   int
	Total   int
	Elapsed time.Duration
}

// Hooks are the player's observable notifications.
type Hooks struct {
	// OnItem fires when an item becomes current, with the duration its
	// timer was (or would be, when paused) armed for.
	OnItem func(index int, it item.Item, durationMs int)

	// OnState fires on every state transition.
	OnState func(s State)

	// OnParams fires after a live wpm or gamma change, post-clamping.
	OnParams func(wpm int, gamma float64)

	// OnQuestion fires when a quiz prompt interrupts playback.
	OnQuestion func(q quiz.Item, number, total int)

	// OnAnswered fires after a valid answer was taken.
	OnAnswered func(correct bool, score, answered int)

	// OnDone fires once, on the transition into StateDone.
	OnDone func(res *Result)
}

type Config struct {
	Items []item.Item

	// Durations is the precomputed schedule; nil means pure wpm pacing.
	// When non-nil its length must match Items.
	Durations []int

	Params pace.Params
	Quiz   []quiz.Item
	Hooks  Hooks

	// MaxItems stops the session after this many items (0 = read to the end).
	MaxItems int

	// DoneDelay is the trailing pause before the session completes.
	DoneDelay time.Duration
}

type Player struct {
	mu sync.Mutex

	items     []item.Item
	durations []int
	quizItems []quiz.Item
	hooks     Hooks
	params    pace.Params
	maxItems  int
	doneDelay time.Duration

	// Original schedule parameters, fixed at construction; live values
	// diverge from them under user adjustment.
	origWPM   int
	origGamma float64
	wpm       int
	gamma     float64

	state     State
	idx       int
	quizIdx   int
	score     int
	ending    bool
	startedAt time.Time
	result    *Result

	timer    *time.Timer
	timerGen int
}

func New(cfg Config) (*Player, error) {
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	if cfg.Durations != nil && len(cfg.Durations) != len(cfg.Items) {
		return nil, fmt.Errorf("duration schedule has %d entries for %d items", len(cfg.Durations), len(cfg.Items))
	}
	if len(cfg.Items) > 0 {
		if err := quiz.Validate(cfg.Quiz, len(cfg.Items)); err != nil {
			return nil, err
		}
	}
	delay := cfg.DoneDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &Player{
		items:     cfg.Items,
		durations: cfg.Durations,
		quizItems: cfg.Quiz,
		hooks:     cfg.Hooks,
		params:    cfg.Params,
		maxItems:  cfg.MaxItems,
		doneDelay: delay,
		origWPM:   cfg.Params.TargetWPM,
		origGamma: cfg.Params.Gamma,
		wpm:       cfg.Params.TargetWPM,
		gamma:     cfg.Params.Gamma,
		state:     StateIdle,
	}, nil
}

// Start begins playback from the first item. Valid only in Idle.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateIdle {
		return fmt.Errorf("start from state %s", p.state)
	}
	if len(p.items) == 0 {
		return ErrNoItems
	}
	p.startedAt = time.Now()
	p.setStateLocked(StatePlaying)
	p.presentLocked()
	return nil
}

// TogglePause switches Playing <-> Paused. Pausing cancels the pending
// timer; resuming restarts the full duration of the current item.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state {
	case StatePlaying:
		p.cancelTimerLocked()
		p.ending = false
		p.setStateLocked(StatePaused)
	case StatePaused:
		p.setStateLocked(StatePlaying)
		p.presentLocked()
	}
}

// Next moves to the following item. Permitted in Playing and Paused.
func (p *Player) Next() { p.navigate(1) }

// Prev moves to the preceding item. Permitted in Playing and Paused.
func (p *Player) Prev() { p.navigate(-1) }

func (p *Player) navigate(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePlaying && p.state != StatePaused {
		return
	}
	idx := p.idx + delta
	if idx < 0 {
		idx = 0
	}
	if last := p.lastIndexLocked(); idx > last {
		idx = last
	}
	p.idx = idx
	p.ending = false
	p.presentLocked()
}

// AdjustWPM shifts the target reading speed, clamped to the valid range,
// and immediately reschedules the current item with its new effective
// duration. Permitted in Playing and Paused.
func (p *Player) AdjustWPM(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePlaying && p.state != StatePaused {
		return
	}
	p.wpm = pace.ClampWPM(p.wpm + delta)
	if p.hooks.OnParams != nil {
		p.hooks.OnParams(p.wpm, p.gamma)
	}
	p.rescheduleLocked()
}

// AdjustGamma shifts the slowdown intensity, clamped to the valid range,
// with the same immediate-reschedule behavior as AdjustWPM.
func (p *Player) AdjustGamma(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePlaying && p.state != StatePaused {
		return
	}
	p.gamma = pace.ClampGamma(p.gamma + delta)
	if p.hooks.OnParams != nil {
		p.hooks.OnParams(p.wpm, p.gamma)
	}
	p.rescheduleLocked()
}

// Answer submits a choice for the pending quiz prompt. Out-of-range input
// is ignored with no state change.
func (p *Player) Answer(choice int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateQuestion || p.quizIdx >= len(p.quizItems) {
		return
	}
	q := p.quizItems[p.quizIdx].Question
	if choice < 0 || choice >= len(q.Choices) {
		return
	}
	correct := choice == q.CorrectIndex
	if correct {
		p.score++
	}
	p.quizIdx++
	if p.hooks.OnAnswered != nil {
		p.hooks.OnAnswered(correct, p.score, p.quizIdx)
	}
	p.setStateLocked(StatePlaying)
	p.advanceLocked()
}

// Stop terminates the session from any state. Idempotent. Returns nil when
// no quiz was configured, otherwise the score over total wall-clock time
// since playback first started.
func (p *Player) Stop() *Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateDone {
		p.finishLocked()
	}
	return p.result
}

// State returns the current playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Index returns the current item position.
func (p *Player) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idx
}

// Speed returns the live wpm and gamma.
func (p *Player) Speed() (wpm int, gamma float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.wpm, p.gamma
}

// Score returns correct answers so far and the number answered.
func (p *Player) Score() (score, answered int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.score, p.quizIdx
}

// presentLocked renders the current item via OnItem and, when playing,
// arms its timer. Resuming from pause always restarts the full duration.
func (p *Player) presentLocked() {
	d := p.effectiveDurationLocked()
	if p.hooks.OnItem != nil {
		p.hooks.OnItem(p.idx, p.items[p.idx], d)
	}
	if p.state == StatePlaying {
		p.armTimerLocked(time.Duration(d) * time.Millisecond)
	} else {
		p.cancelTimerLocked()
	}
}

func (p *Player) rescheduleLocked() {
	if p.state != StatePlaying || p.ending {
		return
	}
	p.presentLocked()
}

// effectiveDurationLocked computes how long the current item stays on
// screen given the live wpm/gamma. With a precomputed schedule the stored
// value is rescaled; without one the duration is rebuilt from the live wpm.
func (p *Player) effectiveDurationLocked() int {
	it := p.items[p.idx]
	if p.durations == nil {
		return p.params.Clamp(pace.BaseMs(p.wpm) + p.params.Bonus(it.EndsWith))
	}
	return pace.Effective(p.durations[p.idx], p.origWPM, p.wpm, p.origGamma, p.gamma, p.params)
}

func (p *Player) armTimerLocked(d time.Duration) {
	p.cancelTimerLocked()
	gen := p.timerGen
	p.timer = time.AfterFunc(d, func() { p.onTimer(gen) })
}

func (p *Player) cancelTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.timerGen++
}

func (p *Player) onTimer(gen int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// A stale fire that lost the race against Stop/pause/reschedule.
	if gen != p.timerGen || p.state != StatePlaying {
		return
	}
	p.timer = nil

	if p.ending {
		p.finishLocked()
		return
	}
	if p.quizIdx < len(p.quizItems) && p.quizItems[p.quizIdx].WordIndex <= p.idx {
		p.setStateLocked(StateQuestion)
		if p.hooks.OnQuestion != nil {
			p.hooks.OnQuestion(p.quizItems[p.quizIdx], p.quizIdx+1, len(p.quizItems))
		}
		return
	}
	p.advanceLocked()
}

// advanceLocked moves past the current item: either onto the next one or,
// at the end of the sequence, into the trailing delay before Done.
func (p *Player) advanceLocked() {
	if p.idx >= p.lastIndexLocked() {
		p.ending = true
		p.armTimerLocked(p.doneDelay)
		return
	}
	p.idx++
	p.presentLocked()
}

func (p *Player) lastIndexLocked() int {
	last := len(p.items) - 1
	if p.maxItems > 0 && p.maxItems-1 < last {
		last = p.maxItems - 1
	}
	return last
}

func (p *Player) finishLocked() {
	p.cancelTimerLocked()
	p.ending = false
	if len(p.quizItems) > 0 {
		elapsed := time.Duration(0)
		if !p.startedAt.IsZero() {
			elapsed = time.Since(p.startedAt)
		}
		p.result = &Result{Score: p.score, Total: len(p.quizItems), Elapsed: elapsed}
	}
	p.setStateLocked(StateDone)
	if p.hooks.OnDone != nil {
		p.hooks.OnDone(p.result)
	}
}

func (p *Player) setStateLocked(s State) {
	if p.state == s {
		return
	}
	p.state = s
	if p.hooks.OnState != nil {
		p.hooks.OnState(s)
	}
}
