package round

import (
	"sync"
	"time"

	"convention-quiz/internal/domain"
)

// Phase is the lifecycle stage of a sequential round.
type Phase string

const (
	PhaseActive  Phase = "active"
	PhaseSummary Phase = "summary" // terminal
)

// SummaryEntry is one row of the closing answer sheet.
type SummaryEntry struct {
	Number       int    `json:"number"`
	Prompt       string `json:"prompt"`
	CorrectLabel string `json:"correctLabel"`
	CorrectText  string `json:"correctText"`
}

// SequentialState is the read-only projection of a sequential round.
type SequentialState struct {
	Index         int                    `json:"index"`
	Total         int                    `json:"total"`
	Phase         Phase                  `json:"phase"`
	AutoAdvance   bool                   `json:"autoAdvance"`
	TimeRemaining int                    `json:"timeRemaining"`
	TimerDuration int                    `json:"timerDuration"`
	IsLast        bool                   `json:"isLast"`
	Question      *domain.QuestionRecord `json:"question,omitempty"`
	Summary       []SummaryEntry         `json:"summary,omitempty"`
}

// Sequential walks an ordered question list one question at a time and ends in
// a read-only summary.
type Sequential struct {
	mu        sync.Mutex
	questions []domain.QuestionRecord
	cfg       engineConfig

	index     int
	phase     Phase
	auto      bool
	remaining int

	// timer is the single pending countdown callback; gen invalidates callbacks
	// armed before the last state change.
	timer   Timer
	gen     uint64
	stopped bool
}

// NewSequential builds an engine positioned on the first question.
func NewSequential(questions []domain.QuestionRecord, opts ...EngineOption) (*Sequential, error) {
	if len(questions) == 0 {
		return nil, domain.ErrEmptyQuestionBank
	}
	cfg := newEngineConfig(opts)
	return &Sequential{
		questions: append([]domain.QuestionRecord(nil), questions...),
		cfg:       cfg,
		phase:     PhaseActive,
		remaining: cfg.timerSeconds,
	}, nil
}

// Advance moves to the next question, or to the summary from the last one.
func (s *Sequential) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceLocked()
}

// Retreat moves to the previous question. It is a no-op on the first question
// and in the summary.
func (s *Sequential) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retreatLocked()
}

// ToggleAutoAdvance flips timer-driven progression. Enabling restarts the countdown.
func (s *Sequential) ToggleAutoAdvance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toggleLocked()
}

// Tick consumes one elapsed second of the countdown. It is only meaningful while
// auto-advance is on and the round is active; at zero it advances.
func (s *Sequential) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked()
}

// HandleKey applies the keyboard policy. Input is ignored once in the summary.
func (s *Sequential) HandleKey(keys KeyMap, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.phase == PhaseSummary {
		return false
	}
	switch {
	case matches(keys.Advance, key):
		s.advanceLocked()
	case matches(keys.Retreat, key):
		s.retreatLocked()
	case matches(keys.ToggleAutoAdvance, key):
		s.toggleLocked()
	default:
		return false
	}
	return true
}

// Stop cancels any pending tick. The engine ignores every intent afterwards.
func (s *Sequential) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.disarmLocked()
}

// State returns a projection for rendering.
func (s *Sequential) State() SequentialState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := SequentialState{
		Index:         s.index,
		Total:         len(s.questions),
		Phase:         s.phase,
		AutoAdvance:   s.auto,
		TimeRemaining: s.remaining,
		TimerDuration: s.cfg.timerSeconds,
		IsLast:        s.index == len(s.questions)-1,
	}
	if s.phase == PhaseActive {
		q := s.questions[s.index]
		state.Question = &q
		return state
	}
	state.Summary = make([]SummaryEntry, 0, len(s.questions))
	for i, q := range s.questions {
		state.Summary = append(state.Summary, SummaryEntry{
			Number:       i + 1,
			Prompt:       q.Prompt,
			CorrectLabel: q.CorrectLabel,
			CorrectText:  q.CorrectText(),
		})
	}
	return state
}

func (s *Sequential) advanceLocked() {
	if s.stopped || s.phase == PhaseSummary {
		return
	}
	s.remaining = s.cfg.timerSeconds
	if s.index < len(s.questions)-1 {
		s.index++
		s.rearmLocked()
	} else {
		s.phase = PhaseSummary
		s.disarmLocked()
	}
	s.cfg.effects.Play(CueNext)
}

func (s *Sequential) retreatLocked() {
	if s.stopped || s.phase == PhaseSummary || s.index == 0 {
		return
	}
	s.index--
	s.remaining = s.cfg.timerSeconds
	s.rearmLocked()
}

func (s *Sequential) toggleLocked() {
	if s.stopped {
		return
	}
	s.auto = !s.auto
	s.remaining = s.cfg.timerSeconds
	s.rearmLocked()
}

func (s *Sequential) tickLocked() bool {
	if s.stopped || !s.auto || s.phase != PhaseActive {
		return false
	}
	s.remaining--
	if s.remaining <= 0 {
		s.advanceLocked()
		return true
	}
	s.rearmLocked()
	return true
}

// rearmLocked cancels the pending tick and, if the countdown is running, arms
// the next one under a fresh generation.
func (s *Sequential) rearmLocked() {
	s.disarmLocked()
	if s.stopped || !s.auto || s.phase != PhaseActive {
		return
	}
	gen := s.gen
	s.timer = s.cfg.clock.AfterFunc(time.Second, func() { s.fire(gen) })
}

func (s *Sequential) disarmLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Sequential) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	changed := s.tickLocked()
	s.mu.Unlock()
	if changed {
		s.cfg.notify()
	}
}
