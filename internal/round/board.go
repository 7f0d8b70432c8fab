package round

import (
	"fmt"
	"sync"

	"convention-quiz/internal/domain"
)

// BoardCell is one selectable slot on the board.
type BoardCell struct {
	ID       string `json:"id"`
	Category string `json:"category,omitempty"`
	Answered bool   `json:"answered"`
}

// BoardState is the read-only projection of a board round.
type BoardState struct {
	Cells         []BoardCell            `json:"cells"`
	Total         int                    `json:"total"`
	AnsweredCount int                    `json:"answeredCount"`
	Complete      bool                   `json:"complete"`
	FocusedID     string                 `json:"focusedId,omitempty"`
	Focused       *domain.QuestionRecord `json:"focused,omitempty"`
	SelectedLabel string                 `json:"selectedLabel,omitempty"`
	Revealed      bool                   `json:"revealed"`
	// ViewOnly marks a replay of a question answered earlier in the session.
	ViewOnly    bool  `json:"viewOnly"`
	Correct     *bool `json:"correct,omitempty"`
	Celebrating bool  `json:"celebrating"`
}

// Board lets the presenter open questions in any order. Each question gets at
// most one locked-in answer per session.
type Board struct {
	mu        sync.Mutex
	questions []domain.QuestionRecord
	byID      map[string]int
	cfg       engineConfig

	// answered maps question id to the label locked in on reveal. It only grows.
	answered map[string]string

	focused  string
	selected string
	revealed bool
	replay   bool

	celebrating    bool
	celebration    Timer
	celebrationGen uint64
	stopped        bool
}

// NewBoard builds a board with every cell open.
func NewBoard(questions []domain.QuestionRecord, opts ...EngineOption) (*Board, error) {
	if len(questions) == 0 {
		return nil, domain.ErrEmptyQuestionBank
	}
	byID := make(map[string]int, len(questions))
	for i, q := range questions {
		if _, dup := byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateQuestion, q.ID)
		}
		byID[q.ID] = i
	}
	return &Board{
		questions: append([]domain.QuestionRecord(nil), questions...),
		byID:      byID,
		cfg:       newEngineConfig(opts),
		answered:  make(map[string]string),
	}, nil
}

// Focus opens question id. A question answered earlier opens as a view-only
// replay of the locked-in choice.
func (b *Board) Focus(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.byID[id]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownQuestion, id)
	}
	b.focused = id
	label, done := b.answered[id]
	b.selected = label
	b.revealed = done
	b.replay = done
	b.cfg.effects.Play(CueSelect)
	return nil
}

// SelectOption sets the tentative choice for the open question. Later calls
// overwrite earlier ones until the answer is revealed.
func (b *Board) SelectOption(label string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selectLocked(label)
}

// Reveal locks in the tentative choice and marks the question answered.
func (b *Board) Reveal() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revealLocked()
}

// Close returns to the board view. Answered questions stay answered.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
}

// Correct reports whether the open question's choice matches its answer.
func (b *Board) Correct() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.focused == "" {
		return false
	}
	return b.questions[b.byID[b.focused]].IsCorrect(b.selected)
}

// HandleKey applies the keyboard policy to the open question: an option label
// selects, reveal keys reveal, close keys close. It reports whether the key
// was consumed.
func (b *Board) HandleKey(keys KeyMap, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped || b.focused == "" {
		return false, nil
	}
	switch {
	case matches(keys.Reveal, key):
		return true, b.revealLocked()
	case matches(keys.Close, key):
		b.closeLocked()
		return true, nil
	}
	label := optionLabel(key)
	if label == "" || !b.questions[b.byID[b.focused]].Options.Has(label) {
		return false, nil
	}
	return true, b.selectLocked(label)
}

// Stop cancels the celebration timer. The engine is discarded afterwards.
func (b *Board) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	if b.celebration != nil {
		b.celebration.Stop()
		b.celebration = nil
	}
	b.celebrationGen++
	b.celebrating = false
}

// State returns a projection for rendering.
func (b *Board) State() BoardState {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := BoardState{
		Cells:         make([]BoardCell, 0, len(b.questions)),
		Total:         len(b.questions),
		AnsweredCount: len(b.answered),
		Complete:      len(b.answered) == len(b.questions),
		FocusedID:     b.focused,
		SelectedLabel: b.selected,
		Revealed:      b.revealed,
		Celebrating:   b.celebrating,
	}
	for _, q := range b.questions {
		_, done := b.answered[q.ID]
		state.Cells = append(state.Cells, BoardCell{ID: q.ID, Category: q.Category, Answered: done})
	}
	if b.focused != "" {
		q := b.questions[b.byID[b.focused]]
		state.Focused = &q
		if b.revealed {
			correct := q.IsCorrect(b.selected)
			state.Correct = &correct
		}
		state.ViewOnly = b.replay
	}
	return state
}

// Answered returns the answered ids in board order.
func (b *Board) Answered() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, 0, len(b.answered))
	for _, q := range b.questions {
		if _, ok := b.answered[q.ID]; ok {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

func (b *Board) selectLocked(label string) error {
	if b.stopped || b.focused == "" {
		return domain.ErrNotFocused
	}
	if b.revealed {
		return domain.ErrAlreadyRevealed
	}
	if !b.questions[b.byID[b.focused]].Options.Has(label) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownOption, label)
	}
	b.selected = label
	return nil
}

func (b *Board) revealLocked() error {
	if b.stopped || b.focused == "" {
		return domain.ErrNotFocused
	}
	if b.revealed {
		return domain.ErrAlreadyRevealed
	}
	if b.selected == "" {
		return domain.ErrNoSelection
	}
	b.revealed = true
	b.answered[b.focused] = b.selected
	b.cfg.effects.Play(CueReveal)
	if b.questions[b.byID[b.focused]].IsCorrect(b.selected) {
		b.celebrateLocked()
	}
	return nil
}

func (b *Board) closeLocked() {
	b.focused = ""
	b.selected = ""
	b.revealed = false
	b.replay = false
}

// celebrateLocked raises the celebration flag for a fixed window. Only the
// clock lowers it.
func (b *Board) celebrateLocked() {
	if b.celebration != nil {
		b.celebration.Stop()
	}
	b.celebrationGen++
	gen := b.celebrationGen
	b.celebrating = true
	b.celebration = b.cfg.clock.AfterFunc(b.cfg.celebration, func() { b.expire(gen) })
	b.cfg.effects.Play(CueCelebrate)
}

func (b *Board) expire(gen uint64) {
	b.mu.Lock()
	if gen != b.celebrationGen {
		b.mu.Unlock()
		return
	}
	b.celebrating = false
	b.celebration = nil
	b.mu.Unlock()
	b.cfg.notify()
}
