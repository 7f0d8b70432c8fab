package app

import (
	"sync"

	"go.uber.org/zap"

	"convention-quiz/internal/round"
)

// cueQueue collects cues played by the engines until the next publish. Engines
// call Play with their own lock held, so the queue keeps a separate lock and
// never calls back.
type cueQueue struct {
	log *zap.Logger

	mu      sync.Mutex
	pending []round.Cue
}

func (q *cueQueue) Play(cue round.Cue) {
	q.log.Debug("sound cue", zap.String("cue", string(cue)))
	q.mu.Lock()
	q.pending = append(q.pending, cue)
	q.mu.Unlock()
}

func (q *cueQueue) drain() []round.Cue {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	cues := q.pending
	q.pending = nil
	return cues
}

func (q *cueQueue) reset() {
	q.mu.Lock()
	q.pending = nil
	q.mu.Unlock()
}
