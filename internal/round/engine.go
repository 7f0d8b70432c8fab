// Package round implements the quiz round progression engines.
//
// Both engines are safe to call from several goroutines: every operation holds
// the engine lock, so intents and clock callbacks never interleave. Effects
// are invoked with the lock held and must not call back into the engine.
package round

import "time"

const (
	// DefaultTimerSeconds is the auto-advance countdown of a sequential round.
	DefaultTimerSeconds = 30
	// DefaultCelebrationWindow is how long a correct reveal keeps celebrating.
	DefaultCelebrationWindow = 5 * time.Second
)

type engineConfig struct {
	clock        Clock
	effects      Effects
	timerSeconds int
	celebration  time.Duration
	observer     func()
}

// EngineOption configures a Sequential or Board engine.
type EngineOption func(*engineConfig)

// WithClock injects the scheduler used for countdown ticks and celebration expiry.
func WithClock(clock Clock) EngineOption {
	return func(c *engineConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithEffects sets the sink for sound cues.
func WithEffects(effects Effects) EngineOption {
	return func(c *engineConfig) {
		if effects != nil {
			c.effects = effects
		}
	}
}

// WithTimerSeconds sets the auto-advance countdown.
func WithTimerSeconds(seconds int) EngineOption {
	return func(c *engineConfig) {
		if seconds > 0 {
			c.timerSeconds = seconds
		}
	}
}

// WithCelebrationWindow sets how long a correct reveal celebrates.
func WithCelebrationWindow(d time.Duration) EngineOption {
	return func(c *engineConfig) {
		if d > 0 {
			c.celebration = d
		}
	}
}

// WithObserver registers fn to run after a clock-driven state change, once the
// engine lock has been released. Changes caused by intents do not notify.
func WithObserver(fn func()) EngineOption {
	return func(c *engineConfig) {
		c.observer = fn
	}
}

func newEngineConfig(opts []EngineOption) engineConfig {
	cfg := engineConfig{
		clock:        RealClock(),
		effects:      nopEffects{},
		timerSeconds: DefaultTimerSeconds,
		celebration:  DefaultCelebrationWindow,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c engineConfig) notify() {
	if c.observer != nil {
		c.observer()
	}
}
