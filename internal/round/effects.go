package round

// Cue names a sound effect. Playback belongs to the renderer.
type Cue string

const (
	CueNext      Cue = "next.mp3"
	CueSelect    Cue = "select.mp3"
	CueReveal    Cue = "reveal.mp3"
	CueCelebrate Cue = "celebrate.mp3"
)

// Effects receives fire-and-forget side effects from the engines.
type Effects interface {
	Play(cue Cue)
}

// EffectsFunc adapts a function to Effects.
type EffectsFunc func(cue Cue)

func (f EffectsFunc) Play(cue Cue) { f(cue) }

type nopEffects struct{}

func (nopEffects) Play(Cue) {}
