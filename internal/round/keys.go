package round

import "strings"

// KeyMap is the input policy shared by every renderer. Key names follow Bubble
// Tea ("left", "enter") and browser KeyboardEvent.key ("ArrowLeft", "Enter").
type KeyMap struct {
	Advance           []string `mapstructure:"advance"`
	Retreat           []string `mapstructure:"retreat"`
	ToggleAutoAdvance []string `mapstructure:"toggle_auto_advance"`
	Reveal            []string `mapstructure:"reveal"`
	Close             []string `mapstructure:"close"`
}

// DefaultKeyMap maps arrows to navigation, "t" to the auto-advance toggle,
// enter to reveal and escape to close.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Advance:           []string{"right", "ArrowRight"},
		Retreat:           []string{"left", "ArrowLeft"},
		ToggleAutoAdvance: []string{"t"},
		Reveal:            []string{"enter", "Enter"},
		Close:             []string{"esc", "Escape", "backspace", "Backspace"},
	}
}

// WithDefaults fills empty bindings from DefaultKeyMap.
func (k KeyMap) WithDefaults() KeyMap {
	d := DefaultKeyMap()
	if len(k.Advance) == 0 {
		k.Advance = d.Advance
	}
	if len(k.Retreat) == 0 {
		k.Retreat = d.Retreat
	}
	if len(k.ToggleAutoAdvance) == 0 {
		k.ToggleAutoAdvance = d.ToggleAutoAdvance
	}
	if len(k.Reveal) == 0 {
		k.Reveal = d.Reveal
	}
	if len(k.Close) == 0 {
		k.Close = d.Close
	}
	return k
}

func matches(bindings []string, key string) bool {
	for _, b := range bindings {
		if b == key {
			return true
		}
	}
	return false
}

// optionLabel maps a key press to an option label; labels are lower-case.
func optionLabel(key string) string {
	if len([]rune(key)) != 1 {
		return ""
	}
	return strings.ToLower(key)
}
