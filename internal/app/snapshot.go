package app

import (
	"convention-quiz/internal/domain"
	"convention-quiz/internal/round"
)

// Screen is the shell's routing state.
type Screen string

const (
	ScreenLogin        Screen = "login"
	ScreenHome         Screen = "home"
	ScreenInstructions Screen = "instructions"
	ScreenRound        Screen = "round"
)

// RoundView describes the round on the instructions or round screen.
type RoundView struct {
	ID           string           `json:"id"`
	Kind         domain.RoundKind `json:"kind"`
	Title        string           `json:"title"`
	Instructions string           `json:"instructions,omitempty"`
}

// Snapshot is the read-only projection every renderer draws from.
type Snapshot struct {
	Session        string                 `json:"session"`
	Version        uint64                 `json:"version"`
	Screen         Screen                 `json:"screen"`
	LoggedIn       bool                   `json:"loggedIn"`
	DarkMode       bool                   `json:"darkMode"`
	ConventionName string                 `json:"conventionName"`
	Menu           []domain.RoundSummary  `json:"menu,omitempty"`
	Round          *RoundView             `json:"round,omitempty"`
	Sequential     *round.SequentialState `json:"sequential,omitempty"`
	Board          *round.BoardState      `json:"board,omitempty"`
	// Cues lists the sound cues played since the previous published snapshot.
	Cues []round.Cue `json:"cues,omitempty"`
}
