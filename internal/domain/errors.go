package domain

import "errors"

var (
	// ErrRoundNotFound is returned when a round id is not known to the question bank.
	ErrRoundNotFound = errors.New("round not found")
	// ErrEmptyQuestionBank is a configuration error: an engine needs at least one question.
	ErrEmptyQuestionBank = errors.New("question bank is empty")
	// ErrDuplicateQuestion indicates two records in one round share an id.
	ErrDuplicateQuestion = errors.New("duplicate question id")
	// ErrUnknownQuestion indicates an intent referenced a question id outside the round.
	ErrUnknownQuestion = errors.New("question not found")
	// ErrUnknownOption indicates an intent referenced a label the question does not offer.
	ErrUnknownOption = errors.New("option not found")
	// ErrNotFocused is returned by board intents that need an open question.
	ErrNotFocused = errors.New("no question is open")
	// ErrNoSelection is returned when reveal is requested before an option was chosen.
	ErrNoSelection = errors.New("no option selected")
	// ErrAlreadyRevealed is returned when the open question's answer is already locked in.
	ErrAlreadyRevealed = errors.New("answer already revealed")

	// ErrInvalidPasscode is returned by the login gate.
	ErrInvalidPasscode = errors.New("incorrect passcode")
	// ErrNotLoggedIn is returned when a shell intent arrives before login.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrNoActiveRound is returned for round intents outside a round screen.
	ErrNoActiveRound = errors.New("no round in progress")
	// ErrRoundKindMismatch is returned when a sequential intent targets a board round or vice versa.
	ErrRoundKindMismatch = errors.New("intent not supported by this round")
	// ErrUnknownCommand is returned for unsupported shell commands.
	ErrUnknownCommand = errors.New("unsupported command")
	// ErrSessionNotFound is returned when a presenter session id is not attached.
	ErrSessionNotFound = errors.New("session not found")
)

// NotFoundError reports an unknown round id. It unwraps to ErrRoundNotFound.
type NotFoundError struct {
	RoundID string
}

func (e *NotFoundError) Error() string {
	return "round " + e.RoundID + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return ErrRoundNotFound
}
