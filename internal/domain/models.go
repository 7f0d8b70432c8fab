package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RoundKind selects which engine drives a round.
type RoundKind string

const (
	// KindSequential walks the questions one at a time (Round 1 style).
	KindSequential RoundKind = "sequential"
	// KindBoard lets the presenter open questions in any order (Round 2 style).
	KindBoard RoundKind = "board"
)

// Valid reports whether k names a supported engine.
func (k RoundKind) Valid() bool {
	return k == KindSequential || k == KindBoard
}

// Option is a single labelled answer choice.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Text  string `json:"text" yaml:"text"`
}

// QuestionRecord is an immutable multiple-choice question.
type QuestionRecord struct {
	ID           string  `json:"id" yaml:"id"`
	Category     string  `json:"category,omitempty" yaml:"category,omitempty"` // display-only, board rounds
	Prompt       string  `json:"question" yaml:"question"`
	Options      Options `json:"options" yaml:"options"`
	CorrectLabel string  `json:"answer" yaml:"answer"`
}

// UnmarshalJSON accepts the id as either a JSON string or a number. Unknown
// fields are rejected so typos in question files surface at load time.
func (q *QuestionRecord) UnmarshalJSON(data []byte) error {
	type plain QuestionRecord
	var raw struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		return err
	}
	*q = QuestionRecord(raw.plain)
	id := bytes.TrimSpace(raw.ID)
	switch {
	case len(id) == 0 || string(id) == "null":
		q.ID = ""
	case id[0] == '"':
		if err := json.Unmarshal(id, &q.ID); err != nil {
			return fmt.Errorf("question id: %w", err)
		}
	default:
		var n json.Number
		if err := json.Unmarshal(id, &n); err != nil {
			return fmt.Errorf("question id: %w", err)
		}
		q.ID = n.String()
	}
	return nil
}

// OptionText returns the text shown for label.
func (q QuestionRecord) OptionText(label string) (string, bool) {
	return q.Options.Text(label)
}

// IsCorrect reports whether label is the record's correct answer.
func (q QuestionRecord) IsCorrect(label string) bool {
	return label != "" && label == q.CorrectLabel
}

// CorrectText returns the text of the correct option.
func (q QuestionRecord) CorrectText() string {
	text, _ := q.Options.Text(q.CorrectLabel)
	return text
}

// Round is a themed set of questions plus its read-only instructions.
type Round struct {
	ID           string           `json:"id" yaml:"id"`
	Kind         RoundKind        `json:"kind" yaml:"kind"`
	Title        string           `json:"title" yaml:"title"`
	Instructions string           `json:"instructions,omitempty" yaml:"instructions,omitempty"` // markdown, rendered verbatim
	Questions    []QuestionRecord `json:"questions" yaml:"questions"`
}

// Summary returns the menu entry for the round.
func (r Round) Summary() RoundSummary {
	return RoundSummary{ID: r.ID, Kind: r.Kind, Title: r.Title}
}

// RoundSummary is what the home menu lists.
type RoundSummary struct {
	ID    string    `json:"id"`
	Kind  RoundKind `json:"kind"`
	Title string    `json:"title"`
}
