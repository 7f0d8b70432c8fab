package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Issue captures a validation problem in a round definition.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports one or more validation issues.
type ValidationError struct {
	RoundID string
	Issues  []Issue
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("round %q validation failed: %s", err.RoundID, strings.Join(parts, "; "))
}

type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

// NormalizeRound trims whitespace, assigns positional ids to records that have
// none, lower-cases option labels and validates the result.
func NormalizeRound(round Round) (Round, error) {
	c := &issueCollector{}

	round.ID = strings.TrimSpace(round.ID)
	round.Title = strings.TrimSpace(round.Title)
	round.Kind = RoundKind(strings.ToLower(strings.TrimSpace(string(round.Kind))))
	if round.ID == "" {
		c.add("id", "is required")
	}
	if !round.Kind.Valid() {
		c.add("kind", fmt.Sprintf("unsupported kind %q", round.Kind))
	}
	if round.Title == "" {
		round.Title = round.ID
	}
	if len(round.Questions) == 0 {
		c.add("questions", "must include at least one entry")
	}

	questions := make([]QuestionRecord, len(round.Questions))
	seenIDs := map[string]struct{}{}
	for i, q := range round.Questions {
		prefix := fmt.Sprintf("questions[%d]", i)

		q.ID = strings.TrimSpace(q.ID)
		if q.ID == "" {
			q.ID = strconv.Itoa(i + 1)
		}
		if _, dup := seenIDs[q.ID]; dup {
			c.add(prefix+".id", fmt.Sprintf("duplicate id %q", q.ID))
		}
		seenIDs[q.ID] = struct{}{}

		q.Prompt = strings.TrimSpace(q.Prompt)
		if q.Prompt == "" {
			c.add(prefix+".question", "is required")
		}
		q.Category = strings.TrimSpace(q.Category)

		opts := make(Options, 0, len(q.Options))
		seenLabels := map[string]struct{}{}
		for j, opt := range q.Options {
			opt.Label = strings.ToLower(strings.TrimSpace(opt.Label))
			opt.Text = strings.TrimSpace(opt.Text)
			field := fmt.Sprintf("%s.options[%d]", prefix, j)
			if opt.Label == "" {
				c.add(field, "label is required")
			} else if _, dup := seenLabels[opt.Label]; dup {
				c.add(field, fmt.Sprintf("duplicate label %q", opt.Label))
			}
			seenLabels[opt.Label] = struct{}{}
			if opt.Text == "" {
				c.add(field, "text is required")
			}
			opts = append(opts, opt)
		}
		if len(opts) < 2 {
			c.add(prefix+".options", "must include at least two entries")
		}
		q.Options = opts

		q.CorrectLabel = strings.ToLower(strings.TrimSpace(q.CorrectLabel))
		if q.CorrectLabel == "" {
			c.add(prefix+".answer", "is required")
		} else if !q.Options.Has(q.CorrectLabel) {
			c.add(prefix+".answer", fmt.Sprintf("unknown option %q", q.CorrectLabel))
		}
		questions[i] = q
	}
	round.Questions = questions

	if len(c.issues) > 0 {
		return Round{}, &ValidationError{RoundID: round.ID, Issues: c.issues}
	}
	return round, nil
}
