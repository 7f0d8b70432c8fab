package config

import (
	"fmt"
	"strings"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Validate reports every problem with the config at once. Referenced round
// files are checked by the loader, not here.
func (c Config) Validate() error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if strings.TrimSpace(c.Server.Port) == "" {
		add("server.port", "is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		add("log.level", fmt.Sprintf("unsupported level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		add("log.format", fmt.Sprintf("unsupported format %q", c.Log.Format))
	}
	if c.Auth.Passcode == "" {
		add("auth.passcode", "is required")
	}
	if c.Quiz.TimerSeconds <= 0 {
		add("quiz.timer_seconds", "must be > 0")
	}
	if c.Quiz.Celebration <= 0 {
		add("quiz.celebration", "must be > 0")
	}
	if c.Quiz.CacheTTL < 0 {
		add("quiz.cache_ttl", "must be >= 0")
	}
	if c.Redis.Addr != "" && c.Redis.TTL <= 0 {
		add("redis.ttl", "must be > 0 when redis is enabled")
	}

	seen := map[string]struct{}{}
	for i, r := range c.Rounds {
		prefix := fmt.Sprintf("rounds[%d]", i)
		id := strings.TrimSpace(r.ID)
		if id == "" {
			add(prefix+".id", "is required")
		} else if _, dup := seen[id]; dup {
			add("rounds.id", fmt.Sprintf("duplicate id %q", id))
		} else {
			seen[id] = struct{}{}
		}
		if !r.Kind.Valid() {
			add(prefix+".kind", fmt.Sprintf("unsupported kind %q", r.Kind))
		}
		if strings.TrimSpace(r.Questions) == "" {
			add(prefix+".questions", "is required")
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
