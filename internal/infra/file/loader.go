package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"convention-quiz/internal/config"
	"convention-quiz/internal/domain"
)

// Loader reads the round catalog from the files named in the config: a JSON
// or YAML questions file per round plus an optional markdown instructions file.
type Loader struct {
	sources []config.RoundSource
	resolve func(string) string
}

// NewLoader serves cfg.Rounds, resolving relative paths against the config directory.
func NewLoader(cfg config.Config) *Loader {
	return &Loader{sources: cfg.Rounds, resolve: cfg.Resolve}
}

func (l *Loader) LoadRound(ctx context.Context, roundID string) (domain.Round, error) {
	for _, src := range l.sources {
		if src.ID == roundID {
			return l.load(ctx, src)
		}
	}
	return domain.Round{}, &domain.NotFoundError{RoundID: roundID}
}

func (l *Loader) ListRounds(_ context.Context) ([]domain.RoundSummary, error) {
	out := make([]domain.RoundSummary, 0, len(l.sources))
	for _, src := range l.sources {
		title := src.Title
		if title == "" {
			title = src.ID
		}
		out = append(out, domain.RoundSummary{ID: src.ID, Kind: src.Kind, Title: title})
	}
	return out, nil
}

// LoadAll loads every configured round in menu order. Problems in one round
// do not stop the others; all of them are returned together.
func (l *Loader) LoadAll(ctx context.Context) ([]domain.Round, error) {
	rounds := make([]domain.Round, 0, len(l.sources))
	var errs []error
	for _, src := range l.sources {
		r, err := l.load(ctx, src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rounds = append(rounds, r)
	}
	return rounds, errors.Join(errs...)
}

func (l *Loader) load(ctx context.Context, src config.RoundSource) (domain.Round, error) {
	if err := ctx.Err(); err != nil {
		return domain.Round{}, err
	}
	path := l.resolve(src.Questions)
	questions, err := LoadQuestions(path)
	if err != nil {
		return domain.Round{}, fmt.Errorf("round %s: %w", src.ID, err)
	}

	r := domain.Round{ID: src.ID, Kind: src.Kind, Title: src.Title, Questions: questions}
	if src.Instructions != "" {
		text, err := os.ReadFile(l.resolve(src.Instructions))
		if err != nil {
			return domain.Round{}, fmt.Errorf("round %s: read instructions: %w", src.ID, err)
		}
		r.Instructions = string(text)
	}
	return domain.NormalizeRound(r)
}

// LoadQuestions reads a question list, choosing the decoder by file extension.
func LoadQuestions(path string) ([]domain.QuestionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseJSON(data)
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return nil, fmt.Errorf("questions %s: unsupported extension", path)
	}
}

func parseJSON(data []byte) ([]domain.QuestionRecord, error) {
	var questions []domain.QuestionRecord
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&questions); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return questions, nil
}

func parseYAML(data []byte) ([]domain.QuestionRecord, error) {
	var questions []domain.QuestionRecord
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&questions); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return questions, nil
}
