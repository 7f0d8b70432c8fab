package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"convention-quiz/internal/domain"
)

type roundRow struct {
	bun.BaseModel `bun:"table:rounds"`

	ID           string                  `bun:"id,pk"`
	Position     int                     `bun:"position,notnull"`
	Kind         string                  `bun:"kind,notnull"`
	Title        string                  `bun:"title,notnull"`
	Instructions string                  `bun:"instructions,notnull"`
	Questions    []domain.QuestionRecord `bun:"questions,type:jsonb,notnull"`
	UpdatedAt    time.Time               `bun:"updated_at,notnull"`
}

// RoundWriter upserts rounds into the catalog table.
type RoundWriter struct {
	db  *bun.DB
	now func() time.Time
}

func NewRoundWriter(db *bun.DB) *RoundWriter {
	return &RoundWriter{db: db, now: time.Now}
}

// Upsert stores rounds in menu order, replacing rows with the same id.
func (w *RoundWriter) Upsert(ctx context.Context, rounds ...domain.Round) error {
	if len(rounds) == 0 {
		return nil
	}
	rows := make([]roundRow, 0, len(rounds))
	for i, r := range rounds {
		rows = append(rows, roundRow{
			ID:           r.ID,
			Position:     i,
			Kind:         string(r.Kind),
			Title:        r.Title,
			Instructions: r.Instructions,
			Questions:    r.Questions,
			UpdatedAt:    w.now().UTC(),
		})
	}
	_, err := w.db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("position = EXCLUDED.position").
		Set("kind = EXCLUDED.kind").
		Set("title = EXCLUDED.title").
		Set("instructions = EXCLUDED.instructions").
		Set("questions = EXCLUDED.questions").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert rounds: %w", err)
	}
	return nil
}
