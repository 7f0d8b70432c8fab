package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"convention-quiz/internal/domain"
)

// RoundLoader loads rounds and their JSONB question banks from Postgres.
type RoundLoader struct {
	pool *pgxpool.Pool
}

func NewRoundLoader(pool *pgxpool.Pool) *RoundLoader {
	return &RoundLoader{pool: pool}
}

func (l *RoundLoader) LoadRound(ctx context.Context, roundID string) (domain.Round, error) {
	var (
		kind string
		raw  []byte
	)
	round := domain.Round{ID: roundID}
	err := l.pool.QueryRow(ctx,
		`SELECT kind, title, instructions, questions FROM rounds WHERE id=$1`, roundID,
	).Scan(&kind, &round.Title, &round.Instructions, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Round{}, &domain.NotFoundError{RoundID: roundID}
	}
	if err != nil {
		return domain.Round{}, fmt.Errorf("load round: %w", err)
	}
	round.Kind = domain.RoundKind(kind)
	if err := json.Unmarshal(raw, &round.Questions); err != nil {
		return domain.Round{}, fmt.Errorf("unmarshal round %s: %w", roundID, err)
	}
	return domain.NormalizeRound(round)
}

func (l *RoundLoader) ListRounds(ctx context.Context) ([]domain.RoundSummary, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, kind, title FROM rounds ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var out []domain.RoundSummary
	for rows.Next() {
		var s domain.RoundSummary
		var kind string
		if err := rows.Scan(&s.ID, &kind, &s.Title); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		s.Kind = domain.RoundKind(kind)
		out = append(out, s)
	}
	return out, rows.Err()
}
