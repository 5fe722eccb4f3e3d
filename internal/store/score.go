package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/flashfolio/apiserver/types"
)

// ScoreRepository handles persistence for scores. Score rows are keyed by
// the (user_id, card_id) pair; the unique constraint keeps it at most one.
type ScoreRepository struct {
	db *sql.DB
}

func NewScoreRepository(db *sql.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Create inserts the given scores. An empty slice is a no-op. A duplicate
// (user, card) pair returns ErrConflict, distinct from absence.
func (r *ScoreRepository) Create(ctx context.Context, scores []types.Score) error {
	if len(scores) == 0 {
		return nil
	}

	const query = `
		INSERT INTO scores (user_id, card_id, score, created_at)
		VALUES ($1, $2, $3, $4)`
	now := time.Now()
	for _, score := range scores {
		_, err := r.db.ExecContext(ctx, query, score.UserID, score.CardID, score.Score, now)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return err
		}
	}
	return nil
}

// Get returns the single score row for the (user, card) pair.
func (r *ScoreRepository) Get(ctx context.Context, userID, cardID int) (types.Score, error) {
	const query = `
		SELECT id, user_id, card_id, score, created_at
		FROM scores
		WHERE user_id = $1 AND card_id = $2`
	var score types.Score
	err := r.db.QueryRowContext(ctx, query, userID, cardID).Scan(
		&score.ID,
		&score.UserID,
		&score.CardID,
		&score.Score,
		&score.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Score{}, ErrNotFound
		}
		return types.Score{}, err
	}
	return score, nil
}

// Update sets the value of the (user, card) score row.
func (r *ScoreRepository) Update(ctx context.Context, userID, cardID, value int) error {
	const query = `
		UPDATE scores
		SET score = $1
		WHERE user_id = $2 AND card_id = $3`
	result, err := r.db.ExecContext(ctx, query, value, userID, cardID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete removes the (user, card) score row.
func (r *ScoreRepository) Delete(ctx context.Context, userID, cardID int) error {
	const query = `DELETE FROM scores WHERE user_id = $1 AND card_id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, cardID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteAll unconditionally empties the table. Reserved for the reset
// command and tests.
func (r *ScoreRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM scores`)
	return err
}
