package types

import "time"

// Score records one user's mastery of one card. At most one row exists per
// (user, card) pair, enforced by a unique constraint.
type Score struct {
	// ID is the unique identifier of the score row.
	ID int `json:"id" db:"id"`

	// UserID is the identifier of the scoring user.
	UserID int `json:"user_id" db:"user_id"`

	// CardID is the identifier of the scored card.
	CardID int `json:"card_id" db:"card_id"`

	// Score is the numeric mastery value.
	Score int `json:"score" db:"score"`

	// CreatedAt is the timestamp when the score was first recorded.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
