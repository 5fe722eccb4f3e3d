package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/flashfolio/apiserver/types"
)

// CardRepository handles persistence for cards.
type CardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create inserts the given cards and returns their assigned ids in input
// order. An empty slice is a no-op returning (nil, nil).
func (r *CardRepository) Create(ctx context.Context, cards []types.Card) ([]int, error) {
	if len(cards) == 0 {
		return nil, nil
	}

	const query = `
		INSERT INTO cards (front, back, folder_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	now := time.Now()
	ids := make([]int, 0, len(cards))
	for _, card := range cards {
		var id int
		err := r.db.QueryRowContext(
			ctx,
			query,
			card.Front,
			card.Back,
			card.FolderID,
			now,
			now,
		).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ListByFolder returns the folder's cards in creation order, or
// ErrNotFound when there are none.
func (r *CardRepository) ListByFolder(ctx context.Context, folderID int) ([]types.Card, error) {
	const query = `
		SELECT id, front, back, folder_id, created_at, updated_at
		FROM cards
		WHERE folder_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, folderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []types.Card
	for rows.Next() {
		var card types.Card
		if err := rows.Scan(
			&card.ID,
			&card.Front,
			&card.Back,
			&card.FolderID,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrNotFound
	}
	return cards, nil
}

// GetInFolder returns the card only when it belongs to the given folder.
// A valid card id paired with the wrong folder id resolves to nothing.
func (r *CardRepository) GetInFolder(ctx context.Context, folderID, cardID int) (types.Card, error) {
	const query = `
		SELECT id, front, back, folder_id, created_at, updated_at
		FROM cards
		WHERE folder_id = $1 AND id = $2`
	var card types.Card
	err := r.db.QueryRowContext(ctx, query, folderID, cardID).Scan(
		&card.ID,
		&card.Front,
		&card.Back,
		&card.FolderID,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Card{}, ErrNotFound
		}
		return types.Card{}, err
	}
	return card, nil
}

// Update applies the non-nil fields to the card row; the others keep
// their stored values.
func (r *CardRepository) Update(ctx context.Context, id int, front, back *string) error {
	set := make([]string, 0, 3)
	args := make([]any, 0, 4)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, column+" = $"+strconv.Itoa(len(args)))
	}

	if front != nil {
		add("front", *front)
	}
	if back != nil {
		add("back", *back)
	}
	if len(set) == 0 {
		return errors.New("store: no fields to update")
	}
	add("updated_at", time.Now())

	args = append(args, id)
	query := "UPDATE cards SET " + strings.Join(set, ", ") + " WHERE id = $" + strconv.Itoa(len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete removes the card row; scores referencing it cascade.
func (r *CardRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteAll unconditionally empties the table. Reserved for the reset
// command and tests.
func (r *CardRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cards`)
	return err
}
