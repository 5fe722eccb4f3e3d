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

// UserRepository handles persistence for users. Emails are lowercased on
// the way in so the case-insensitive unique index always compares like
// with like.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the given users and returns their assigned ids in input
// order. An empty slice is a no-op returning (nil, nil).
func (r *UserRepository) Create(ctx context.Context, users []types.User) ([]int, error) {
	if len(users) == 0 {
		return nil, nil
	}

	const query = `
		INSERT INTO users (name, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	now := time.Now()
	ids := make([]int, 0, len(users))
	for _, user := range users {
		var id int
		err := r.db.QueryRowContext(
			ctx,
			query,
			user.Name,
			strings.ToLower(user.Email),
			user.HashedPassword,
			now,
			now,
		).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrConflict
			}
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	const query = `
		SELECT id, name, email, hashed_password, created_at, updated_at
		FROM users
		WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `
		SELECT id, name, email, hashed_password, created_at, updated_at
		FROM users
		WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, strings.ToLower(email)))
}

// Update applies the non-nil fields to the user row. At least one field
// must be set; zero rows affected maps to ErrNotFound.
func (r *UserRepository) Update(ctx context.Context, id int, name, email, hashedPassword *string) error {
	set := make([]string, 0, 4)
	args := make([]any, 0, 5)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, column+" = $"+strconv.Itoa(len(args)))
	}

	if name != nil {
		add("name", *name)
	}
	if email != nil {
		add("email", strings.ToLower(*email))
	}
	if hashedPassword != nil {
		add("hashed_password", *hashedPassword)
	}
	if len(set) == 0 {
		return errors.New("store: no fields to update")
	}
	add("updated_at", time.Now())

	args = append(args, id)
	query := "UPDATE users SET " + strings.Join(set, ", ") + " WHERE id = $" + strconv.Itoa(len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return requireAffected(result)
}

// Delete removes the user row. Folders, cards and scores referencing the
// user go with it through the cascading foreign keys.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteAll unconditionally empties the table. Reserved for the reset
// command and tests.
func (r *UserRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users`)
	return err
}

func (r *UserRepository) scanOne(row *sql.Row) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}
