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

// FolderRepository handles persistence for folders.
type FolderRepository struct {
	db *sql.DB
}

func NewFolderRepository(db *sql.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

// Create inserts the given folders and returns their assigned ids in input
// order. An empty slice is a no-op returning (nil, nil).
func (r *FolderRepository) Create(ctx context.Context, folders []types.Folder) ([]int, error) {
	if len(folders) == 0 {
		return nil, nil
	}

	const query = `
		INSERT INTO folders (name, public, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	now := time.Now()
	ids := make([]int, 0, len(folders))
	for _, folder := range folders {
		var id int
		err := r.db.QueryRowContext(
			ctx,
			query,
			folder.Name,
			folder.Public,
			folder.UserID,
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

// ListByUser returns the user's folders in creation order, or ErrNotFound
// when there are none.
func (r *FolderRepository) ListByUser(ctx context.Context, userID int) ([]types.Folder, error) {
	const query = `
		SELECT id, name, public, user_id, created_at, updated_at
		FROM folders
		WHERE user_id = $1
		ORDER BY id`
	folders, err := r.list(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, ErrNotFound
	}
	return folders, nil
}

// GetByUser returns the folder only when it belongs to the given user.
// A folder owned by someone else is indistinguishable from a missing one.
func (r *FolderRepository) GetByUser(ctx context.Context, userID, folderID int) (types.Folder, error) {
	const query = `
		SELECT id, name, public, user_id, created_at, updated_at
		FROM folders
		WHERE user_id = $1 AND id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID, folderID))
}

// ListPublic returns all public folders in creation order, or an empty
// list when there are none. Private folders are filtered in SQL so they
// never reach the caller.
func (r *FolderRepository) ListPublic(ctx context.Context) ([]types.Folder, error) {
	const query = `
		SELECT id, name, public, user_id, created_at, updated_at
		FROM folders
		WHERE public
		ORDER BY id`
	return r.list(ctx, query)
}

// GetPublic returns the folder only when its public flag is set.
func (r *FolderRepository) GetPublic(ctx context.Context, folderID int) (types.Folder, error) {
	const query = `
		SELECT id, name, public, user_id, created_at, updated_at
		FROM folders
		WHERE public AND id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, folderID))
}

// Update applies the non-nil fields to the folder row; the others keep
// their stored values.
func (r *FolderRepository) Update(ctx context.Context, id int, name *string, public *bool) error {
	set := make([]string, 0, 3)
	args := make([]any, 0, 4)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, column+" = $"+strconv.Itoa(len(args)))
	}

	if name != nil {
		add("name", *name)
	}
	if public != nil {
		add("public", *public)
	}
	if len(set) == 0 {
		return errors.New("store: no fields to update")
	}
	add("updated_at", time.Now())

	args = append(args, id)
	query := "UPDATE folders SET " + strings.Join(set, ", ") + " WHERE id = $" + strconv.Itoa(len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete removes the folder row; its cards and their scores cascade.
func (r *FolderRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteAll unconditionally empties the table. Reserved for the reset
// command and tests.
func (r *FolderRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM folders`)
	return err
}

func (r *FolderRepository) list(ctx context.Context, query string, args ...any) ([]types.Folder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	folders := []types.Folder{}
	for rows.Next() {
		var folder types.Folder
		if err := rows.Scan(
			&folder.ID,
			&folder.Name,
			&folder.Public,
			&folder.UserID,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		); err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return folders, nil
}

func (r *FolderRepository) scanOne(row *sql.Row) (types.Folder, error) {
	var folder types.Folder
	err := row.Scan(
		&folder.ID,
		&folder.Name,
		&folder.Public,
		&folder.UserID,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Folder{}, ErrNotFound
		}
		return types.Folder{}, err
	}
	return folder, nil
}
