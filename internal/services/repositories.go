package services

import (
	"context"

	"github.com/flashfolio/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, users []types.User) ([]int, error)
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Update(ctx context.Context, id int, name, email, hashedPassword *string) error
	Delete(ctx context.Context, id int) error
}

// FolderRepository defines persistence operations for folders.
type FolderRepository interface {
	Create(ctx context.Context, folders []types.Folder) ([]int, error)
	ListByUser(ctx context.Context, userID int) ([]types.Folder, error)
	GetByUser(ctx context.Context, userID, folderID int) (types.Folder, error)
	ListPublic(ctx context.Context) ([]types.Folder, error)
	GetPublic(ctx context.Context, folderID int) (types.Folder, error)
	Update(ctx context.Context, id int, name *string, public *bool) error
	Delete(ctx context.Context, id int) error
}

// CardRepository defines persistence operations for cards.
type CardRepository interface {
	Create(ctx context.Context, cards []types.Card) ([]int, error)
	ListByFolder(ctx context.Context, folderID int) ([]types.Card, error)
	GetInFolder(ctx context.Context, folderID, cardID int) (types.Card, error)
	Update(ctx context.Context, id int, front, back *string) error
	Delete(ctx context.Context, id int) error
}

// ScoreRepository defines persistence operations for scores.
type ScoreRepository interface {
	Create(ctx context.Context, scores []types.Score) error
	Get(ctx context.Context, userID, cardID int) (types.Score, error)
	Update(ctx context.Context, userID, cardID, value int) error
	Delete(ctx context.Context, userID, cardID int) error
}
