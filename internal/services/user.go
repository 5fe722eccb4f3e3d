package services

import (
	"context"

	"github.com/flashfolio/apiserver/types"
)

// UserService encapsulates owner-mode use-cases: every folder, card and
// score operation starts from the authenticated user id and re-derives the
// ownership chain on each call. A resource that exists but belongs to
// someone else comes back as store.ErrNotFound, exactly like one that does
// not exist.
type UserService struct {
	users   UserRepository
	folders FolderRepository
	cards   CardRepository
	scores  ScoreRepository
}

func NewUserService(users UserRepository, folders FolderRepository, cards CardRepository, scores ScoreRepository) *UserService {
	return &UserService{
		users:   users,
		folders: folders,
		cards:   cards,
		scores:  scores,
	}
}

// Create registers a single user and returns the assigned id.
func (s *UserService) Create(ctx context.Context, user types.User) (int, error) {
	ids, err := s.users.Create(ctx, []types.User{user})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// Profile returns the caller's own password-less profile.
func (s *UserService) Profile(ctx context.Context, userID int) (types.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return types.Profile{}, err
	}
	return user.Profile(), nil
}

// Update applies the non-nil fields to the caller's own row. The password,
// when present, must already be hashed.
func (s *UserService) Update(ctx context.Context, userID int, name, email, hashedPassword *string) error {
	return s.users.Update(ctx, userID, name, email, hashedPassword)
}

// Delete removes the caller's account. Owned folders, their cards and all
// dependent scores cascade in the store.
func (s *UserService) Delete(ctx context.Context, userID int) error {
	return s.users.Delete(ctx, userID)
}

// Folders returns all folders owned by the caller.
func (s *UserService) Folders(ctx context.Context, userID int) ([]types.Folder, error) {
	return s.folders.ListByUser(ctx, userID)
}

// Folder resolves a single folder under owner mode.
func (s *UserService) Folder(ctx context.Context, userID, folderID int) (types.Folder, error) {
	return s.folders.GetByUser(ctx, userID, folderID)
}

func (s *UserService) CreateFolder(ctx context.Context, userID int, name string, public bool) (int, error) {
	ids, err := s.folders.Create(ctx, []types.Folder{{
		Name:   name,
		Public: public,
		UserID: userID,
	}})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

func (s *UserService) UpdateFolder(ctx context.Context, userID, folderID int, name *string, public *bool) error {
	folder, err := s.Folder(ctx, userID, folderID)
	if err != nil {
		return err
	}
	return s.folders.Update(ctx, folder.ID, name, public)
}

func (s *UserService) DeleteFolder(ctx context.Context, userID, folderID int) error {
	folder, err := s.Folder(ctx, userID, folderID)
	if err != nil {
		return err
	}
	return s.folders.Delete(ctx, folder.ID)
}

// Cards returns all cards in one of the caller's folders. The folder is
// resolved under owner mode first.
func (s *UserService) Cards(ctx context.Context, userID, folderID int) ([]types.Card, error) {
	folder, err := s.Folder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}
	return s.cards.ListByFolder(ctx, folder.ID)
}

// Card resolves a single card through the caller's folder. The folder and
// card ids come from the request path independently, so their linkage is
// checked here rather than trusted.
func (s *UserService) Card(ctx context.Context, userID, folderID, cardID int) (types.Card, error) {
	folder, err := s.Folder(ctx, userID, folderID)
	if err != nil {
		return types.Card{}, err
	}
	return s.cards.GetInFolder(ctx, folder.ID, cardID)
}

func (s *UserService) CreateCard(ctx context.Context, userID, folderID int, front, back string) (int, error) {
	folder, err := s.Folder(ctx, userID, folderID)
	if err != nil {
		return 0, err
	}
	ids, err := s.cards.Create(ctx, []types.Card{{
		Front:    front,
		Back:     back,
		FolderID: folder.ID,
	}})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

func (s *UserService) UpdateCard(ctx context.Context, userID, folderID, cardID int, front, back *string) error {
	card, err := s.Card(ctx, userID, folderID, cardID)
	if err != nil {
		return err
	}
	return s.cards.Update(ctx, card.ID, front, back)
}

func (s *UserService) DeleteCard(ctx context.Context, userID, folderID, cardID int) error {
	card, err := s.Card(ctx, userID, folderID, cardID)
	if err != nil {
		return err
	}
	return s.cards.Delete(ctx, card.ID)
}

// Score returns the caller's score on one of their own cards.
func (s *UserService) Score(ctx context.Context, userID, folderID, cardID int) (int, error) {
	card, err := s.Card(ctx, userID, folderID, cardID)
	if err != nil {
		return 0, err
	}
	score, err := s.scores.Get(ctx, userID, card.ID)
	if err != nil {
		return 0, err
	}
	return score.Score, nil
}

// CreateScore records the caller's first score on a card. A second create
// for the same card fails with store.ErrConflict and leaves the original
// row untouched.
func (s *UserService) CreateScore(ctx context.Context, userID, folderID, cardID, value int) error {
	card, err := s.Card(ctx, userID, folderID, cardID)
	if err != nil {
		return err
	}
	return s.scores.Create(ctx, []types.Score{{
		UserID: userID,
		CardID: card.ID,
		Score:  value,
	}})
}

func (s *UserService) UpdateScore(ctx context.Context, userID, folderID, cardID, value int) error {
	card, err := s.Card(ctx, userID, folderID, cardID)
	if err != nil {
		return err
	}
	return s.scores.Update(ctx, userID, card.ID, value)
}

func (s *UserService) DeleteScore(ctx context.Context, userID, folderID, cardID int) error {
	card, err := s.Card(ctx, userID, folderID, cardID)
	if err != nil {
		return err
	}
	return s.scores.Delete(ctx, userID, card.ID)
}
