package services

import (
	"context"

	"github.com/flashfolio/apiserver/types"
)

// PublicService encapsulates public-mode use-cases: folders resolve only
// through their public flag, cards only through a public folder. Score
// operations additionally require an authenticated principal; the service
// never touches a score row belonging to anyone else.
type PublicService struct {
	folders FolderRepository
	cards   CardRepository
	scores  ScoreRepository
}

func NewPublicService(folders FolderRepository, cards CardRepository, scores ScoreRepository) *PublicService {
	return &PublicService{
		folders: folders,
		cards:   cards,
		scores:  scores,
	}
}

// Folders returns every public folder.
func (s *PublicService) Folders(ctx context.Context) ([]types.Folder, error) {
	return s.folders.ListPublic(ctx)
}

// Folder resolves a single folder under public mode. A private folder is
// indistinguishable from a missing one.
func (s *PublicService) Folder(ctx context.Context, folderID int) (types.Folder, error) {
	return s.folders.GetPublic(ctx, folderID)
}

// Cards returns all cards in a public folder.
func (s *PublicService) Cards(ctx context.Context, folderID int) ([]types.Card, error) {
	folder, err := s.Folder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	return s.cards.ListByFolder(ctx, folder.ID)
}

// Card resolves a single card through a public folder. The folder and card
// ids come from the request path independently, so their linkage is checked
// here rather than trusted.
func (s *PublicService) Card(ctx context.Context, folderID, cardID int) (types.Card, error) {
	folder, err := s.Folder(ctx, folderID)
	if err != nil {
		return types.Card{}, err
	}
	return s.cards.GetInFolder(ctx, folder.ID, cardID)
}

// Score returns the principal's own score on a public card.
func (s *PublicService) Score(ctx context.Context, userID, folderID, cardID int) (int, error) {
	card, err := s.Card(ctx, folderID, cardID)
	if err != nil {
		return 0, err
	}
	score, err := s.scores.Get(ctx, userID, card.ID)
	if err != nil {
		return 0, err
	}
	return score.Score, nil
}

// CreateScore records the principal's first score on a public card. A
// duplicate fails with store.ErrConflict.
func (s *PublicService) CreateScore(ctx context.Context, userID, folderID, cardID, value int) error {
	card, err := s.Card(ctx, folderID, cardID)
	if err != nil {
		return err
	}
	return s.scores.Create(ctx, []types.Score{{
		UserID: userID,
		CardID: card.ID,
		Score:  value,
	}})
}

func (s *PublicService) UpdateScore(ctx context.Context, userID, folderID, cardID, value int) error {
	card, err := s.Card(ctx, folderID, cardID)
	if err != nil {
		return err
	}
	return s.scores.Update(ctx, userID, card.ID, value)
}

func (s *PublicService) DeleteScore(ctx context.Context, userID, folderID, cardID int) error {
	card, err := s.Card(ctx, folderID, cardID)
	if err != nil {
		return err
	}
	return s.scores.Delete(ctx, userID, card.ID)
}
