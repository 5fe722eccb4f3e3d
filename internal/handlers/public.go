package handlers

import (
	"errors"
	"net/http"

	"github.com/flashfolio/apiserver/internal/services"
	"github.com/flashfolio/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
)

// PublicHandler provides the public-browsing routes. Folder and card reads
// need no identity; score operations do, because a score always belongs to
// the authenticated principal.
type PublicHandler struct {
	publicService *services.PublicService
}

// NewPublicHandler constructs a handler with the provided service.
func NewPublicHandler(publicService *services.PublicService) *PublicHandler {
	return &PublicHandler{publicService: publicService}
}

// PublicRouter registers the public routes on the given router.
func PublicRouter(r chi.Router, publicService *services.PublicService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewPublicHandler(publicService)

	r.Get("/", handler.GetFolders)
	r.Route("/{folderID}", func(r chi.Router) {
		r.Get("/", handler.GetFolder)
		r.Get("/card", handler.GetCards)
		r.Route("/card/{cardID}", func(r chi.Router) {
			r.Get("/", handler.GetCard)

			r.With(authMiddleware).Get("/score", handler.GetScore)
			r.With(authMiddleware).Post("/score/create", handler.CreateScore)
			r.With(authMiddleware).Put("/score/update", handler.UpdateScore)
			r.With(authMiddleware).Delete("/score/delete", handler.DeleteScore)
		})
	})
}

// GetFolders lists every public folder. An empty catalogue is an empty
// list, not an error.
func (h *PublicHandler) GetFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.publicService.Folders(r.Context())
	if err != nil {
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeJSON(w, http.StatusOK, folders)
}

func (h *PublicHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	folderID, err := parseIDParam(r, "folderID")
	if err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.publicService.Folder(r.Context(), folderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusNotFound, codeNoFolderFound)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeJSON(w, http.StatusOK, folder)
}

func (h *PublicHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	folderID, err := parseIDParam(r, "folderID")
	if err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	cards, err := h.publicService.Cards(r.Context(), folderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusNotFound, codeNoCardFound)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

func (h *PublicHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	folderID, cardID, err := parseCardPath(r)
	if err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	card, err := h.publicService.Card(r.Context(), folderID, cardID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusNotFound, codeNoCardFound)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// GetScore answers the principal's own score on a public card, as a bare
// number. Other users' scores on the same card are unreachable here.
func (h *PublicHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeCode(w, http.StatusUnauthorized, codeInvalidJWT)
		return
	}
	folderID, cardID, err := parseCardPath(r)
	if err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	value, err := h.publicService.Score(r.Context(), userID, folderID, cardID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusNotFound, codeNoScoreFound)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeJSON(w, http.StatusOK, value)
}

func (h *PublicHandler) CreateScore(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeCode(w, http.StatusUnauthorized, codeInvalidJWT)
		return
	}
	folderID, cardID, err := parseCardPath(r)
	if err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ScoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.publicService.CreateScore(r.Context(), userID, folderID, cardID, *req.Score); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			writeCode(w, http.StatusMethodNotAllowed, codeScoreAlreadyExists)
		case errors.Is(err, store.ErrNotFound):
			writeCode(w, http.StatusNotFound, codeNoCardFound)
		default:
			writeCode(w, http.StatusInternalServerError, codeInternalError)
		}
		return
	}

	writeMessage(w, http.StatusOK, codeScoreCreated)
}

func (h *PublicHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeCode(w, http.StatusUnauthorized, codeInvalidJWT)
		return
	}
	folderID, cardID, err := parseCardPath(r)
	if err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ScoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.publicService.UpdateScore(r.Context(), userID, folderID, cardID, *req.Score); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusNotFound, codeNoScoreFound)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeMessage(w, http.StatusOK, codeScoreUpdated)
}

func (h *PublicHandler) DeleteScore(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeCode(w, http.StatusUnauthorized, codeInvalidJWT)
		return
	}
	folderID, cardID, err := parseCardPath(r)
	if err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.publicService.DeleteScore(r.Context(), userID, folderID, cardID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusNotFound, codeNoScoreFound)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeMessage(w, http.StatusOK, codeScoreDeleted)
}
