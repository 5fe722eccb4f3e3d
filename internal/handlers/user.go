package handlers

import (
	"errors"
	"net/http"

	"github.com/flashfolio/apiserver/internal/services"
	"github.com/flashfolio/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler provides the owner-scoped routes. Every request passes the
// auth middleware first, so handlers only ever see a verified user id.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler constructs a handler with the provided service.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserRouter registers the owner-scoped routes on the given router.
func UserRouter(r chi.Router, userService *services.UserService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewUserHandler(userService)

	r.Use(authMiddleware)

	r.Get("/", handler.GetUser)
	r.Put("/update", handler.UpdateUser)
	r.Delete("/delete", handler.DeleteUser)

	r.Get("/folder", handler.GetFolders)
	r.Post("/folder/create", handler.CreateFolder)
	r.Route("/folder/{folderID}", func(r chi.Router) {
		r.Get("/", handler.GetFolder)
		r.Put("/update", handler.UpdateFolder)
		r.Delete("/delete", handler.DeleteFolder)

		r.Get("/card", handler.GetCards)
		r.Post("/card/create", handler.CreateCard)
		r.Route("/card/{cardID}", func(r chi.Router) {
			r.Get("/", handler.GetCard)
			r.Put("/update", handler.UpdateCard)
			r.Delete("/delete", handler.DeleteCard)

			r.Get("/score", handler.GetScore)
			r.Post("/score/create", handler.CreateScore)
			r.Put("/score/update", handler.UpdateScore)
			r.Delete("/score/delete", handler.DeleteScore)
		})
	})
}

// GetUser returns the caller's own profile: id, name and email only.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeCode(w, http.StatusUnauthorized, codeInvalidJWT)
		return
	}

	profile, err := h.userService.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusUnauthorized, codeUserMissing)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeCode(w, http.StatusUnauthorized, codeInvalidJWT)
		return
	}

	var req UpdateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == nil && req.Email == nil && req.Password == nil {
		writeCode(w, http.StatusBadRequest, codeNoData)
		return
	}

	var hashedPassword *string
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeCode(w, http.StatusInternalServerError, codeInternalError)
			return
		}
		value := string(hashed)
		hashedPassword = &value
	}

	if err := h.userService.Update(r.Context(), userID, req.Name, req.Email, hashedPassword); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			writeCode(w, http.StatusMethodNotAllowed, codeEmailAlreadyExists)
		case errors.Is(err, store.ErrNotFound):
			writeCode(w, http.StatusNotFound, codeInvalidData)
		default:
			writeCode(w, http.StatusInternalServerError, codeInternalError)
		}
		return
	}

	writeMessage(w, http.StatusOK, codeUserUpdated)
}

// DeleteUser removes the caller's account and, through the store cascades,
// every folder, card and score hanging off it.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeCode(w, http.StatusUnauthorized, codeInvalidJWT)
		return
	}

	if err := h.userService.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusNotFound, codeUserMissing)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeMessage(w, http.StatusOK, codeUserDeleted)
}

func (h *UserHandler) GetFolders(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeCode(w, http.StatusUnauthorized, codeInvalidJWT)
		return
	}

	folders, err := h.userService.Folders(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusNotFound, codeNoFolderFound)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeJSON(w, http.StatusOK, folders)
}

func (h *UserHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeCode(w, http.StatusUnauthorized, codeInvalidJWT)
		return
	}
	folderID, err := parseIDParam(r, "folderID")
	if err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.userService.Folder(r.Context(), userID, folderID)
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

func (h *UserHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeCode(w, http.StatusUnauthorized, codeInvalidJWT)
		return
	}

	var req CreateFolderRequest
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.userService.CreateFolder(r.Context(), userID, req.Name, *req.Public); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusBadRequest, codeInvalidData)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeMessage(w, http.StatusCreated, codeFolderCreated)
}

func (h *UserHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeCode(w, http.StatusUnauthorized, codeInvalidJWT)
		return
	}
	folderID, err := parseIDParam(r, "folderID")
	if err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateFolderRequest
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == nil && req.Public == nil {
		writeCode(w, http.StatusBadRequest, codeNoData)
		return
	}

	if err := h.userService.UpdateFolder(r.Context(), userID, folderID, req.Name, req.Public); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusNotFound, codeNoFolderFound)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeMessage(w, http.StatusOK, codeFolderUpdated)
}

func (h *UserHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeCode(w, http.StatusUnauthorized, codeInvalidJWT)
		return
	}
	folderID, err := parseIDParam(r, "folderID")
	if err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.userService.DeleteFolder(r.Context(), userID, folderID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusNotFound, codeNoFolderFound)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeMessage(w, http.StatusOK, codeFolderDeleted)
}

func (h *UserHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeCode(w, http.StatusUnauthorized, codeInvalidJWT)
		return
	}
	folderID, err := parseIDParam(r, "folderID")
	if err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	cards, err := h.userService.Cards(r.Context(), userID, folderID)
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

func (h *UserHandler) GetCard(w http.ResponseWriter, r *http.Request) {
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

	card, err := h.userService.Card(r.Context(), userID, folderID, cardID)
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

func (h *UserHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeCode(w, http.StatusUnauthorized, codeInvalidJWT)
		return
	}
	folderID, err := parseIDParam(r, "folderID")
	if err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UpsertCardRequest
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Front == nil && req.Back == nil {
		writeCode(w, http.StatusBadRequest, codeNoData)
		return
	}

	front, back := "", ""
	if req.Front != nil {
		front = *req.Front
	}
	if req.Back != nil {
		back = *req.Back
	}

	if _, err := h.userService.CreateCard(r.Context(), userID, folderID, front, back); err != nil {
		// An unresolvable folder rejects the create without confirming
		// whether the folder exists at all.
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusBadRequest, codeInvalidData)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeMessage(w, http.StatusCreated, codeCardCreated)
}

func (h *UserHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
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

	var req UpsertCardRequest
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Front == nil && req.Back == nil {
		writeCode(w, http.StatusBadRequest, codeNoData)
		return
	}

	if err := h.userService.UpdateCard(r.Context(), userID, folderID, cardID, req.Front, req.Back); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusNotFound, codeNoCardFound)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeMessage(w, http.StatusOK, codeCardUpdated)
}

func (h *UserHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
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

	if err := h.userService.DeleteCard(r.Context(), userID, folderID, cardID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusNotFound, codeNoCardFound)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeMessage(w, http.StatusOK, codeCardDeleted)
}

// GetScore answers the bare numeric value of the caller's score on the
// card. Absence of the card and absence of the score read the same.
func (h *UserHandler) GetScore(w http.ResponseWriter, r *http.Request) {
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

	value, err := h.userService.Score(r.Context(), userID, folderID, cardID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusNotFound, codeNoCardFound)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeJSON(w, http.StatusOK, value)
}

func (h *UserHandler) CreateScore(w http.ResponseWriter, r *http.Request) {
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

	if err := h.userService.CreateScore(r.Context(), userID, folderID, cardID, *req.Score); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			writeCode(w, http.StatusBadRequest, codeScoreAlreadyExists)
		case errors.Is(err, store.ErrNotFound):
			writeCode(w, http.StatusNotFound, codeNoCardFound)
		default:
			writeCode(w, http.StatusInternalServerError, codeInternalError)
		}
		return
	}

	writeMessage(w, http.StatusCreated, codeScoreCreated)
}

func (h *UserHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
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

	if err := h.userService.UpdateScore(r.Context(), userID, folderID, cardID, *req.Score); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusNotFound, codeNoCardFound)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeMessage(w, http.StatusOK, codeScoreUpdated)
}

func (h *UserHandler) DeleteScore(w http.ResponseWriter, r *http.Request) {
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

	if err := h.userService.DeleteScore(r.Context(), userID, folderID, cardID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeCode(w, http.StatusNotFound, codeNoCardFound)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	writeMessage(w, http.StatusOK, codeScoreDeleted)
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password"`
}

type CreateFolderRequest struct {
	Name   string `json:"name" validate:"required"`
	Public *bool  `json:"public" validate:"required"`
}

type UpdateFolderRequest struct {
	Name   *string `json:"name"`
	Public *bool   `json:"public"`
}

type UpsertCardRequest struct {
	Front *string `json:"front"`
	Back  *string `json:"back"`
}

type ScoreRequest struct {
	Score *int `json:"score" validate:"required"`
}

func parseCardPath(r *http.Request) (folderID, cardID int, err error) {
	folderID, err = parseIDParam(r, "folderID")
	if err != nil {
		return 0, 0, err
	}
	cardID, err = parseIDParam(r, "cardID")
	if err != nil {
		return 0, 0, err
	}
	return folderID, cardID, nil
}
