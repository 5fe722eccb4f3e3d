package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/flashfolio/apiserver/internal/services"
	"github.com/flashfolio/apiserver/internal/store"
	"github.com/flashfolio/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = time.Hour
const minPasswordLength = 8

// AuthHandler provides JWT authentication endpoints. Tokens bind a single
// user id in the subject claim; the id is never reassigned after deletion,
// so a token can at worst reference a user that no longer exists, which
// the middleware reports as its own failure.
type AuthHandler struct {
	userService *services.UserService
	secret      []byte
	tokenTTL    time.Duration
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		secret:      []byte(jwtSecret),
		tokenTTL:    defaultTokenTTL,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, jwtSecret string) {
	handler := NewAuthHandler(userService, jwtSecret)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
}

// RequireAuth enforces bearer authentication and injects the verified user
// id into the request context. It runs before any handler logic and keeps
// the three failure classes distinct: absent token, unusable token, and a
// token whose user no longer exists.
func RequireAuth(jwtSecret string, userService *services.UserService) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				if errors.Is(err, errNoAuthHeader) {
					writeCode(w, http.StatusUnauthorized, codeNoJWT)
					return
				}
				writeCode(w, http.StatusUnauthorized, codeInvalidJWT)
				return
			}

			userID, err := parseTokenSubject(tokenString, secret)
			if err != nil {
				writeCode(w, http.StatusUnauthorized, codeInvalidJWT)
				return
			}

			if _, err := userService.GetByID(r.Context(), userID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					writeCode(w, http.StatusUnauthorized, codeUserMissing)
					return
				}
				writeCode(w, http.StatusInternalServerError, codeInternalError)
				return
			}

			ctx := context.WithValue(r.Context(), contextSubjectKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Register creates a new user account and binds a bearer token into the
// Authorization response header.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	if len(req.Password) < minPasswordLength {
		writeCode(w, http.StatusBadRequest, codeShortPassword)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	id, err := h.userService.Create(r.Context(), types.User{
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: string(hashed),
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeCode(w, http.StatusBadRequest, codeInvalidData)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	token, err := issueToken(id, h.secret, h.tokenTTL)
	if err != nil {
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	w.WriteHeader(http.StatusOK)
}

// Login verifies credentials. The response is always 200; the
// Authorization header carries either a real token or the failure text, so
// the status code alone reveals nothing about account existence.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			w.Header().Set("Authorization", "Bearer "+codeNoUserFound)
			w.WriteHeader(http.StatusOK)
			return
		}
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		w.Header().Set("Authorization", "Bearer "+codeWrongPassword)
		w.WriteHeader(http.StatusOK)
		return
	}

	token, err := issueToken(user.ID, h.secret, h.tokenTTL)
	if err != nil {
		writeCode(w, http.StatusInternalServerError, codeInternalError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	w.WriteHeader(http.StatusOK)
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func issueToken(userID int, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseTokenSubject(tokenString string, secret []byte) (int, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errors.New("invalid token")
	}
	userID, err := strconv.Atoi(strings.TrimSpace(claims.Subject))
	if err != nil || userID < 1 {
		return 0, errors.New("invalid subject")
	}
	return userID, nil
}

var errNoAuthHeader = errors.New("missing authorization")

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errNoAuthHeader
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
