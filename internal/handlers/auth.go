package handlers

import (
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"procurement/internal/apperr"
	"procurement/internal/respond"
	"procurement/models"
)

type tokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// RegisterHandler обрабатывает POST /api/auth/register.
// Самостоятельно регистрируются только поставщики, сотрудников заводит CLI.
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.fail(w, r, errors.Wrap(err, "hash password"))
		return
	}
	user := &models.User{
		Email:        models.NormalizeEmail(req.Email),
		Name:         req.Name,
		Role:         models.RoleVendor,
		PasswordHash: string(hash),
	}
	if err := h.Store.CreateUser(r.Context(), user); err != nil {
		h.fail(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, tokenResponse{Token: token, User: user})
}

// LoginHandler обрабатывает POST /api/auth/login
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.Store.GetUserByEmail(r.Context(), models.NormalizeEmail(req.Email))
	if err != nil {
		// не раскрываем, существует ли адрес
		if apperr.IsKind(err, apperr.KindNotFound) {
			err = apperr.Unauthorized()
		}
		h.fail(w, r, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.fail(w, r, apperr.Unauthorized())
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, tokenResponse{Token: token, User: user})
}

// MeHandler обрабатывает GET /api/auth/me: учётная запись владельца токена
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	user, err := h.Store.GetUser(r.Context(), actor.UserID)
	if err != nil {
		// токен пережил удалённую учётную запись
		if apperr.IsKind(err, apperr.KindNotFound) {
			err = apperr.Unauthorized()
		}
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}
