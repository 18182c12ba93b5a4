package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanadhub/donations-backend/internal/model"
	"github.com/sanadhub/donations-backend/internal/repository"
	"github.com/sanadhub/donations-backend/internal/utils"
)

// UserHandler exposes the admin user-management surface.
type UserHandler struct {
	Users      *repository.UserRepo
	Tokens     *repository.TokenRepo
	BcryptCost int
}

func NewUserHandler(users *repository.UserRepo, tokens *repository.TokenRepo, bcryptCost int) *UserHandler {
	return &UserHandler{Users: users, Tokens: tokens, BcryptCost: bcryptCost}
}

// List returns every user. The admin console is small enough that this is
// unpaginated, matching the other admin collections.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make([]echo.Map, 0, len(users))
	for _, u := range users {
		out = append(out, userJSON(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

func (h *UserHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": userJSON(u)})
}

type createUserReq struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	Role              string `json:"role"`
	Status            string `json:"status"`
	PreferredLanguage string `json:"preferredLanguage"`
}

// Create lets an admin provision any role, including other admins.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and a password of at least 6 characters are required"})
	}
	if !model.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}
	status := req.Status
	if status == "" {
		status = model.StatusActive
	}
	if !model.ValidUserStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Users.CreateWithStatus(ctx, req.Name, req.Email, hash, req.Role, status)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	u, err := h.Users.FindByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": userJSON(u)})
}

type updateUserReq struct {
	Name              *string `json:"name"`
	Role              *string `json:"role"`
	Status            *string `json:"status"`
	PreferredLanguage *string `json:"preferredLanguage"`
	Password          *string `json:"password"`
}

// Update applies partial changes. Deactivating a user also revokes all of
// their refresh sessions so stolen cookies die with the account.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Role != nil && !model.ValidRole(*req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}
	if req.Status != nil && !model.ValidUserStatus(*req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	if req.PreferredLanguage != nil && !model.ValidLanguage(*req.PreferredLanguage) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid language"})
	}

	upd := repository.UserUpdate{
		Name:              req.Name,
		Role:              req.Role,
		Status:            req.Status,
		PreferredLanguage: req.PreferredLanguage,
	}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
		}
		hash, err := utils.HashPassword(*req.Password, h.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		upd.PasswordHash = &hash
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Update(ctx, id, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	if req.Status != nil && *req.Status == model.StatusInactive {
		if err := h.Tokens.RevokeAllForUser(ctx, id); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	u, err := h.Users.FindByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": userJSON(u)})
}

// Delete removes the account and revokes all of its sessions first.
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if id == currentUserID(c) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete your own account"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Tokens.RevokeAllForUser(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
