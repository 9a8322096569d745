package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"ripple/internal/identity"
)

// UserHandler bundles dependencies for identity endpoints.
type UserHandler struct {
	Users identity.UserUsecase
}

func NewUserHandler(users identity.UserUsecase) *UserHandler {
	return &UserHandler{Users: users}
}

type createUserReq struct {
	Username  string `json:"username"`
	AvatarRef string `json:"avatarRef"`
}

// Create: register a new identity and return the canonical record.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Register(ctx, identity.RegisterCommand{
		Username: req.Username,
		Avatar:   req.AvatarRef,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// Get: fetch a stored profile; also counts as a last-seen touch.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
