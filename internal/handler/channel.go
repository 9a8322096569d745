package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"ripple/internal/channel"
	"ripple/internal/channel/model"
)

// ChannelHandler bundles dependencies for channel and message endpoints.
type ChannelHandler struct {
	Channels channel.ChannelUsecase
}

func NewChannelHandler(channels channel.ChannelUsecase) *ChannelHandler {
	return &ChannelHandler{Channels: channels}
}

// ----- DTOs -----

type createChannelReq struct {
	Name      string `json:"name"`
	CreatorID string `json:"creatorId"`
	ImageRef  string `json:"imageRef"`
}

type joinReq struct {
	UserID string `json:"userId"`
}

type joinByCodeReq struct {
	Code   string `json:"code"`
	UserID string `json:"userId"`
}

type appendMessageReq struct {
	Content     string `json:"content"`
	SenderID    string `json:"senderId"`
	Kind        string `json:"kind"`
	OneTimeView bool   `json:"oneTimeView"`
}

func (h *ChannelHandler) Create(c echo.Context) error {
	var req createChannelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	creatorID, err := uuid.Parse(req.CreatorID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid creator id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ch, err := h.Channels.Create(ctx, channel.CreateChannelCommand{
		Name:      req.Name,
		CreatorID: creatorID,
		ImageRef:  req.ImageRef,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, ch)
}

func (h *ChannelHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	channels, err := h.Channels.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, channels)
}

func (h *ChannelHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid channel id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ch, err := h.Channels.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *ChannelHandler) Join(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid channel id"})
	}
	var req joinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ch, err := h.Channels.JoinByID(ctx, id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *ChannelHandler) JoinByCode(c echo.Context) error {
	var req joinByCodeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ch, err := h.Channels.JoinByCode(ctx, req.Code, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *ChannelHandler) AppendMessage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid channel id"})
	}
	var req appendMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	senderID, err := uuid.Parse(req.SenderID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sender id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ch, err := h.Channels.Append(ctx, channel.AppendMessageCommand{
		ChannelID:   id,
		SenderID:    senderID,
		Content:     req.Content,
		Kind:        model.MessageKind(req.Kind),
		OneTimeView: req.OneTimeView,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ch)
}

// MarkViewed records first display of a one-time-view image.
func (h *ChannelHandler) MarkViewed(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid channel id"})
	}
	messageID, err := uuid.Parse(c.Param("messageId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Channels.MarkViewed(ctx, id, messageID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
