package router

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"ripple/internal/handler"
)

// RegisterRoutes wires the public API. There is no authentication layer:
// possession of a channel code is the only credential this system knows.
func RegisterRoutes(e *echo.Echo, users *handler.UserHandler, channels *handler.ChannelHandler) {
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/healthz", handler.Health)

	api := e.Group("/api")

	api.POST("/users", users.Create)
	api.GET("/users/:id", users.Get)

	api.POST("/channels", channels.Create)
	api.GET("/channels", channels.List)
	// join-by-code is registered before /channels/:id so the literal
	// segment is not swallowed by the id parameter.
	api.POST("/channels/join-by-code", channels.JoinByCode)
	api.GET("/channels/:id", channels.Get)
	api.POST("/channels/:id/join", channels.Join)
	api.POST("/channels/:id/messages", channels.AppendMessage)
	api.POST("/channels/:id/messages/:messageId/viewed", channels.MarkViewed)
}
