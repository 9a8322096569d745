package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"ripple/pkg/errors"
)

// respondError maps the domain error taxonomy onto HTTP. Validation and
// not-found keep their descriptive messages; transient failures get a
// generic retry message so persistence detail never reaches clients.
func respondError(c echo.Context, err error) error {
	var app *errors.AppError
	if !stderrors.As(err, &app) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	switch app.Code {
	case errors.CodeInvalidArgument:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": app.Message})
	case errors.CodeNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": app.Message})
	case errors.CodeResourceExhausted, errors.CodeUnavailable:
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, try again"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
