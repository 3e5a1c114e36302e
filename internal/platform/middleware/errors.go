package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/biofad/lis/pkg/apperror"
)

// ErrorResponse is the single envelope every failed request gets, replacing
// the mix of `{error}` and `{success:false,error}` shapes the frontend used
// to see.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ErrorHandler returns an echo HTTPErrorHandler that maps domain errors to
// statuses via apperror and redacts internal detail outside development mode.
func ErrorHandler(logger zerolog.Logger, dev bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := apperror.HTTPStatus(err)
		msg := err.Error()

		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}

		if status == http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
			if !dev {
				msg = "internal server error"
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, ErrorResponse{Success: false, Error: msg})
	}
}

// NotFoundHandler answers unmatched routes with the same envelope.
func NotFoundHandler(c echo.Context) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{
		Success: false,
		Error:   "ruta no encontrada: " + c.Request().Method + " " + c.Request().URL.Path,
	})
}
