package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	apperrors "task-manager.com/task-manager/internal/errors"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorHandler renders application errors with their status and kind. Anything
// unrecognised is logged and reported as a bare 500.
func ErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := render(err)
		if status == http.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"uri":    c.Request().RequestURI,
			}).Error("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.WithError(err).Error("failed to write error response")
		}
	}
}

func render(err error) (int, errorResponse) {
	if kind := apperrors.KindOf(err); kind != apperrors.KindInternal {
		return apperrors.StatusCode(err), errorResponse{Error: string(kind), Message: err.Error()}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: statusKind(he.Code), Message: fmt.Sprint(he.Message)}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   string(apperrors.KindInternal),
		Message: http.StatusText(http.StatusInternalServerError),
	}
}

func statusKind(code int) string {
	return strings.ToLower(strings.ReplaceAll(http.StatusText(code), " ", "_"))
}
