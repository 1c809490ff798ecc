package serviceutils

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/trial_report/internal/domain"
	"github.com/locvowork/trial_report/internal/logger"
)

// ResponseSuccess writes a report descriptor.
func ResponseSuccess(c echo.Context, status int, res *domain.ReportResult) error {
	return c.JSON(status, res)
}

// ResponseError writes {message, code} built from err; the HTTP status equals the code.
// message only goes to the log.
func ResponseError(c echo.Context, message string, err error) error {
	desc := domain.NewErrorDescriptor(err)
	if desc.Code >= http.StatusInternalServerError {
		logger.ErrorLog(c.Request().Context(), "%s", err, message)
	} else {
		logger.WarnLog(c.Request().Context(), "%s: %v", message, err)
	}
	return c.JSON(desc.Code, desc)
}
