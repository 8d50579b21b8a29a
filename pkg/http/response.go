package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// JSONResponse writes data with the given HTTP status.
func JSONResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, data)
}

// SuccessResponse writes a 200 response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return JSONResponse(c, http.StatusOK, data)
}

// ErrorResponse writes an ErrorBody with the given status.
func ErrorResponse(c echo.Context, statusCode int, detail string, errs []ValidationError) error {
	return c.JSON(statusCode, ErrorBody{
		Status:  statusCode,
		Message: http.StatusText(statusCode),
		Detail:  detail,
		Errors:  errs,
	})
}

// BadRequestResponse writes validation errors as a 400.
func BadRequestResponse(c echo.Context, errs []ValidationError) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return ErrorResponse(c, http.StatusBadRequest, strings.Join(msgs, "; "), errs)
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, "Something went wrong", nil)
}

// AppErrorResponse writes application error response.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return ErrorResponse(c, appErr.Status, appErr.Message, []ValidationError{{
			Code:    appErr.Code,
			Field:   appErr.Field,
			Message: appErr.Message,
			Params:  appErr.Params,
		}})
	}
	return InternalServerErrorResponse(c)
}
