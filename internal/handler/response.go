package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/campusbooks/marketplace-backend/internal/authctx"
	"github.com/campusbooks/marketplace-backend/internal/repository"
	"github.com/campusbooks/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// principal pulls the authenticated caller off the request context. Routes
// behind RequireAuth always have one.
func principal(c echo.Context) (authctx.Principal, bool) {
	return authctx.PrincipalFrom(c.Request().Context())
}

func parseID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// serviceError maps the service error taxonomy onto HTTP responses.
// Unexpected errors surface as a generic 500 without internal detail.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", err.Error()))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
	case errors.Is(err, service.ErrInvalidOperation):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_operation", err.Error()))
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("validation_error", err.Error()))
	case errors.Is(err, repository.ErrStaleObject):
		return c.JSON(http.StatusConflict, NewErrorResponse("conflict", "resource was modified concurrently"))
	default:
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "unexpected error"))
	}
}
