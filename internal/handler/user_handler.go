package handler

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/campusbooks/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	svc        service.UserService
	reviewSvc  service.ReviewService
	authClient *auth.Client
}

func NewUserHandler(svc service.UserService, reviewSvc service.ReviewService, authClient *auth.Client) *UserHandler {
	return &UserHandler{svc: svc, reviewSvc: reviewSvc, authClient: authClient}
}

type RegisterRequest struct {
	DisplayName string `json:"displayName" validate:"required,max=120"`
	Email       string `json:"email" validate:"omitempty,email"`
	Role        string `json:"role" validate:"required,oneof=buyer seller"`
}

type UserResponse struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		UID:         user.UID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Role:        string(user.Role),
	}
}

// Register stores the user row and pins the chosen role onto the firebase
// account as a custom claim, so subsequent ID tokens carry it.
func (h *UserHandler) Register(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("validation_error", err.Error()))
	}
	user, err := h.svc.Register(c.Request().Context(), p.UID, req.DisplayName, req.Email, model.Role(req.Role))
	if err != nil {
		return serviceError(c, err)
	}
	if h.authClient != nil {
		claims := map[string]interface{}{"role": string(user.Role)}
		if err := h.authClient.SetCustomUserClaims(c.Request().Context(), user.UID, claims); err != nil {
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to set role claim"))
		}
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *UserHandler) Me(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	user, err := h.svc.Get(c.Request().Context(), p.UID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

type PublicUserResponse struct {
	UID           string  `json:"uid"`
	DisplayName   string  `json:"displayName"`
	Role          string  `json:"role"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}

func (h *UserHandler) GetPublic(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid uid"))
	}
	user, err := h.svc.Get(c.Request().Context(), uid)
	if err != nil {
		return serviceError(c, err)
	}
	_, summary, err := h.reviewSvc.ListForUser(c.Request().Context(), uid)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, PublicUserResponse{
		UID:           user.UID,
		DisplayName:   user.DisplayName,
		Role:          string(user.Role),
		AverageRating: summary.Average,
		ReviewCount:   summary.Total,
	})
}
