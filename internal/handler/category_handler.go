package handler

import (
	"net/http"

	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/campusbooks/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	svc service.CategoryService
}

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

type CategoryResponse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description"`
}

func toCategoryResponse(category *model.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
	}
}

func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.svc.List(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	resp := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, toCategoryResponse(&categories[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	category, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

func (h *CategoryHandler) Create(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("validation_error", err.Error()))
	}
	category, err := h.svc.Create(c.Request().Context(), p, req.Name, req.Description)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

func (h *CategoryHandler) Update(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("validation_error", err.Error()))
	}
	category, err := h.svc.Update(c.Request().Context(), p, id, req.Name, req.Description)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.Delete(c.Request().Context(), p, id); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
