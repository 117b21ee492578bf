package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/campusbooks/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ListingHandler struct {
	svc service.ListingService
}

func NewListingHandler(svc service.ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

type ListingResponse struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Condition   string  `json:"condition"`
	IsSold      bool    `json:"isSold"`
	CategoryID  uint64  `json:"categoryId"`
	SellerUID   string  `json:"sellerUid"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type ListingListResponse struct {
	Listings []ListingResponse `json:"listings"`
	Total    int64             `json:"total"`
}

type ListingRequest struct {
	Title       string  `json:"title" validate:"required,max=120"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Condition   string  `json:"condition" validate:"required"`
	CategoryID  uint64  `json:"categoryId" validate:"required"`
	ImageURL    *string `json:"imageUrl"`
}

func toListingResponse(listing *model.Listing) ListingResponse {
	return ListingResponse{
		ID:          listing.ID,
		Title:       listing.Title,
		Description: listing.Description,
		Price:       listing.Price,
		Condition:   string(listing.Condition),
		IsSold:      listing.IsSold,
		CategoryID:  listing.CategoryID,
		SellerUID:   listing.SellerUID,
		ImageURL:    listing.ImageURL,
		CreatedAt:   listing.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   listing.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *ListingHandler) bind(c echo.Context) (*ListingRequest, error) {
	var req ListingRequest
	if err := c.Bind(&req); err != nil {
		return nil, c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := c.Validate(&req); err != nil {
		return nil, c.JSON(http.StatusBadRequest, NewErrorResponse("validation_error", err.Error()))
	}
	return &req, nil
}

func (h *ListingHandler) Create(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	req, err := h.bind(c)
	if req == nil {
		return err
	}
	listing, err := h.svc.Create(c.Request().Context(), p, service.ListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Condition:   model.ListingCondition(req.Condition),
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toListingResponse(listing))
}

func (h *ListingHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	listing, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toListingResponse(listing))
}

func (h *ListingHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	categoryID, _ := strconv.ParseUint(c.QueryParam("categoryId"), 10, 64)
	includeSold := c.QueryParam("includeSold") == "true"
	listings, total, err := h.svc.List(c.Request().Context(), limit, offset, categoryID, includeSold)
	if err != nil {
		return serviceError(c, err)
	}
	resp := ListingListResponse{
		Listings: make([]ListingResponse, 0, len(listings)),
		Total:    total,
	}
	for i := range listings {
		resp.Listings = append(resp.Listings, toListingResponse(&listings[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) ListMine(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	listings, err := h.svc.ListMine(c.Request().Context(), p)
	if err != nil {
		return serviceError(c, err)
	}
	resp := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		resp = append(resp, toListingResponse(&listings[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) Update(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	req, err := h.bind(c)
	if req == nil {
		return err
	}
	listing, err := h.svc.Update(c.Request().Context(), p, id, service.ListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Condition:   model.ListingCondition(req.Condition),
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toListingResponse(listing))
}

func (h *ListingHandler) Delete(c echo.Context) error {
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
