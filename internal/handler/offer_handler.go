package handler

import (
	"net/http"
	"time"

	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/campusbooks/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type OfferHandler struct {
	svc service.OfferService
}

func NewOfferHandler(svc service.OfferService) *OfferHandler {
	return &OfferHandler{svc: svc}
}

type OfferResponse struct {
	ID           uint64  `json:"id"`
	ListingID    uint64  `json:"listingId"`
	BuyerUID     string  `json:"buyerUid"`
	OfferedPrice float64 `json:"offeredPrice"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
}

type CreateOfferRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

func toOfferResponse(offer *model.Offer) OfferResponse {
	return OfferResponse{
		ID:           offer.ID,
		ListingID:    offer.ListingID,
		BuyerUID:     offer.BuyerUID,
		OfferedPrice: offer.OfferedPrice,
		Status:       string(offer.Status),
		CreatedAt:    offer.CreatedAt.Format(time.RFC3339),
	}
}

func (h *OfferHandler) Create(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	listingID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}
	var req CreateOfferRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("validation_error", err.Error()))
	}
	offer, err := h.svc.Create(c.Request().Context(), p, listingID, req.Price)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toOfferResponse(offer))
}

func (h *OfferHandler) Accept(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	offerID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid offer id"))
	}
	offer, err := h.svc.Accept(c.Request().Context(), p, offerID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toOfferResponse(offer))
}

func (h *OfferHandler) Reject(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	offerID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid offer id"))
	}
	offer, err := h.svc.Reject(c.Request().Context(), p, offerID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toOfferResponse(offer))
}

func (h *OfferHandler) Get(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	offerID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid offer id"))
	}
	offer, err := h.svc.Get(c.Request().Context(), p, offerID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toOfferResponse(offer))
}

func (h *OfferHandler) ListByListing(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	listingID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}
	offers, err := h.svc.ListByListing(c.Request().Context(), p, listingID)
	if err != nil {
		return serviceError(c, err)
	}
	resp := make([]OfferResponse, 0, len(offers))
	for i := range offers {
		resp = append(resp, toOfferResponse(&offers[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *OfferHandler) ListMine(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	offers, err := h.svc.ListMine(c.Request().Context(), p)
	if err != nil {
		return serviceError(c, err)
	}
	resp := make([]OfferResponse, 0, len(offers))
	for i := range offers {
		resp = append(resp, toOfferResponse(&offers[i]))
	}
	return c.JSON(http.StatusOK, resp)
}
