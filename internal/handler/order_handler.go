package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/campusbooks/marketplace-backend/internal/authctx"
	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/campusbooks/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type OrderResponse struct {
	ID        uint64 `json:"id"`
	ListingID uint64 `json:"listingId"`
	BuyerUID  string `json:"buyerUid"`
	Status    string `json:"status"`
	OrderDate string `json:"orderDate"`
}

func toOrderResponse(order *model.Order) OrderResponse {
	return OrderResponse{
		ID:        order.ID,
		ListingID: order.ListingID,
		BuyerUID:  order.BuyerUID,
		Status:    string(order.Status),
		OrderDate: order.OrderDate.Format(time.RFC3339),
	}
}

// withOrder factors the shared principal/id plumbing out of the four
// single-order actions.
func (h *OrderHandler) withOrder(c echo.Context, fn func(p authctx.Principal, id uint64) (*model.Order, error)) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	order, err := fn(p, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) Create(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	listingID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}
	order, err := h.svc.Create(c.Request().Context(), p, listingID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) CreateFromOffer(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	offerID, err := parseID(c, "offerId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid offer id"))
	}
	order, err := h.svc.CreateFromAcceptedOffer(c.Request().Context(), p, offerID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) Accept(c echo.Context) error {
	return h.withOrder(c, func(p authctx.Principal, id uint64) (*model.Order, error) {
		return h.svc.Accept(c.Request().Context(), p, id)
	})
}

func (h *OrderHandler) Complete(c echo.Context) error {
	return h.withOrder(c, func(p authctx.Principal, id uint64) (*model.Order, error) {
		return h.svc.Complete(c.Request().Context(), p, id)
	})
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	return h.withOrder(c, func(p authctx.Principal, id uint64) (*model.Order, error) {
		return h.svc.Cancel(c.Request().Context(), p, id)
	})
}

func (h *OrderHandler) Get(c echo.Context) error {
	return h.withOrder(c, func(p authctx.Principal, id uint64) (*model.Order, error) {
		return h.svc.Get(c.Request().Context(), p, id)
	})
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	return h.list(c, h.svc.ListMine)
}

func (h *OrderHandler) ListSales(c echo.Context) error {
	return h.list(c, h.svc.ListSales)
}

func (h *OrderHandler) list(c echo.Context, fn func(ctx context.Context, p authctx.Principal) ([]model.Order, error)) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	orders, err := fn(c.Request().Context(), p)
	if err != nil {
		return serviceError(c, err)
	}
	resp := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	return c.JSON(http.StatusOK, resp)
}
