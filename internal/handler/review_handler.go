package handler

import (
	"net/http"
	"time"

	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/campusbooks/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type ReviewResponse struct {
	ID          uint64 `json:"id"`
	OrderID     uint64 `json:"orderId"`
	ReviewerUID string `json:"reviewerUid"`
	RevieweeUID string `json:"revieweeUid"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	CreatedAt   string `json:"createdAt"`
}

type ReviewListResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating float64          `json:"averageRating"`
	Total         int64            `json:"total"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func toReviewResponse(review *model.Review) ReviewResponse {
	return ReviewResponse{
		ID:          review.ID,
		OrderID:     review.OrderID,
		ReviewerUID: review.ReviewerUID,
		RevieweeUID: review.RevieweeUID,
		Rating:      review.Rating,
		Comment:     review.Comment,
		CreatedAt:   review.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ReviewHandler) Create(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	orderID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid order id"))
	}
	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("validation_error", err.Error()))
	}
	review, err := h.svc.Create(c.Request().Context(), p, orderID, req.Rating, req.Comment)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toReviewResponse(review))
}

func (h *ReviewHandler) Update(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	reviewID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid review id"))
	}
	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("validation_error", err.Error()))
	}
	review, err := h.svc.Update(c.Request().Context(), p, reviewID, req.Rating, req.Comment)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toReviewResponse(review))
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing principal"))
	}
	reviewID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid review id"))
	}
	if err := h.svc.Delete(c.Request().Context(), p, reviewID); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReviewHandler) ListForUser(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid uid"))
	}
	reviews, summary, err := h.svc.ListForUser(c.Request().Context(), uid)
	if err != nil {
		return serviceError(c, err)
	}
	resp := ReviewListResponse{
		Reviews:       make([]ReviewResponse, 0, len(reviews)),
		AverageRating: summary.Average,
		Total:         summary.Total,
	}
	for i := range reviews {
		resp.Reviews = append(resp.Reviews, toReviewResponse(&reviews[i]))
	}
	return c.JSON(http.StatusOK, resp)
}
