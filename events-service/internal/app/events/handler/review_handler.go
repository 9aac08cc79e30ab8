package handler

import (
	"net/http"

	"eventhub/events-service/internal/app/events/entity"
	"eventhub/events-service/internal/app/events/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewServiceInterface
}

func NewReviewHandler(reviewService service.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReview - POST /events/:id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "id", "Invalid event ID")
	if !ok {
		return
	}

	var req entity.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), identity, eventID, &req)
	if err != nil {
		respondError(c, err, "Failed to create review")
		return
	}

	c.JSON(http.StatusCreated, entity.NewReviewView(*review))
}

// DeleteReview - DELETE /events/:id/reviews/:reviewId, автор или администратор
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "id", "Invalid event ID")
	if !ok {
		return
	}
	reviewID, ok := parseID(c, "reviewId", "Invalid review ID")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), identity, eventID, reviewID); err != nil {
		respondError(c, err, "Failed to delete review")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Review deleted successfully"})
}

// RespondToReview - PUT /events/:id/reviews/:reviewId/response
func (h *ReviewHandler) RespondToReview(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "id", "Invalid event ID")
	if !ok {
		return
	}
	reviewID, ok := parseID(c, "reviewId", "Invalid review ID")
	if !ok {
		return
	}

	var req entity.AdminResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	review, err := h.reviewService.RespondToReview(c.Request.Context(), identity, eventID, reviewID, &req)
	if err != nil {
		respondError(c, err, "Failed to save admin response")
		return
	}

	c.JSON(http.StatusOK, entity.NewReviewView(*review))
}
