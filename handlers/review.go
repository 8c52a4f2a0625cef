package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coastwatch/review"
	"coastwatch/store"
	"coastwatch/types"
)

type decisionRequest struct {
	Outcome string `json:"outcome" binding:"required"`
}

// GetReviewQueue returns the pending review tickets.
func GetReviewQueue(c *gin.Context, wf *review.Workflow) {
	c.JSON(http.StatusOK, gin.H{"tickets": wf.PendingTickets()})
}

// DecideReview applies an analyst decision to a ticket.
func DecideReview(c *gin.Context, wf *review.Workflow) {
	ticketID := c.Param("id")

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "outcome is required"})
		return
	}

	var outcome types.HotspotStatus
	switch req.Outcome {
	case "confirmed", "confirm":
		outcome = types.Confirmed
	case "rejected", "reject":
		outcome = types.Rejected
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "outcome must be 'confirmed' or 'rejected'"})
		return
	}

	candidate, err := wf.Decide(c.Request.Context(), ticketID, outcome)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrUnknownTicket), errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown ticket"})
		case errors.Is(err, review.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "candidate is no longer pending", "candidate": candidate})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, candidate)
}
