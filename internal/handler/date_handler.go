package handler

import (
	"context"
	"net/http"
	"time"

	"datefinder/backend/internal/relationship"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// DateProposalInput is the body of a new date proposal.
type DateProposalInput struct {
	RestaurantID uint      `json:"restaurant_id" binding:"required" example:"1"`
	MeetTime     time.Time `json:"meet_time" binding:"required" example:"2026-11-20T19:30:00Z"`
	DressType    string    `json:"dress_type" binding:"required,oneof=dressy casual formal whatever" example:"casual"`
	Message      string    `json:"message" binding:"max=500" example:"Dinner on Friday?"`
}

// DateResponse is a scheduled date with its restaurant snapshot.
type DateResponse struct {
	ID         uint                    `json:"id" example:"1"`
	SenderID   uint                    `json:"sender_id" example:"1"`
	ReceiverID uint                    `json:"receiver_id" example:"2"`
	Restaurant relationship.Restaurant `json:"restaurant"`
	MeetTime   time.Time               `json:"meet_time"`
	DressType  string                  `json:"dress_type" example:"casual"`
	Message    string                  `json:"message"`
	Status     string                  `json:"status" example:"pending"`
	CreatedAt  time.Time               `json:"created_at"`
}

func newDateResponse(s relationship.Schedule) DateResponse {
	return DateResponse{
		ID:         s.ID,
		SenderID:   s.SenderID,
		ReceiverID: s.ReceiverID,
		Restaurant: s.Restaurant,
		MeetTime:   s.MeetTime,
		DressType:  string(s.DressType),
		Message:    s.Message,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt,
	}
}

func newDateResponses(dates []relationship.Schedule) []DateResponse {
	out := make([]DateResponse, 0, len(dates))
	for _, d := range dates {
		out = append(out, newDateResponse(d))
	}
	return out
}

// endregion

// region --- Date Handlers ---

// ProposeDate godoc
// @Summary      Propose a date
// @Description  Proposes a date at a restaurant to a friend. Rejected with reason notFriends or blocked.
// @Tags         dates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        receiverId path int               true "Receiver user ID"
// @Param        input      body DateProposalInput true "Proposal"
// @Success      200  {object}  ResultResponse[DateResponse]
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "User or restaurant not found"
// @Router       /dates/proposals/{receiverId} [post]
func (h *Handler) ProposeDate(c *gin.Context) {
	receiverID, ok := parseID(c, "receiverId")
	if !ok {
		return
	}
	var input DateProposalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	me, ok := h.actor(c)
	if !ok {
		return
	}

	res, err := h.scheduler.ProposeDate(c.Request.Context(), me, receiverID, relationship.DateProposal{
		RestaurantID: input.RestaurantID,
		MeetTime:     input.MeetTime,
		DressType:    relationship.DressType(input.DressType),
		Message:      input.Message,
	})
	if err != nil {
		h.respondError(c, "propose_date", err)
		return
	}
	respondResult(c, "propose_date", res, newDateResponse)
}

// AcceptDate godoc
// @Summary      Accept a date
// @Description  Approves a pending date addressed to the caller. Dates from blocked senders are discarded with reason blockedSender.
// @Tags         dates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Date ID"
// @Success      200  {object}  ResultResponse[DateResponse]
// @Failure      400  {object}  ErrorResponse "Date is not pending"
// @Failure      403  {object}  ErrorResponse "Not the receiver"
// @Failure      404  {object}  ErrorResponse "Date not found"
// @Router       /dates/{id}/accept [post]
func (h *Handler) AcceptDate(c *gin.Context) {
	h.dateDecision(c, "accept_date", h.scheduler.AcceptDate)
}

// RejectDate godoc
// @Summary      Reject a date
// @Description  Rejects a pending date addressed to the caller.
// @Tags         dates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Date ID"
// @Success      200  {object}  ResultResponse[DateResponse]
// @Failure      400  {object}  ErrorResponse "Date is not pending"
// @Failure      403  {object}  ErrorResponse "Not the receiver"
// @Failure      404  {object}  ErrorResponse "Date not found"
// @Router       /dates/{id}/reject [post]
func (h *Handler) RejectDate(c *gin.Context) {
	h.dateDecision(c, "reject_date", h.scheduler.RejectDate)
}

// ListDates godoc
// @Summary      List received dates
// @Description  Lists dates addressed to the caller with the given status. Dates from blocked senders are omitted.
// @Tags         dates
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "pending, approved or rejected" default(pending)
// @Success      200  {array}   DateResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /dates [get]
func (h *Handler) ListDates(c *gin.Context) {
	status, err := relationship.ParseDateStatus(c.DefaultQuery("status", string(relationship.StatusPending)))
	if err != nil {
		h.respondError(c, "list_dates", err)
		return
	}
	me, ok := h.actor(c)
	if !ok {
		return
	}

	dates, err := h.scheduler.ListDates(c.Request.Context(), me, status)
	if err != nil {
		h.respondError(c, "list_dates", err)
		return
	}
	c.JSON(http.StatusOK, newDateResponses(dates))
}

// ListSentDates godoc
// @Summary      List proposed dates
// @Description  Lists dates the caller proposed with the given status.
// @Tags         dates
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "pending, approved or rejected" default(pending)
// @Success      200  {array}   DateResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /dates/sent [get]
func (h *Handler) ListSentDates(c *gin.Context) {
	status, err := relationship.ParseDateStatus(c.DefaultQuery("status", string(relationship.StatusPending)))
	if err != nil {
		h.respondError(c, "list_sent_dates", err)
		return
	}
	me, ok := h.actor(c)
	if !ok {
		return
	}

	dates, err := h.scheduler.ListSentDates(c.Request.Context(), me, status)
	if err != nil {
		h.respondError(c, "list_sent_dates", err)
		return
	}
	c.JSON(http.StatusOK, newDateResponses(dates))
}

// GetDate godoc
// @Summary      Get a date
// @Description  Returns a date the caller sent or received.
// @Tags         dates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Date ID"
// @Success      200  {object}  DateResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /dates/{id} [get]
func (h *Handler) GetDate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	me, ok := h.actor(c)
	if !ok {
		return
	}

	date, err := h.scheduler.GetDate(c.Request.Context(), me, id)
	if err != nil {
		h.respondError(c, "get_date", err)
		return
	}
	c.JSON(http.StatusOK, newDateResponse(date))
}

// endregion

func (h *Handler) dateDecision(c *gin.Context, operation string, decide func(ctx context.Context, actor relationship.User, id uint) (relationship.Result[relationship.Schedule], error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	me, ok := h.actor(c)
	if !ok {
		return
	}

	res, err := decide(c.Request.Context(), me, id)
	if err != nil {
		h.respondError(c, operation, err)
		return
	}
	respondResult(c, operation, res, newDateResponse)
}
