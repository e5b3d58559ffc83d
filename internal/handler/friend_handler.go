package handler

import (
	"context"
	"net/http"

	"datefinder/backend/internal/relationship"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// FriendRequestInput is the body of a new friend request.
type FriendRequestInput struct {
	Email   string `json:"email" binding:"required,email" example:"friend@example.com"`
	Message string `json:"message" binding:"max=500" example:"Hey, let's grab dinner!"`
}

// EmailInput identifies another user by e-mail.
type EmailInput struct {
	Email string `json:"email" binding:"required,email" example:"friend@example.com"`
}

// FriendRequestResponse is a pending request as seen by its receiver.
type FriendRequestResponse struct {
	Email   string `json:"email" example:"friend@example.com"`
	Message string `json:"message"`
}

// FriendResponse is a friend's public profile.
type FriendResponse struct {
	ID    uint   `json:"id" example:"2"`
	Email string `json:"email" example:"friend@example.com"`
}

// RelationsResponse is the caller's relationship state after a change.
type RelationsResponse struct {
	ID             uint                    `json:"id"`
	Email          string                  `json:"email"`
	Friends        []uint                  `json:"friends"`
	BlockedUsers   []uint                  `json:"blocked_users"`
	FriendRequests []FriendRequestResponse `json:"friend_requests"`
}

func newFriendRequestResponse(r relationship.FriendRequest) FriendRequestResponse {
	return FriendRequestResponse{Email: r.FromEmail, Message: r.Message}
}

func newFriendRequestResponses(requests []relationship.FriendRequest) []FriendRequestResponse {
	out := make([]FriendRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, newFriendRequestResponse(r))
	}
	return out
}

func newRelationsResponse(u relationship.User) RelationsResponse {
	resp := RelationsResponse{
		ID:             u.ID,
		Email:          u.Email,
		Friends:        u.Friends,
		BlockedUsers:   u.BlockedUsers,
		FriendRequests: newFriendRequestResponses(u.FriendRequests),
	}
	if resp.Friends == nil {
		resp.Friends = []uint{}
	}
	if resp.BlockedUsers == nil {
		resp.BlockedUsers = []uint{}
	}
	return resp
}

// endregion

// region --- Friend Request Handlers ---

// SendFriendRequest godoc
// @Summary      Send a friend request
// @Description  Adds a pending request to the target user's list. Rejected with reason blocked, alreadyFriends or duplicate.
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body FriendRequestInput true "Target and message"
// @Success      200  {object}  ResultResponse[FriendRequestResponse]
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /friends/requests [post]
func (h *Handler) SendFriendRequest(c *gin.Context) {
	var input FriendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	me, ok := h.actor(c)
	if !ok {
		return
	}

	res, err := h.scheduler.SendFriendRequest(c.Request.Context(), me, input.Email, input.Message)
	if err != nil {
		h.respondError(c, "send_friend_request", err)
		return
	}
	respondResult(c, "send_friend_request", res, newFriendRequestResponse)
}

// ListFriendRequests godoc
// @Summary      List pending friend requests
// @Description  Returns the caller's pending requests in the order they were received.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   FriendRequestResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /friends/requests [get]
func (h *Handler) ListFriendRequests(c *gin.Context) {
	me, ok := h.actor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newFriendRequestResponses(h.scheduler.ListFriendRequests(me)))
}

// AcceptFriendRequest godoc
// @Summary      Accept a friend request
// @Description  Turns the pending request from the given user into a mutual friendship.
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body EmailInput true "Requester"
// @Success      200  {object}  ResultResponse[RelationsResponse]
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "No such request"
// @Router       /friends/requests/accept [post]
func (h *Handler) AcceptFriendRequest(c *gin.Context) {
	h.relationAction(c, "accept_friend_request", h.scheduler.AcceptFriendRequest)
}

// DeclineFriendRequest godoc
// @Summary      Decline a friend request
// @Description  Drops the pending request from the given user.
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body EmailInput true "Requester"
// @Success      200  {object}  ResultResponse[RelationsResponse]
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "No such request"
// @Router       /friends/requests/decline [post]
func (h *Handler) DeclineFriendRequest(c *gin.Context) {
	h.relationAction(c, "decline_friend_request", h.scheduler.DeclineFriendRequest)
}

// endregion

// region --- Friend Handlers ---

// ListFriends godoc
// @Summary      List friends
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   FriendResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /friends [get]
func (h *Handler) ListFriends(c *gin.Context) {
	me, ok := h.actor(c)
	if !ok {
		return
	}
	friends, err := h.scheduler.ListFriends(c.Request.Context(), me)
	if err != nil {
		h.respondError(c, "list_friends", err)
		return
	}

	response := make([]FriendResponse, 0, len(friends))
	for _, f := range friends {
		response = append(response, FriendResponse{ID: f.ID, Email: f.Email})
	}
	c.JSON(http.StatusOK, response)
}

// RemoveFriend godoc
// @Summary      Remove a friend
// @Description  Ends the friendship on both sides.
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body EmailInput true "Friend"
// @Success      200  {object}  ResultResponse[RelationsResponse]
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Not a friend"
// @Router       /friends/remove [post]
func (h *Handler) RemoveFriend(c *gin.Context) {
	h.relationAction(c, "remove_friend", h.scheduler.RemoveFriend)
}

// BlockUser godoc
// @Summary      Block a user
// @Description  Blocks the user, drops their pending request and ends any friendship with them.
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body EmailInput true "User to block"
// @Success      200  {object}  ResultResponse[RelationsResponse]
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /friends/block [post]
func (h *Handler) BlockUser(c *gin.Context) {
	h.relationAction(c, "block_user", h.scheduler.BlockUser)
}

// UnblockUser godoc
// @Summary      Unblock a user
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body EmailInput true "User to unblock"
// @Success      200  {object}  ResultResponse[RelationsResponse]
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /friends/unblock [post]
func (h *Handler) UnblockUser(c *gin.Context) {
	h.relationAction(c, "unblock_user", h.scheduler.UnblockUser)
}

// endregion

type relationOp func(ctx context.Context, actor relationship.User, email string) (relationship.Result[relationship.User], error)

// relationAction runs an operation that targets another user by e-mail and
// returns the caller's updated relations.
func (h *Handler) relationAction(c *gin.Context, operation string, op relationOp) {
	var input EmailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	me, ok := h.actor(c)
	if !ok {
		return
	}

	res, err := op(c.Request.Context(), me, input.Email)
	if err != nil {
		h.respondError(c, operation, err)
		return
	}
	respondResult(c, operation, res, newRelationsResponse)
}
