package handler

import (
	"encoding/json"
	"io"
	"time"

	"datefinder/backend/internal/auth"
	"datefinder/backend/internal/hub"

	"github.com/gin-gonic/gin"
)

// StreamEvents godoc
// @Summary      Stream notifications
// @Description  Server-sent events for friend requests and dates addressed to the caller. The token may be passed as access_token.
// @Tags         users
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        access_token query string false "Bearer token for clients that cannot set headers"
// @Success      200
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/events [get]
func (h *Handler) StreamEvents(c *gin.Context) {
	userID := c.GetUint(auth.UserIDKey)

	client := hub.NewClient()
	h.hub.Subscribe(userID, client)
	defer h.hub.Unsubscribe(userID, client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(h.cfg.Heartbeat)
	defer heartbeat.Stop()

	c.SSEvent("ready", gin.H{"user_id": userID})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", json.RawMessage(msg))
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"time": time.Now().Unix()})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
