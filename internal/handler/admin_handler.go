package handler

import (
	"errors"
	"fmt"
	"net/http"

	"datefinder/backend/internal/auth"
	"datefinder/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// BanByID selects a user to ban by ID.
type BanByID struct {
	ID     uint   `json:"id" binding:"required" example:"3"`
	Reason string `json:"reason" binding:"omitempty,oneof=bug_abusing foul_language discretion_of_admin unknown" example:"foul_language"`
	Msg    string `json:"msg" example:"Repeated abuse in messages"`
}

// BanByEmail selects a user to ban by e-mail.
type BanByEmail struct {
	Email  string `json:"email" binding:"required,email" example:"troll@example.com"`
	Reason string `json:"reason" binding:"omitempty,oneof=bug_abusing foul_language discretion_of_admin unknown" example:"bug_abusing"`
	Msg    string `json:"msg"`
}

// BanUsersInput lists the users to disable.
type BanUsersInput struct {
	UsersToBanByID    []BanByID    `json:"users_to_ban_by_id" binding:"dive"`
	UsersToBanByEmail []BanByEmail `json:"users_to_ban_by_email" binding:"dive"`
}

// BanUsersResponse reports which users were disabled.
type BanUsersResponse struct {
	BannedIDs []uint `json:"banned_ids"`
	Count     int    `json:"count"`
}

// AdminUserResponse is a user as listed to administrators.
type AdminUserResponse struct {
	ID         uint    `json:"id"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	Disabled   bool    `json:"disabled"`
	BanReason  *string `json:"ban_reason,omitempty"`
	BanMessage *string `json:"ban_message,omitempty"`
	BannerID   *uint   `json:"banner_id,omitempty"`
}

func newAdminUserResponse(u models.User) AdminUserResponse {
	resp := AdminUserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Role:       u.Role,
		Disabled:   u.Disabled,
		BanMessage: u.BanMessage,
		BannerID:   u.BannerID,
	}
	if u.BanReason != nil {
		reason := string(*u.BanReason)
		resp.BanReason = &reason
	}
	return resp
}

// endregion

// errBanTarget marks a ban request naming a user that cannot be banned.
var errBanTarget = errors.New("invalid ban target")

// BanUsers godoc
// @Summary      Ban users
// @Description  Disables the listed users. Either every user is banned or none is.
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body BanUsersInput true "Users to ban"
// @Success      200  {object}  BanUsersResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /admin/ban-users [post]
func (h *Handler) BanUsers(c *gin.Context) {
	var input BanUsersInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.UsersToBanByID)+len(input.UsersToBanByEmail) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No users to ban"})
		return
	}
	adminID := c.GetUint(auth.UserIDKey)

	tx := h.db.WithContext(c.Request.Context()).Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	banned := make([]uint, 0, len(input.UsersToBanByID)+len(input.UsersToBanByEmail))
	ban := func(query *gorm.DB, label, reason, msg string) error {
		var user models.User
		if err := query.First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %s not found", gorm.ErrRecordNotFound, label)
			}
			return err
		}
		if user.ID == adminID {
			return fmt.Errorf("%w: administrators cannot ban themselves", errBanTarget)
		}
		banReason := models.BanReasonUnknown
		if reason != "" {
			banReason = models.BanReason(reason)
		}
		updates := map[string]any{
			"disabled":   true,
			"ban_reason": banReason,
			"banner_id":  adminID,
		}
		if msg != "" {
			updates["ban_message"] = msg
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		banned = append(banned, user.ID)
		return nil
	}

	var err error
	for _, target := range input.UsersToBanByID {
		if err = ban(tx.Where("id = ?", target.ID), fmt.Sprint(target.ID), target.Reason, target.Msg); err != nil {
			break
		}
	}
	if err == nil {
		for _, target := range input.UsersToBanByEmail {
			email := target.Email
			if err = ban(tx.Where("email = ?", email), email, target.Reason, target.Msg); err != nil {
				break
			}
		}
	}
	if err != nil {
		tx.Rollback()
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, errBanTarget):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.log.Error("failed to ban users", "admin", adminID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ban users"})
		}
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ban users"})
		return
	}

	h.log.Info("users banned", "admin", adminID, "users", banned)
	c.JSON(http.StatusOK, BanUsersResponse{BannedIDs: banned, Count: len(banned)})
}

// GetUsers godoc
// @Summary      List users
// @Tags         admin-users
// @Produce      json
// @Security     BearerAuth
// @Param        disabled query     bool  false  "Only banned users"
// @Param        page     query     int   false  "Page number" default(1)
// @Param        limit    query     int   false  "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[AdminUserResponse]
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Router       /admin/users [get]
func (h *Handler) GetUsers(c *gin.Context) {
	page, limit := pageParams(c)

	dbQuery := h.db.Model(&models.User{})
	if c.Query("disabled") == "true" {
		dbQuery = dbQuery.Where("disabled = ?", true)
	}

	result, err := Paginate[models.User](dbQuery.Order("id"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	c.JSON(http.StatusOK, mapPage(result, newAdminUserResponse))
}
