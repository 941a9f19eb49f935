package handler

import (
	"net/http"

	"mood-diary/internal/middleware"
	"mood-diary/internal/models"
	"mood-diary/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetMe returns the current logged-in user (requires SessionAuth).
func GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "login required")
		return
	}

	util.Success(c, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"created_at": user.CreatedAt,
		},
	})
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=64"`
}

// ChangePassword updates the stored hash and revokes every other session of
// the user, so a stolen token stops working after a password change.
func ChangePassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, "login required")
			return
		}

		var req changePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}

		if !util.CheckPassword(req.OldPassword, user.PasswordHash) {
			util.Error(c, http.StatusBadRequest, "old password is wrong")
			return
		}

		newHash := util.HashPassword(req.NewPassword)
		if err := db.Model(user).Update("password_hash", newHash).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "password update failed")
			return
		}

		// keep the session performing the change alive, drop the rest
		keep := ""
		if v, exists := c.Get("currentSession"); exists {
			if s, ok := v.(*models.Session); ok && s != nil {
				keep = s.Token
			}
		}
		if err := db.Delete(&models.Session{}, "user_id = ? AND token <> ?", user.ID, keep).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "session cleanup failed")
			return
		}

		util.Success(c, gin.H{"message": "password changed"})
	}
}
