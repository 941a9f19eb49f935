package middleware

import (
	"net/http"
	"time"

	"mood-diary/internal/models"
	"mood-diary/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const SessionHeader = "X-Session-Token"

// SessionAuth resolves the X-Session-Token header to a user and puts both the
// session and the user into the context. Expired sessions are deleted on
// lookup (lazy expiry, no background sweep) so a token that failed once keeps
// failing afterwards.
func SessionAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)

		// query parameter fallback for download links that cannot set headers
		if token == "" {
			token = c.Query("token")
		}

		if token == "" {
			util.Error(c, http.StatusUnauthorized, "login required")
			c.Abort()
			return
		}

		var session models.Session
		if err := db.Where("token = ?", token).First(&session).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				util.Error(c, http.StatusUnauthorized, "login required")
			} else {
				util.Error(c, http.StatusInternalServerError, "session lookup failed")
			}
			c.Abort()
			return
		}

		if session.ExpiresAt.Before(time.Now()) {
			_ = db.Delete(&models.Session{}, "token = ?", token).Error
			util.Error(c, http.StatusUnauthorized, "session expired, please log in again")
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, session.UserID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				util.Error(c, http.StatusUnauthorized, "user no longer exists")
			} else {
				util.Error(c, http.StatusInternalServerError, "user lookup failed")
			}
			c.Abort()
			return
		}

		c.Set("currentUser", &user)
		c.Set("currentSession", &session)
		c.Next()
	}
}

// CurrentUser returns the user placed in the context by SessionAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
