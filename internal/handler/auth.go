package handler

import (
	"net/http"
	"strings"
	"time"

	"mood-diary/internal/middleware"
	"mood-diary/internal/models"
	"mood-diary/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler serves login/logout.
type AuthHandler struct {
	DB       *gorm.DB
	TokenTTL time.Duration
}

func NewAuthHandler(db *gorm.DB, ttlHours int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 7 * 24
	}
	return &AuthHandler{
		DB:       db,
		TokenTTL: time.Duration(ttlHours) * time.Hour,
	}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies the password hash and issues a fresh session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		util.Error(c, http.StatusBadRequest, "username and password are required")
		return
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, "wrong username or password")
		} else {
			util.Error(c, http.StatusInternalServerError, "user lookup failed")
		}
		return
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		util.Error(c, http.StatusUnauthorized, "wrong username or password")
		return
	}

	token, err := util.RandomToken(32)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "token generation failed")
		return
	}

	now := time.Now()
	session := models.Session{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		ExpiresAt: now.Add(h.TokenTTL),
	}
	if err := h.DB.Create(&session).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "session create failed")
		return
	}

	user.LastLoginAt = &now
	user.LastLoginIP = c.ClientIP()
	_ = h.DB.Save(&user).Error

	util.Success(c, gin.H{
		"token":    token,
		"username": user.Username,
	})
}

type logoutReq struct {
	Token string `json:"token"`
}

// Logout deletes the session row if present; calling it twice is fine.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutReq
	_ = c.ShouldBindJSON(&req)

	token := req.Token
	if token == "" {
		token = c.GetHeader(middleware.SessionHeader)
	}

	if token != "" {
		if err := h.DB.Delete(&models.Session{}, "token = ?", token).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "logout failed")
			return
		}
	}

	util.Success(c, nil)
}
