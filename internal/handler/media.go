package handler

import (
	"net/http"
	"strings"

	"mood-diary/internal/middleware"
	"mood-diary/internal/models"
	"mood-diary/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MediaHandler serves the per-entry media rows.
type MediaHandler struct {
	DB            *gorm.DB
	MaxMediaBytes int
}

func NewMediaHandler(db *gorm.DB, maxMediaBytes int) *MediaHandler {
	return &MediaHandler{
		DB:            db,
		MaxMediaBytes: maxMediaBytes,
	}
}

type mediaResp struct {
	ID        uint   `json:"id"`
	SortOrder int    `json:"sort_order"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Data      string `json:"data"`
}

// ListMedia returns all media rows for an entry in display order.
func (h *MediaHandler) ListMedia(c *gin.Context) {
	entryID := c.Query("entry_id")
	if entryID == "" {
		c.JSON(http.StatusOK, []mediaResp{})
		return
	}

	var rows []models.Media
	if err := h.DB.Where("entry_id = ?", entryID).
		Order("sort_order ASC").
		Find(&rows).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "query failed")
		return
	}

	items := make([]mediaResp, 0, len(rows))
	for _, r := range rows {
		items = append(items, mediaResp{
			ID:        r.ID,
			SortOrder: r.SortOrder,
			Name:      r.Name,
			Type:      r.Type,
			Data:      r.Data,
		})
	}
	c.JSON(http.StatusOK, items)
}

type createMediaReq struct {
	EntryID   string `json:"entry_id"`
	SortOrder int    `json:"sort_order"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Data      string `json:"data"`
}

// CreateMedia inserts a single media row. Clients upload one file per call so
// each write stays below the store's payload ceiling.
func (h *MediaHandler) CreateMedia(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "login required")
		return
	}

	var req createMediaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.EntryID = strings.TrimSpace(req.EntryID)
	if req.EntryID == "" || req.Data == "" {
		util.Error(c, http.StatusBadRequest, "entry_id and data are required")
		return
	}
	if h.MaxMediaBytes > 0 && len(req.Data) > h.MaxMediaBytes {
		util.Error(c, http.StatusBadRequest, "media payload too large")
		return
	}

	var entry models.Entry
	if err := h.DB.Where("id = ?", req.EntryID).First(&entry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "entry not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "query failed")
		}
		return
	}
	if entry.UserID != user.ID {
		util.Error(c, http.StatusForbidden, "you do not own this entry")
		return
	}

	row := models.Media{
		EntryID:   req.EntryID,
		SortOrder: req.SortOrder,
		Name:      req.Name,
		Type:      req.Type,
		Data:      req.Data,
	}
	if err := h.DB.Create(&row).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "save failed, please retry")
		return
	}

	util.OK(c, http.StatusCreated, gin.H{"id": row.ID})
}

// DeleteMedia removes all media rows for an entry. When the entry is already
// gone this still succeeds, so the client's delete-then-reupload edit flow
// does not trip over a half-finished earlier run.
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "login required")
		return
	}

	entryID := c.Query("entry_id")
	if entryID == "" {
		util.Error(c, http.StatusBadRequest, "entry_id is required")
		return
	}

	var entry models.Entry
	err := h.DB.Where("id = ?", entryID).First(&entry).Error
	switch {
	case err == nil:
		if entry.UserID != user.ID {
			util.Error(c, http.StatusForbidden, "you do not own this entry")
			return
		}
	case err == gorm.ErrRecordNotFound:
		// soft-fail: entry already deleted, just clean up the rows
	default:
		util.Error(c, http.StatusInternalServerError, "query failed")
		return
	}

	if err := h.DB.Delete(&models.Media{}, "entry_id = ?", entryID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "delete failed")
		return
	}

	util.Success(c, nil)
}
