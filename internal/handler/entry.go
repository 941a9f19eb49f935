package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"mood-diary/internal/middleware"
	"mood-diary/internal/models"
	"mood-diary/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// EntryHandler serves the diary entry endpoints.
type EntryHandler struct {
	DB            *gorm.DB
	MaxMediaBytes int
}

func NewEntryHandler(db *gorm.DB, maxMediaBytes int) *EntryHandler {
	return &EntryHandler{
		DB:            db,
		MaxMediaBytes: maxMediaBytes,
	}
}

type entryResp struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood"`
	Tags      string    `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toEntryResp(e *models.Entry) entryResp {
	return entryResp{
		ID:        e.ID,
		Date:      e.Date,
		Title:     e.Title,
		Content:   e.Content,
		Mood:      e.Mood,
		Tags:      e.Tags,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ListEntries returns every entry, newest diary date first, ties broken by
// creation time. No pagination; media is fetched per entry via /api/media.
func (h *EntryHandler) ListEntries(c *gin.Context) {
	var entries []models.Entry
	if err := h.DB.Order("date DESC, created_at DESC").Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "query failed")
		return
	}

	items := make([]entryResp, 0, len(entries))
	for i := range entries {
		items = append(items, toEntryResp(&entries[i]))
	}
	c.JSON(http.StatusOK, items)
}

type saveEntryReq struct {
	ID      string          `json:"id"`
	Date    string          `json:"date"`
	Title   string          `json:"title"`
	Content string          `json:"content"`
	Mood    string          `json:"mood"`
	Tags    json.RawMessage `json:"tags"`
	Media   []mediaItemReq  `json:"media"`
}

// mediaItemReq is one inline attachment; sort order comes from array position.
type mediaItemReq struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

// SaveEntry inserts or updates an entry keyed by the client-generated id.
// Updates require the stored owner to match the session user. When the
// optional media array is present, all media rows are replaced inside the same
// transaction as the entry write.
func (h *EntryHandler) SaveEntry(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "login required")
		return
	}

	var req saveEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.ID = strings.TrimSpace(req.ID)
	req.Title = strings.TrimSpace(req.Title)
	if req.ID == "" || req.Title == "" || req.Content == "" {
		util.Error(c, http.StatusBadRequest, "id, title and content are required")
		return
	}

	if req.Date == "" {
		req.Date = time.Now().Format("2006-01-02")
	}
	if err := util.ValidateDate(req.Date); err != nil {
		util.Error(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if err := util.ValidateMood(req.Mood); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid mood")
		return
	}

	tags, err := util.NormalizeTags(req.Tags)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "tags must be a string or an array of strings")
		return
	}

	// validate media before touching the database so a rejected payload
	// cannot leave the entry half saved
	for _, m := range req.Media {
		if m.Data == "" {
			util.Error(c, http.StatusBadRequest, "media data is required")
			return
		}
		if h.MaxMediaBytes > 0 && len(m.Data) > h.MaxMediaBytes {
			util.Error(c, http.StatusBadRequest, "media payload too large")
			return
		}
	}

	var existing models.Entry
	err = h.DB.Where("id = ?", req.ID).First(&existing).Error
	switch {
	case err == nil:
		// update path: only the owner may touch the entry
		if existing.UserID != user.ID {
			util.Error(c, http.StatusForbidden, "you do not own this entry")
			return
		}
	case err == gorm.ErrRecordNotFound:
		// insert path
	default:
		util.Error(c, http.StatusInternalServerError, "query failed")
		return
	}

	isUpdate := err == nil

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if isUpdate {
			existing.Date = req.Date
			existing.Title = req.Title
			existing.Content = req.Content
			existing.Mood = req.Mood
			existing.Tags = tags
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		} else {
			entry := models.Entry{
				ID:      req.ID,
				UserID:  user.ID,
				Date:    req.Date,
				Title:   req.Title,
				Content: req.Content,
				Mood:    req.Mood,
				Tags:    tags,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		// nil media means "leave attachments alone"; an empty or non-empty
		// array replaces the full set
		if req.Media == nil {
			return nil
		}
		if err := tx.Delete(&models.Media{}, "entry_id = ?", req.ID).Error; err != nil {
			return err
		}
		for i, m := range req.Media {
			row := models.Media{
				EntryID:   req.ID,
				SortOrder: i,
				Name:      m.Name,
				Type:      m.Type,
				Data:      m.Data,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		util.Error(c, http.StatusInternalServerError, "save failed, please retry")
		return
	}

	if isUpdate {
		util.Success(c, gin.H{"message": "entry updated"})
	} else {
		util.OK(c, http.StatusCreated, gin.H{"message": "entry saved"})
	}
}

type deleteEntryReq struct {
	ID string `json:"id"`
}

// DeleteEntry removes an entry and its media rows. Media is deleted explicitly
// in the same transaction since the store does not enforce cascade deletes.
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "login required")
		return
	}

	var req deleteEntryReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ID) == "" {
		util.Error(c, http.StatusBadRequest, "id is required")
		return
	}

	var entry models.Entry
	if err := h.DB.Where("id = ?", req.ID).First(&entry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "entry already deleted")
		} else {
			util.Error(c, http.StatusInternalServerError, "query failed")
		}
		return
	}

	if entry.UserID != user.ID {
		util.Error(c, http.StatusForbidden, "you do not own this entry")
		return
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Media{}, "entry_id = ?", entry.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Entry{}, "id = ?", entry.ID).Error
	})
	if txErr != nil {
		util.Error(c, http.StatusInternalServerError, "delete failed")
		return
	}

	util.Success(c, nil)
}
