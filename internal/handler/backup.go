package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"mood-diary/internal/middleware"
	"mood-diary/internal/models"
	"mood-diary/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BackupHandler writes and serves encrypted snapshots of a user's diary.
type BackupHandler struct {
	DB        *gorm.DB
	Key       string // passphrase for AES-GCM
	BackupDir string
}

func NewBackupHandler(db *gorm.DB, key, backupDir string) *BackupHandler {
	return &BackupHandler{
		DB:        db,
		Key:       key,
		BackupDir: backupDir,
	}
}

// backupData is the plaintext layout of a backup file.
type backupData struct {
	UserID  uint           `json:"user_id"`
	Created time.Time      `json:"created"`
	Entries []models.Entry `json:"entries"`
	Media   []models.Media `json:"media"`
}

// CreateBackup snapshots the caller's entries and media into an encrypted file.
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "login required")
		return
	}

	var entries []models.Entry
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("date ASC, created_at ASC").
		Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "query failed")
		return
	}

	entryIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		entryIDs = append(entryIDs, e.ID)
	}

	var media []models.Media
	if len(entryIDs) > 0 {
		if err := h.DB.Where("entry_id IN ?", entryIDs).
			Order("entry_id ASC, sort_order ASC").
			Find(&media).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "query failed")
			return
		}
	}

	data := backupData{
		UserID:  user.ID,
		Created: time.Now(),
		Entries: entries,
		Media:   media,
	}
	raw, err := json.Marshal(&data)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "serialize failed")
		return
	}

	enc, err := util.EncryptAES(h.Key, raw)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "encrypt failed")
		return
	}

	if err := os.MkdirAll(h.BackupDir, 0o755); err != nil {
		util.Error(c, http.StatusInternalServerError, "create backup dir failed")
		return
	}

	id := uuid.New().String()
	fileName := fmt.Sprintf("backup-%d-%s.bin", user.ID, id)
	filePath := filepath.Join(h.BackupDir, fileName)

	if err := os.WriteFile(filePath, enc, 0o600); err != nil {
		util.Error(c, http.StatusInternalServerError, "write backup file failed")
		return
	}

	backup := models.Backup{
		ID:       id,
		UserID:   user.ID,
		FileName: fileName,
		FilePath: filePath,
		Size:     int64(len(enc)),
	}
	if err := h.DB.Create(&backup).Error; err != nil {
		_ = os.Remove(filePath)
		util.Error(c, http.StatusInternalServerError, "save backup record failed")
		return
	}

	util.OK(c, http.StatusCreated, gin.H{
		"backup": gin.H{
			"id":         backup.ID,
			"file_name":  backup.FileName,
			"size":       backup.Size,
			"created_at": backup.CreatedAt,
		},
	})
}

// ListBackups lists the caller's backup records, newest first.
func (h *BackupHandler) ListBackups(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "login required")
		return
	}

	var backups []models.Backup
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&backups).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "query failed")
		return
	}

	items := make([]gin.H, 0, len(backups))
	for _, b := range backups {
		items = append(items, gin.H{
			"id":         b.ID,
			"file_name":  b.FileName,
			"size":       b.Size,
			"created_at": b.CreatedAt,
		})
	}
	util.Success(c, gin.H{"backups": items})
}

func (h *BackupHandler) ownBackup(c *gin.Context) (*models.Backup, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "login required")
		return nil, false
	}

	id := c.Param("id")
	var backup models.Backup
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&backup).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "backup not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "query failed")
		}
		return nil, false
	}
	return &backup, true
}

// DownloadBackup streams the encrypted backup file. The session middleware
// accepts ?token= here because download links cannot set headers.
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	backup, ok := h.ownBackup(c)
	if !ok {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", backup.FileName))
	c.File(backup.FilePath)
}

// DeleteBackup removes the record and the file. A missing file is not an
// error; the record is what matters.
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	backup, ok := h.ownBackup(c)
	if !ok {
		return
	}

	if err := h.DB.Delete(&models.Backup{}, "id = ?", backup.ID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "delete failed")
		return
	}
	_ = os.Remove(backup.FilePath)

	util.Success(c, nil)
}
