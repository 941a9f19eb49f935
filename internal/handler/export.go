package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"mood-diary/internal/middleware"
	"mood-diary/internal/models"
	"mood-diary/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler streams the caller's entries as CSV or XLSX.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

func (h *ExportHandler) ownEntries(c *gin.Context) ([]models.Entry, *models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "login required")
		return nil, nil, false
	}

	var entries []models.Entry
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("date DESC, created_at DESC").
		Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "query failed")
		return nil, nil, false
	}
	return entries, user, true
}

var exportHeaders = []string{"Date", "Title", "Mood", "Tags", "Content"}

// ExportCSV writes the caller's entries as a CSV attachment.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	entries, _, ok := h.ownEntries(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"diary_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM so Excel detects the encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write(exportHeaders)
	for _, e := range entries {
		writer.Write([]string{e.Date, e.Title, e.Mood, e.Tags, e.Content})
	}
}

// ExportXLSX writes the caller's entries as an XLSX attachment.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	entries, _, ok := h.ownEntries(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Diary"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "create sheet failed")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, head := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, head)
	}

	for idx, e := range entries {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.Date)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.Mood)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Tags)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), e.Content)
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 25)
	f.SetColWidth(sheetName, "C", "C", 8)
	f.SetColWidth(sheetName, "D", "D", 20)
	f.SetColWidth(sheetName, "E", "E", 60)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"diary_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, "export failed")
	}
}
