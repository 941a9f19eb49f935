package handler

import (
	"net/http"
	"sort"
	"time"

	"mood-diary/internal/middleware"
	"mood-diary/internal/models"
	"mood-diary/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StatsHandler serves monthly rollups over the caller's entries.
type StatsHandler struct {
	DB *gorm.DB
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{DB: db}
}

// GetMonthlyStats returns per-day entry counts and mood totals for one month.
// Month parameter: ?month=2025-12, defaults to the current month.
func (h *StatsHandler) GetMonthlyStats(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "login required")
		return
	}

	monthStr := c.Query("month")
	if monthStr == "" {
		monthStr = time.Now().Format("2006-01")
	}
	t, err := time.Parse("2006-01", monthStr)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	// entry dates are stored as YYYY-MM-DD strings, so a prefix range works
	start := t.Format("2006-01") + "-01"
	end := t.AddDate(0, 1, 0).Format("2006-01") + "-01"

	var entries []models.Entry
	if err := h.DB.Where("user_id = ? AND date >= ? AND date < ?", user.ID, start, end).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "query failed")
		return
	}

	type dailyStat struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	}
	type moodStat struct {
		Mood  string `json:"mood"`
		Count int    `json:"count"`
	}

	dailyMap := make(map[string]*dailyStat)
	moodMap := make(map[string]*moodStat)
	for i := range entries {
		e := &entries[i]

		ds, ok := dailyMap[e.Date]
		if !ok {
			ds = &dailyStat{Date: e.Date}
			dailyMap[e.Date] = ds
		}
		ds.Count++

		if e.Mood != "" {
			ms, ok := moodMap[e.Mood]
			if !ok {
				ms = &moodStat{Mood: e.Mood}
				moodMap[e.Mood] = ms
			}
			ms.Count++
		}
	}

	dailyList := make([]dailyStat, 0, len(dailyMap))
	for _, ds := range dailyMap {
		dailyList = append(dailyList, *ds)
	}
	sort.Slice(dailyList, func(i, j int) bool { return dailyList[i].Date < dailyList[j].Date })

	moodList := make([]moodStat, 0, len(moodMap))
	for _, ms := range moodMap {
		moodList = append(moodList, *ms)
	}
	sort.Slice(moodList, func(i, j int) bool {
		if moodList[i].Count != moodList[j].Count {
			return moodList[i].Count > moodList[j].Count
		}
		return moodList[i].Mood < moodList[j].Mood
	})

	util.Success(c, gin.H{
		"month":   monthStr,
		"daily":   dailyList,
		"by_mood": moodList,
		"total":   len(entries),
	})
}
