package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyStats(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "a", "pw")
	token := env.login(t, "a", "pw")

	save := func(id, date, mood string) {
		w := env.request(t, http.MethodPost, "/api/entries", token, gin.H{
			"id": id, "date": date, "title": "T", "content": "C", "mood": mood,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	save("e1", "2024-03-01", "😊")
	save("e2", "2024-03-01", "😭")
	save("e3", "2024-03-15", "😊")
	save("e4", "2024-04-01", "😊") // outside the queried month

	w := env.request(t, http.MethodGet, "/api/stats/monthly?month=2024-03", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Month string `json:"month"`
		Total int    `json:"total"`
		Daily []struct {
			Date  string `json:"date"`
			Count int    `json:"count"`
		} `json:"daily"`
		ByMood []struct {
			Mood  string `json:"mood"`
			Count int    `json:"count"`
		} `json:"by_mood"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "2024-03", resp.Month)
	assert.Equal(t, 3, resp.Total)

	require.Len(t, resp.Daily, 2)
	assert.Equal(t, "2024-03-01", resp.Daily[0].Date)
	assert.Equal(t, 2, resp.Daily[0].Count)
	assert.Equal(t, "2024-03-15", resp.Daily[1].Date)

	require.Len(t, resp.ByMood, 2)
	assert.Equal(t, "😊", resp.ByMood[0].Mood, "most frequent mood first")
	assert.Equal(t, 2, resp.ByMood[0].Count)
}

func TestMonthlyStatsValidation(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "a", "pw")
	token := env.login(t, "a", "pw")

	w := env.request(t, http.MethodGet, "/api/stats/monthly?month=March", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodGet, "/api/stats/monthly", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "a", "pw")
	token := env.login(t, "a", "pw")
	env.saveEntry(t, token, "e1", "2024-01-01", "My day")

	w := env.request(t, http.MethodGet, "/api/export/csv", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "My day")
	assert.Contains(t, w.Body.String(), "2024-01-01")
}

func TestExportRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/export/csv", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = env.request(t, http.MethodGet, "/api/export/xlsx", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
