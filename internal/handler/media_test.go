package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"mood-diary/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "a", "pw")
	token := env.login(t, "a", "pw")
	env.saveEntry(t, token, "e1", "2024-01-01", "T")

	// upload N files one per call, out of order on purpose
	const n = 5
	for _, i := range []int{2, 0, 4, 1, 3} {
		w := env.request(t, http.MethodPost, "/api/media", token, gin.H{
			"entry_id":   "e1",
			"sort_order": i,
			"name":       fmt.Sprintf("file-%d.jpg", i),
			"type":       "image/jpeg",
			"data":       "aGVsbG8=",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"id"`)
	}

	// read back: exactly N items in ascending sort_order
	w := env.request(t, http.MethodGet, "/api/media?entry_id=e1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []struct {
		SortOrder int    `json:"sort_order"`
		Name      string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, n)
	for i, item := range items {
		assert.Equal(t, i, item.SortOrder)
		assert.Equal(t, fmt.Sprintf("file-%d.jpg", i), item.Name)
	}
}

func TestMediaListWithoutEntryID(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/media", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestCreateMediaValidation(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "a", "pw")
	env.createUser(t, "b", "pw")
	tokenA := env.login(t, "a", "pw")
	tokenB := env.login(t, "b", "pw")
	env.saveEntry(t, tokenA, "e1", "2024-01-01", "T")

	t.Run("missing fields", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/media", tokenA, gin.H{"entry_id": "e1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("entry not found", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/media", tokenA, gin.H{
			"entry_id": "ghost", "data": "aGVsbG8=",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("not owner", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/media", tokenB, gin.H{
			"entry_id": "e1", "data": "aGVsbG8=",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("no session", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/media", "", gin.H{
			"entry_id": "e1", "data": "aGVsbG8=",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("payload over ceiling", func(t *testing.T) {
		big := strings.Repeat("A", env.Cfg.App.MaxMediaBytes+1)
		w := env.request(t, http.MethodPost, "/api/media", tokenA, gin.H{
			"entry_id": "e1", "data": big,
		})
		require.Equal(t, http.StatusBadRequest, w.Code)

		var count int64
		env.DB.Model(&models.Media{}).Where("entry_id = ?", "e1").Count(&count)
		assert.Zero(t, count, "rejected payload must not leave a row")
	})
}

func TestDeleteMedia(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "a", "pw")
	env.createUser(t, "b", "pw")
	tokenA := env.login(t, "a", "pw")
	tokenB := env.login(t, "b", "pw")
	env.saveEntry(t, tokenA, "e1", "2024-01-01", "T")

	w := env.request(t, http.MethodPost, "/api/media", tokenA, gin.H{
		"entry_id": "e1", "sort_order": 0, "data": "aGVsbG8=",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("stranger gets 403", func(t *testing.T) {
		w := env.request(t, http.MethodDelete, "/api/media?entry_id=e1", tokenB, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner clears rows", func(t *testing.T) {
		w := env.request(t, http.MethodDelete, "/api/media?entry_id=e1", tokenA, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var count int64
		env.DB.Model(&models.Media{}).Where("entry_id = ?", "e1").Count(&count)
		assert.Zero(t, count)
	})

	t.Run("soft-fails when entry is gone", func(t *testing.T) {
		// orphan row left behind by an interrupted edit
		require.NoError(t, env.DB.Create(&models.Media{
			EntryID: "gone", SortOrder: 0, Data: "aGVsbG8=",
		}).Error)

		w := env.request(t, http.MethodDelete, "/api/media?entry_id=gone", tokenA, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var count int64
		env.DB.Model(&models.Media{}).Where("entry_id = ?", "gone").Count(&count)
		assert.Zero(t, count, "orphan rows should be cleaned up")
	})
}
