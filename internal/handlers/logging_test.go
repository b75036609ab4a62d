package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/shiv060600/Tuttle-Tools/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func TestLoggingHandlers(t *testing.T) {
	env := setupTestHandler(t)

	t.Run("Append and list", func(t *testing.T) {
		w := env.do("POST", "/api/logging/original", map[string]interface{}{
			"action":           "insert",
			"billto_to":        "SL100",
			"HQ_to":            "HQ9",
			"Ssacct_to":        "SA999",
			"ACTION_TIMESTAMP": "1999-01-01T00:00:00Z",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"inserted":1}`, w.Body.String())

		w = env.do("POST", "/api/logging/original", map[string]interface{}{
			"action":      "edit",
			"rowNum":      1,
			"billto_from": "SL100", "HQ_from": "HQ9", "Ssacct_from": "SA999",
			"billto_to": "SL100", "HQ_to": "HQ10", "Ssacct_to": "SA999",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var entries []models.AuditLogEntry
		w = env.do("GET", "/api/logging/original", nil)
		require.Equal(t, http.StatusOK, w.Code)
		decode(t, w, &entries)
		require.Len(t, entries, 2)
		for _, e := range entries {
			assert.True(t, e.ActionTimestamp.Year() > 2000)
		}
	})

	t.Run("Rejected bodies", func(t *testing.T) {
		w := env.do("POST", "/api/logging/original", map[string]interface{}{"action": "update"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Unhandled action")

		w = env.do("POST", "/api/logging/original", map[string]interface{}{"action": "edit", "HQ_to": "HQ1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "rowNum is required for edit")

		w = env.do("POST", "/api/logging/original", "{")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.do("POST", "/api/logging/legacy", map[string]interface{}{"action": "insert"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Purge", func(t *testing.T) {
		w := env.do("DELETE", "/api/logging/original/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		w = env.do("DELETE", "/api/logging/original/-3", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.do("DELETE", "/api/logging/original/30", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"deleted_count":0}`, w.Body.String())

		var entries []models.AuditLogEntry
		decode(t, env.do("GET", "/api/logging/original", nil), &entries)
		require.NotEmpty(t, entries)

		w = env.do("DELETE", "/api/logging/original/id/"+entries[0].LogID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"deleted_count":1}`, w.Body.String())

		w = env.do("DELETE", "/api/logging/original/id/"+entries[0].LogID, nil)
		assert.JSONEq(t, `{"deleted_count":0}`, w.Body.String())

		w = env.do("DELETE", "/api/logging/original/0", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"deleted_count":1}`, w.Body.String())
	})
}
