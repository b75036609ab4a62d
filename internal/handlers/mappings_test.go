package handlers

import (
	"net/http"
	"testing"

	"github.com/shiv060600/Tuttle-Tools/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingHandlers(t *testing.T) {
	env := setupTestHandler(t)
	require.NoError(t, env.db.Table("arcus").Create(&models.Customer{IDCust: "SA999", NameCust: "Acme"}).Error)

	t.Run("Unknown type", func(t *testing.T) {
		w := env.do("GET", "/api/mappings/legacy", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Create, list, update, delete", func(t *testing.T) {
		w := env.do("POST", "/api/mappings/original", map[string]string{"billto": "SL100", "hq": "HQ9", "ssacct": "SA999"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"inserted":1}`, w.Body.String())

		var rows []models.CustomerMapping
		w = env.do("GET", "/api/mappings/original", nil)
		require.Equal(t, http.StatusOK, w.Code)
		decode(t, w, &rows)
		require.Len(t, rows, 1)
		assert.Equal(t, "Acme", *rows[0].NameCust)
		assert.Contains(t, w.Body.String(), `"rowNum"`)
		path := "/api/mappings/original/" + itoa(rows[0].RowNum)

		w = env.do("PUT", path, `{"shipto":"SH1"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"updated":1}`, w.Body.String())

		w = env.do("PUT", path, `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "No fields provided for update")

		w = env.do("PUT", "/api/mappings/original/999", `{"hq":"X"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = env.do("PUT", "/api/mappings/original/abc", `{"hq":"X"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid row number")

		w = env.do("DELETE", path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"deleted":1}`, w.Body.String())

		w = env.do("DELETE", path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Missing required field", func(t *testing.T) {
		w := env.do("POST", "/api/mappings/original", map[string]string{"billto": "SL100"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Missing required fields: hq, ssacct")

		w = env.do("POST", "/api/mappings/original", "[1,2")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Business hours", func(t *testing.T) {
		env.gate.Now = clockAt(7)
		defer func() { env.gate.Now = clockAt(10) }()

		w := env.do("POST", "/api/mappings/original", map[string]string{"billto": "SL100", "hq": "HQ9", "ssacct": "SA999"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Changes not allowed between 6-8 AM")

		// malformed payloads get the same answer
		w = env.do("POST", "/api/mappings/original", "garbage")
		assert.Equal(t, http.StatusForbidden, w.Code)
		w = env.do("DELETE", "/api/mappings/original/abc", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("IPS requires admin", func(t *testing.T) {
		body := map[string]string{"hq": "HQ1", "ssacct": "SA1"}

		w := env.do("POST", "/api/mappings/ips", body)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Admin access required")

		cookie := env.login(t)
		w = env.do("POST", "/api/mappings/ips", body, cookie)
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do("POST", "/api/mappings/ips", map[string]string{"billto": "X", "hq": "HQ1", "ssacct": "SA1"}, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		// listing is not gated
		var rows []models.CustomerMapping
		w = env.do("GET", "/api/mappings/ips", nil)
		require.Equal(t, http.StatusOK, w.Code)
		decode(t, w, &rows)
		assert.Len(t, rows, 1)
	})
}
