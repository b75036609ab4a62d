// Package client talks to the mapping API over HTTP and layers the
// mutate-then-log workflow and table helpers of the web frontend on top.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shiv060600/Tuttle-Tools/internal/apperr"
	"github.com/shiv060600/Tuttle-Tools/internal/models"
	"github.com/shiv060600/Tuttle-Tools/internal/services"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Unwrap maps the status back to an apperr kind. Both write gates answer 403;
// the admin gate is told apart by its message.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return apperr.ErrInvalidInput
	case http.StatusNotFound:
		return apperr.ErrNotFound
	case http.StatusUnauthorized:
		return apperr.ErrUnauthorized
	case http.StatusForbidden:
		if e.Message == "Admin access required" {
			return apperr.ErrUnauthorized
		}
		return apperr.ErrPermissionDenied
	}
	if e.Status >= http.StatusInternalServerError {
		return apperr.ErrStoreUnavailable
	}
	return nil
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL (for example http://localhost:3001). When
// httpClient is nil one with a cookie jar is created so the admin session
// survives between calls.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		httpClient = &http.Client{Jar: jar, Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &e)
		msg := e.Error
		if msg == "" {
			msg = e.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func mappingPath(typ string) string {
	return "/api/mappings/" + url.PathEscape(typ)
}

func loggingPath(typ string) string {
	return "/api/logging/" + url.PathEscape(typ)
}

func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": password}, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// IsAdmin reports whether the current session is an admin session.
func (c *Client) IsAdmin(ctx context.Context) (bool, error) {
	var out struct {
		IsAdmin bool `json:"isAdmin"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/check", nil, &out); err != nil {
		return false, err
	}
	return out.IsAdmin, nil
}

func (c *Client) ListMappings(ctx context.Context, typ string) ([]models.CustomerMapping, error) {
	var rows []models.CustomerMapping
	err := c.do(ctx, http.MethodGet, mappingPath(typ), nil, &rows)
	return rows, err
}

func (c *Client) CreateMapping(ctx context.Context, typ string, in services.MappingInput) (int64, error) {
	var out struct {
		Inserted int64 `json:"inserted"`
	}
	err := c.do(ctx, http.MethodPost, mappingPath(typ), in, &out)
	return out.Inserted, err
}

func (c *Client) UpdateMapping(ctx context.Context, typ string, rowNum int64, patch services.MappingInput) (int64, error) {
	var out struct {
		Updated int64 `json:"updated"`
	}
	err := c.do(ctx, http.MethodPut, mappingPath(typ)+"/"+strconv.FormatInt(rowNum, 10), patch, &out)
	return out.Updated, err
}

func (c *Client) DeleteMapping(ctx context.Context, typ string, rowNum int64) (int64, error) {
	var out struct {
		Deleted int64 `json:"deleted"`
	}
	err := c.do(ctx, http.MethodDelete, mappingPath(typ)+"/"+strconv.FormatInt(rowNum, 10), nil, &out)
	return out.Deleted, err
}

func (c *Client) ListLogs(ctx context.Context, typ string) ([]models.AuditLogEntry, error) {
	var entries []models.AuditLogEntry
	err := c.do(ctx, http.MethodGet, loggingPath(typ), nil, &entries)
	return entries, err
}

func (c *Client) AppendLog(ctx context.Context, typ string, req services.LogRequest) (int64, error) {
	var out struct {
		Inserted int64 `json:"inserted"`
	}
	err := c.do(ctx, http.MethodPost, loggingPath(typ), req, &out)
	return out.Inserted, err
}

func (c *Client) PurgeLogs(ctx context.Context, typ string, days float64) (int64, error) {
	var out struct {
		Deleted int64 `json:"deleted_count"`
	}
	err := c.do(ctx, http.MethodDelete, loggingPath(typ)+"/"+strconv.FormatFloat(days, 'f', -1, 64), nil, &out)
	return out.Deleted, err
}

func (c *Client) PurgeLog(ctx context.Context, typ, logID string) (int64, error) {
	var out struct {
		Deleted int64 `json:"deleted_count"`
	}
	err := c.do(ctx, http.MethodDelete, loggingPath(typ)+"/id/"+url.PathEscape(logID), nil, &out)
	return out.Deleted, err
}

// Book returns the rows for isbn. The server sends a bare object for one row
// and an array for several; both come back as a slice.
func (c *Client) Book(ctx context.Context, isbn string) ([]services.BookRow, error) {
	var out struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/books/"+url.PathEscape(isbn), nil, &out); err != nil {
		return nil, err
	}

	data := bytes.TrimSpace(out.Data)
	if len(data) > 0 && data[0] == '[' {
		var rows []services.BookRow
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	}
	var row services.BookRow
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, err
	}
	return []services.BookRow{row}, nil
}

func (c *Client) Backorder(ctx context.Context, isbn string) (models.Backorder, error) {
	var out models.Backorder
	err := c.do(ctx, http.MethodGet, "/api/backorders/"+url.PathEscape(isbn), nil, &out)
	return out, err
}

func (c *Client) Report(ctx context.Context, reportType string) ([]models.InventoryAdjustment, error) {
	var rows []models.InventoryAdjustment
	err := c.do(ctx, http.MethodGet, "/api/reports/"+url.PathEscape(reportType), nil, &rows)
	return rows, err
}
