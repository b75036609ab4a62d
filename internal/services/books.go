package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shiv060600/Tuttle-Tools/internal/apperr"
	"github.com/shiv060600/Tuttle-Tools/internal/metrics"
	"github.com/shiv060600/Tuttle-Tools/internal/models"
	"github.com/shiv060600/Tuttle-Tools/internal/repository"
)

// BookRow is one row of the book detail table with every column as returned by
// the store.
type BookRow map[string]interface{}

// BookService looks up book details and backorder quantities by ISBN. The
// cache is optional; lookups go to the store when it is nil or failing.
type BookService struct {
	gw             *repository.Gateway
	cache          repository.Cache
	ttl            time.Duration
	bookTable      string
	backorderTable string
	logger         *slog.Logger
}

func NewBookService(gw *repository.Gateway, cache repository.Cache, ttl time.Duration, bookTable, backorderTable string, logger *slog.Logger) *BookService {
	return &BookService{
		gw:             gw,
		cache:          cache,
		ttl:            ttl,
		bookTable:      bookTable,
		backorderTable: backorderTable,
		logger:         logger,
	}
}

func bookCacheKey(isbn string) string {
	return "book:" + isbn
}

// Lookup returns every book row for the ISBN. No rows is NotFound.
func (s *BookService) Lookup(ctx context.Context, isbn string) ([]BookRow, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, apperr.InvalidInput("You must submit with isbn")
	}

	if rows, ok := s.fromCache(ctx, isbn); ok {
		return rows, nil
	}

	var raw []map[string]interface{}
	query := fmt.Sprintf("SELECT * FROM %s WHERE isbn = ?", s.bookTable)
	if err := s.gw.Query(ctx, "fetch book details", &raw, query, isbn); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, apperr.NotFound(fmt.Sprintf("There is no book with isbn %s", isbn))
	}

	rows := make([]BookRow, len(raw))
	for i, r := range raw {
		rows[i] = normalize(r)
	}
	s.toCache(ctx, isbn, rows)
	return rows, nil
}

// Backorder returns the backordered quantity, 0 when the ISBN has no entry.
func (s *BookService) Backorder(ctx context.Context, isbn string) (models.Backorder, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return models.Backorder{}, apperr.InvalidInput("You must submit with isbn")
	}

	var rows []models.Backorder
	query := fmt.Sprintf("SELECT isbn, qty FROM %s WHERE isbn = ?", s.backorderTable)
	if err := s.gw.Query(ctx, "fetch backorder details", &rows, query, isbn); err != nil {
		return models.Backorder{}, err
	}
	if len(rows) == 0 {
		return models.Backorder{ISBN: isbn, QtyBackordered: 0}, nil
	}
	return rows[0], nil
}

func (s *BookService) fromCache(ctx context.Context, isbn string) ([]BookRow, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, err := s.cache.Get(ctx, bookCacheKey(isbn))
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn("Book cache read failed", "isbn", isbn, "error", err)
		}
		metrics.BookCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var rows []BookRow
	if err := json.Unmarshal(b, &rows); err != nil {
		s.logger.Warn("Discarding corrupt book cache entry", "isbn", isbn, "error", err)
		metrics.BookCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.BookCacheTotal.WithLabelValues("hit").Inc()
	return rows, true
}

func (s *BookService) toCache(ctx context.Context, isbn string, rows []BookRow) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, bookCacheKey(isbn), b, s.ttl); err != nil {
		s.logger.Warn("Book cache write failed", "isbn", isbn, "error", err)
	}
}

// normalize turns driver byte slices into strings so rows encode as text.
func normalize(r map[string]interface{}) BookRow {
	out := make(BookRow, len(r))
	for k, v := range r {
		if b, ok := v.([]byte); ok {
			out[k] = string(b)
			continue
		}
		out[k] = v
	}
	return out
}
