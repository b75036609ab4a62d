package client

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shiv060600/Tuttle-Tools/internal/models"
)

// DefaultPageSize is the number of rows per page in the mapping table.
const DefaultPageSize = 50

// MappingFilter holds one substring per column. Empty filters match anything.
type MappingFilter struct {
	BillTo   string
	ShipTo   string
	HQ       string
	SSAcct   string
	NameCust string
}

type LogFilter struct {
	Action     string
	RowNum     string
	BillToFrom string
	BillToTo   string
	ShipToFrom string
	ShipToTo   string
	HQFrom     string
	HQTo       string
	SSAcctFrom string
	SSAcctTo   string
}

// match is a case-insensitive substring test. A nil field only matches an
// empty filter.
func match(field *string, filter string) bool {
	if filter == "" {
		return true
	}
	if field == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*field), strings.ToLower(filter))
}

func FilterMappings(rows []models.CustomerMapping, f MappingFilter) []models.CustomerMapping {
	out := make([]models.CustomerMapping, 0, len(rows))
	for _, r := range rows {
		if match(r.BillTo, f.BillTo) &&
			match(r.ShipTo, f.ShipTo) &&
			match(&r.HQ, f.HQ) &&
			match(&r.SSAcct, f.SSAcct) &&
			match(r.NameCust, f.NameCust) {
			out = append(out, r)
		}
	}
	return out
}

func FilterLogs(entries []models.AuditLogEntry, f LogFilter) []models.AuditLogEntry {
	out := make([]models.AuditLogEntry, 0, len(entries))
	for _, e := range entries {
		action := string(e.Action)
		var rowNum *string
		if e.RowNum != nil {
			s := strconv.FormatInt(*e.RowNum, 10)
			rowNum = &s
		}
		if match(&action, f.Action) &&
			match(rowNum, f.RowNum) &&
			match(e.BillToFrom, f.BillToFrom) &&
			match(e.BillToTo, f.BillToTo) &&
			match(e.ShipToFrom, f.ShipToFrom) &&
			match(e.ShipToTo, f.ShipToTo) &&
			match(e.HQFrom, f.HQFrom) &&
			match(e.HQTo, f.HQTo) &&
			match(e.SSAcctFrom, f.SSAcctFrom) &&
			match(e.SSAcctTo, f.SSAcctTo) {
			out = append(out, e)
		}
	}
	return out
}

// SortLogsNewestFirst sorts in place by action timestamp, newest first. Ties
// keep their store order.
func SortLogsNewestFirst(entries []models.AuditLogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ActionTimestamp.After(entries[j].ActionTimestamp)
	})
}

// Page is one slice of a paginated list.
type Page[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	Total      int
}

// Paginate returns page (1-based) of items. The page is clamped to
// [1, TotalPages]; an empty list has one empty page. size <= 0 uses
// DefaultPageSize.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	return Page[T]{Items: items[start:end], Page: page, TotalPages: pages, Total: total}
}
