package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/shiv060600/Tuttle-Tools/internal/apperr"
	"github.com/shiv060600/Tuttle-Tools/internal/metrics"
	"github.com/shiv060600/Tuttle-Tools/internal/models"
	"github.com/shiv060600/Tuttle-Tools/internal/repository"
	"github.com/shiv060600/Tuttle-Tools/pkg/utils"
)

// LogRequest is the wire body of POST /api/logging/:type. The key spelling
// matches the existing frontend.
type LogRequest struct {
	Action     string  `json:"action"`
	RowNum     *int64  `json:"rowNum"`
	BillToFrom *string `json:"billto_from"`
	ShipToFrom *string `json:"shipto_from"`
	HQFrom     *string `json:"HQ_from"`
	SSAcctFrom *string `json:"Ssacct_from"`
	BillToTo   *string `json:"billto_to"`
	ShipToTo   *string `json:"shipto_to"`
	HQTo       *string `json:"HQ_to"`
	SSAcctTo   *string `json:"Ssacct_to"`
	// Timestamp is informational; the server clock stamps every entry.
	Timestamp string `json:"ACTION_TIMESTAMP,omitempty"`
}

// Snapshot is the value of a mapping row on one side of a change.
type Snapshot struct {
	BillTo *string
	ShipTo *string
	HQ     *string
	SSAcct *string
}

func (s Snapshot) get(f Field) *string {
	switch f {
	case FieldBillTo:
		return s.BillTo
	case FieldShipTo:
		return s.ShipTo
	case FieldHQ:
		return s.HQ
	case FieldSSAcct:
		return s.SSAcct
	}
	return nil
}

// check verifies the snapshot against the type: required fields present and
// non-blank, no values for columns the type does not have.
func (s Snapshot) check(mt MappingType, side string, action models.Action) error {
	for _, f := range mt.Required {
		if v := s.get(f); v == nil || strings.TrimSpace(*v) == "" {
			return apperr.InvalidInput(fmt.Sprintf("%s_%s is required for %s", f, side, action))
		}
	}
	for _, f := range allFields {
		if !mt.Carries(f) && s.get(f) != nil {
			return apperr.InvalidInput(fmt.Sprintf("%s_%s is not a field of %s mappings", f, side, mt.Name))
		}
	}
	return nil
}

// LogEntry is one of InsertEntry, EditEntry or DeleteEntry.
type LogEntry interface {
	Action() models.Action
	validate(mt MappingType) error
	apply(rec *models.AuditLogEntry)
}

// InsertEntry records a created row. The row number is usually unknown to the
// caller at this point and may be nil.
type InsertEntry struct {
	RowNum *int64
	To     Snapshot
}

type EditEntry struct {
	RowNum int64
	From   Snapshot
	To     Snapshot
}

type DeleteEntry struct {
	RowNum int64
	From   Snapshot
}

func (InsertEntry) Action() models.Action { return models.ActionInsert }
func (EditEntry) Action() models.Action   { return models.ActionEdit }
func (DeleteEntry) Action() models.Action { return models.ActionDelete }

func (e InsertEntry) validate(mt MappingType) error {
	return e.To.check(mt, "to", models.ActionInsert)
}

func (e EditEntry) validate(mt MappingType) error {
	if e.RowNum <= 0 {
		return apperr.InvalidInput("rowNum is required for edit")
	}
	if err := e.From.check(mt, "from", models.ActionEdit); err != nil {
		return err
	}
	return e.To.check(mt, "to", models.ActionEdit)
}

func (e DeleteEntry) validate(mt MappingType) error {
	if e.RowNum <= 0 {
		return apperr.InvalidInput("rowNum is required for delete")
	}
	return e.From.check(mt, "from", models.ActionDelete)
}

func (e InsertEntry) apply(rec *models.AuditLogEntry) {
	rec.RowNum = e.RowNum
	setTo(rec, e.To)
}

func (e EditEntry) apply(rec *models.AuditLogEntry) {
	n := e.RowNum
	rec.RowNum = &n
	setFrom(rec, e.From)
	setTo(rec, e.To)
}

func (e DeleteEntry) apply(rec *models.AuditLogEntry) {
	n := e.RowNum
	rec.RowNum = &n
	setFrom(rec, e.From)
}

func setFrom(rec *models.AuditLogEntry, s Snapshot) {
	rec.BillToFrom, rec.ShipToFrom, rec.HQFrom, rec.SSAcctFrom = s.BillTo, s.ShipTo, s.HQ, s.SSAcct
}

func setTo(rec *models.AuditLogEntry, s Snapshot) {
	rec.BillToTo, rec.ShipToTo, rec.HQTo, rec.SSAcctTo = s.BillTo, s.ShipTo, s.HQ, s.SSAcct
}

// ParseLogEntry turns the wire body into a typed entry. Unknown actions are
// rejected; from-values of an insert and to-values of a delete are dropped.
func ParseLogEntry(req LogRequest) (LogEntry, error) {
	from := Snapshot{BillTo: req.BillToFrom, ShipTo: req.ShipToFrom, HQ: req.HQFrom, SSAcct: req.SSAcctFrom}
	to := Snapshot{BillTo: req.BillToTo, ShipTo: req.ShipToTo, HQ: req.HQTo, SSAcct: req.SSAcctTo}

	switch models.Action(req.Action) {
	case models.ActionInsert:
		return InsertEntry{RowNum: req.RowNum, To: to}, nil
	case models.ActionEdit:
		if req.RowNum == nil {
			return nil, apperr.InvalidInput("rowNum is required for edit")
		}
		return EditEntry{RowNum: *req.RowNum, From: from, To: to}, nil
	case models.ActionDelete:
		if req.RowNum == nil {
			return nil, apperr.InvalidInput("rowNum is required for delete")
		}
		return DeleteEntry{RowNum: *req.RowNum, From: from}, nil
	default:
		return nil, apperr.InvalidInput(fmt.Sprintf("Unhandled action: %q", req.Action))
	}
}

// AuditService owns the per-type mapping log tables. It never updates an entry.
type AuditService struct {
	gw     *repository.Gateway
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func NewAuditService(gw *repository.Gateway, logger *slog.Logger) *AuditService {
	return &AuditService{
		gw:     gw,
		logger: logger,
		now:    time.Now,
		newID:  utils.NewLogID,
	}
}

var logValueColumns = []string{"billto_from", "shipto_from", "hq_from", "ssacct_from", "billto_to", "shipto_to", "hq_to", "ssacct_to"}

// logColumns lists the log table columns in insert order, with the row number
// column renamed for the type.
func logColumns(mt MappingType) []string {
	cols := []string{"log_id", "action", mt.logRowColumn()}
	cols = append(cols, logValueColumns...)
	return append(cols, "action_timestamp")
}

// Append writes a new entry stamped with the server clock and returns the
// inserted count.
func (s *AuditService) Append(ctx context.Context, mt MappingType, entry LogEntry) (n int64, err error) {
	if entry == nil {
		return 0, apperr.InvalidInput("Missing log entry")
	}
	defer func() {
		metrics.AuditAppendsTotal.WithLabelValues(mt.Name, string(entry.Action()), metrics.Result(err)).Inc()
	}()

	if err := entry.validate(mt); err != nil {
		return 0, err
	}

	rec := models.AuditLogEntry{
		LogID:           s.newID(),
		Action:          entry.Action(),
		ActionTimestamp: s.now().UTC(),
	}
	entry.apply(&rec)

	cols := logColumns(mt)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", mt.LogTable, strings.Join(cols, ", "), marks)
	n, err = s.gw.Exec(ctx, "post log entry", query,
		rec.LogID,
		string(rec.Action),
		nullInt(rec.RowNum),
		nullString(rec.BillToFrom),
		nullString(rec.ShipToFrom),
		nullString(rec.HQFrom),
		nullString(rec.SSAcctFrom),
		nullString(rec.BillToTo),
		nullString(rec.ShipToTo),
		nullString(rec.HQTo),
		nullString(rec.SSAcctTo),
		rec.ActionTimestamp,
	)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Audit entry appended", "type", mt.Name, "action", rec.Action, "log_id", rec.LogID)
	return n, nil
}

// List returns every entry of the type in store order. Callers that need a
// particular order sort the result themselves.
func (s *AuditService) List(ctx context.Context, mt MappingType) ([]models.AuditLogEntry, error) {
	cols := logColumns(mt)
	cols[2] += " AS row_num"
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), mt.LogTable)
	rows := []models.AuditLogEntry{}
	if err := s.gw.Query(ctx, "fetch logs", &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}

// PurgeOlderThan deletes entries stamped more than days days ago.
func (s *AuditService) PurgeOlderThan(ctx context.Context, mt MappingType, days float64) (int64, error) {
	if math.IsNaN(days) || math.IsInf(days, 0) || days < 0 {
		return 0, apperr.InvalidInput("days must be a non-negative number")
	}
	cutoff := s.now().UTC().Add(-time.Duration(days * float64(24*time.Hour)))

	query := fmt.Sprintf("DELETE FROM %s WHERE action_timestamp < ?", mt.LogTable)
	n, err := s.gw.Exec(ctx, "delete logs", query, cutoff)
	if err != nil {
		return 0, err
	}

	metrics.AuditPurgedTotal.WithLabelValues(mt.Name, "age").Add(float64(n))
	s.logger.Info("Audit entries purged", "type", mt.Name, "days", days, "deleted", n)
	return n, nil
}

// PurgeByID deletes a single entry and returns 0 or 1.
func (s *AuditService) PurgeByID(ctx context.Context, mt MappingType, logID string) (int64, error) {
	logID = strings.TrimSpace(logID)
	if logID == "" {
		return 0, apperr.InvalidInput("logId is required")
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE log_id = ?", mt.LogTable)
	n, err := s.gw.Exec(ctx, "delete log entry", query, logID)
	if err != nil {
		return 0, err
	}

	metrics.AuditPurgedTotal.WithLabelValues(mt.Name, "id").Add(float64(n))
	s.logger.Info("Audit entry deleted", "type", mt.Name, "log_id", logID, "deleted", n)
	return n, nil
}

func nullString(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func nullInt(p *int64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
