package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shiv060600/Tuttle-Tools/internal/apperr"
	"github.com/shiv060600/Tuttle-Tools/internal/metrics"
	"github.com/shiv060600/Tuttle-Tools/internal/models"
	"github.com/shiv060600/Tuttle-Tools/internal/repository"
)

// MappingService reads and writes the cross-reference tables. One instance
// serves every mapping type; behaviour per type comes from the MappingType.
//
// Concurrent updates of the same row are not coordinated: the last commit wins.
type MappingService struct {
	gw            *repository.Gateway
	hours         *BusinessHoursGate
	customerTable string
	logger        *slog.Logger
}

func NewMappingService(gw *repository.Gateway, hours *BusinessHoursGate, customerTable string, logger *slog.Logger) *MappingService {
	return &MappingService{
		gw:            gw,
		hours:         hours,
		customerTable: customerTable,
		logger:        logger,
	}
}

// List returns every row of the type joined with the customer name. There is no
// server-side filtering or paging.
func (s *MappingService) List(ctx context.Context, mt MappingType) ([]models.CustomerMapping, error) {
	cols := []string{fmt.Sprintf("c.%s AS row_num", mt.rowColumn())}
	for _, f := range mt.Fields {
		cols = append(cols, fmt.Sprintf("c.%s AS %s", f, f))
	}
	cols = append(cols, "a.namecust AS name_cust")

	query := fmt.Sprintf(
		"SELECT %s FROM %s AS c LEFT JOIN %s AS a ON c.ssacct = a.idcust ORDER BY c.%s",
		strings.Join(cols, ", "), mt.Table, s.customerTable, mt.rowColumn(),
	)

	rows := []models.CustomerMapping{}
	if err := s.gw.Query(ctx, "fetch customer mappings", &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts one row and returns the inserted count. The new row number is
// assigned by the store and not returned.
func (s *MappingService) Create(ctx context.Context, mt MappingType, actor Actor, in MappingInput) (n int64, err error) {
	defer func() { s.observe(mt, "create", err) }()

	if err := s.Authorize(mt, actor); err != nil {
		return 0, err
	}
	if err := rejectForeign(mt, in); err != nil {
		return 0, err
	}

	var missing []string
	for _, f := range mt.Required {
		if strings.TrimSpace(in.Get(f).S) == "" {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return 0, apperr.InvalidInput("Missing required fields: " + strings.Join(missing, ", "))
	}

	cols := make([]string, 0, len(mt.Fields))
	marks := make([]string, 0, len(mt.Fields))
	args := make([]interface{}, 0, len(mt.Fields))
	for _, f := range mt.Fields {
		cols = append(cols, string(f))
		marks = append(marks, "?")
		// absent and null optional fields are stored as empty strings
		args = append(args, strings.TrimSpace(in.Get(f).S))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", mt.Table, strings.Join(cols, ", "), strings.Join(marks, ", "))
	n, err = s.gw.Exec(ctx, "create customer mapping", query, args...)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Mapping created", "type", mt.Name, "billto", in.BillTo.S, "hq", in.HQ.S, "ssacct", in.SSAcct.S)
	return n, nil
}

// Update applies a sparse patch to one row. Absent fields are left untouched.
// A null or empty optional field is stored as an empty string; required fields
// cannot be cleared.
func (s *MappingService) Update(ctx context.Context, mt MappingType, actor Actor, rowNum int64, patch MappingInput) (n int64, err error) {
	defer func() { s.observe(mt, "update", err) }()

	if err := s.Authorize(mt, actor); err != nil {
		return 0, err
	}
	if rowNum <= 0 {
		return 0, apperr.InvalidInput("Invalid row number")
	}
	if err := rejectForeign(mt, patch); err != nil {
		return 0, err
	}

	var sets []string
	var args []interface{}
	for _, f := range mt.Fields {
		v := patch.Get(f)
		if !v.Set {
			continue
		}
		val := strings.TrimSpace(v.S)
		if mt.Requires(f) && val == "" {
			return 0, apperr.InvalidInput(fmt.Sprintf("%s cannot be empty", f))
		}
		sets = append(sets, string(f)+" = ?")
		args = append(args, val)
	}
	if len(sets) == 0 {
		return 0, apperr.InvalidInput("No fields provided for update")
	}
	args = append(args, rowNum)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", mt.Table, strings.Join(sets, ", "), mt.rowColumn())
	n, err = s.gw.Exec(ctx, "update customer mapping", query, args...)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, apperr.NotFound(fmt.Sprintf("No row found with RowNum %d", rowNum))
	}

	s.logger.Info("Mapping updated", "type", mt.Name, "row_num", rowNum)
	return n, nil
}

// Delete removes one row physically.
func (s *MappingService) Delete(ctx context.Context, mt MappingType, actor Actor, rowNum int64) (n int64, err error) {
	defer func() { s.observe(mt, "delete", err) }()

	if err := s.Authorize(mt, actor); err != nil {
		return 0, err
	}
	if rowNum <= 0 {
		return 0, apperr.InvalidInput("Invalid row number")
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", mt.Table, mt.rowColumn())
	n, err = s.gw.Exec(ctx, "delete customer mapping", query, rowNum)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, apperr.NotFound(fmt.Sprintf("No row found with RowNum %d", rowNum))
	}

	s.logger.Info("Mapping deleted", "type", mt.Name, "row_num", rowNum)
	return n, nil
}

// Authorize runs the write gates in order: business hours first, then the admin
// session for types that require it. Both run before any payload validation.
func (s *MappingService) Authorize(mt MappingType, actor Actor) error {
	if err := s.hours.Check(); err != nil {
		return err
	}
	if mt.RequireAdmin && !actor.IsAdmin {
		return apperr.New(apperr.ErrUnauthorized, "Admin access required")
	}
	return nil
}

func (s *MappingService) observe(mt MappingType, op string, err error) {
	metrics.MappingMutationsTotal.WithLabelValues(mt.Name, op, metrics.Result(err)).Inc()
}

// rejectForeign fails when the input sets a non-null value for a column the type
// does not have (billto on an ips mapping, for example).
func rejectForeign(mt MappingType, in MappingInput) error {
	for _, f := range allFields {
		if v := in.Get(f); v.Set && !v.Null && !mt.Carries(f) {
			return apperr.InvalidInput(fmt.Sprintf("%s is not a field of %s mappings", f, mt.Name))
		}
	}
	return nil
}
