package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shiv060600/Tuttle-Tools/internal/apperr"
	"github.com/shiv060600/Tuttle-Tools/internal/models"
	"github.com/shiv060600/Tuttle-Tools/internal/repository"
)

// ReportInventoryAdjustments lists the cycle-count adjustments booked in the
// IPS warehouse.
const ReportInventoryAdjustments = "INV_ADJ_CC_IPS"

// ReportService runs the fixed, read-only reports.
type ReportService struct {
	gw             *repository.Gateway
	inventoryTable string
	itemTable      string
	logger         *slog.Logger
}

func NewReportService(gw *repository.Gateway, inventoryTable, itemTable string, logger *slog.Logger) *ReportService {
	return &ReportService{
		gw:             gw,
		inventoryTable: inventoryTable,
		itemTable:      itemTable,
		logger:         logger,
	}
}

// Run returns the rows of the named report. Unknown names are NotFound.
func (s *ReportService) Run(ctx context.Context, reportType string) ([]models.InventoryAdjustment, error) {
	switch reportType {
	case ReportInventoryAdjustments:
		return s.inventoryAdjustments(ctx)
	default:
		return nil, apperr.NotFound(fmt.Sprintf("Unknown report type %q", reportType))
	}
}

func (s *ReportService) inventoryAdjustments(ctx context.Context) ([]models.InventoryAdjustment, error) {
	query := fmt.Sprintf(
		"SELECT ips.ean AS ean, i.%s AS title, ips.whs AS whs, ips.qty AS qty, ips.acttype AS acttype "+
			"FROM %s AS ips LEFT JOIN %s AS i ON TRIM(i.itemno) = ips.ean "+
			"WHERE ips.whs = ? AND ips.acttype = ? ORDER BY ips.ean",
		s.gw.Quote("desc"), s.inventoryTable, s.itemTable,
	)

	rows := []models.InventoryAdjustment{}
	if err := s.gw.Query(ctx, "fetch report details", &rows, query, "IPS", "CC"); err != nil {
		return nil, err
	}
	s.logger.Debug("Report fetched", "report", ReportInventoryAdjustments, "rows", len(rows))
	return rows, nil
}
