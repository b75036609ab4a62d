package handlers

import (
	"log/slog"
	"time"

	"github.com/shiv060600/Tuttle-Tools/internal/config"
	"github.com/shiv060600/Tuttle-Tools/internal/repository"
	"github.com/shiv060600/Tuttle-Tools/internal/services"
)

type Handler struct {
	cfg      config.Config
	logger   *slog.Logger
	gw       *repository.Gateway
	types    *services.MappingTypes
	mappings *services.MappingService
	audit    *services.AuditService
	books    *services.BookService
	reports  *services.ReportService
	admin    *services.AdminAuthenticator
	now      func() time.Time
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	gw *repository.Gateway,
	types *services.MappingTypes,
	mappings *services.MappingService,
	audit *services.AuditService,
	books *services.BookService,
	reports *services.ReportService,
	admin *services.AdminAuthenticator,
) *Handler {
	return &Handler{
		cfg:      cfg,
		logger:   logger,
		gw:       gw,
		types:    types,
		mappings: mappings,
		audit:    audit,
		books:    books,
		reports:  reports,
		admin:    admin,
		now:      time.Now,
	}
}
