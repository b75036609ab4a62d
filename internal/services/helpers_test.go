package services

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/shiv060600/Tuttle-Tools/internal/config"
	"github.com/shiv060600/Tuttle-Tools/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testStore struct {
	db     *gorm.DB
	gw     *repository.Gateway
	cfg    config.Config
	types  *MappingTypes
	logger *slog.Logger
}

func testConfig() config.Config {
	return config.Config{
		MappingTable:       "crossref",
		IPSMappingTable:    "ips_crossref",
		CustomerTable:      "arcus",
		MappingLogTable:    "mapping_log",
		IPSMappingLogTable: "ips_mapping_log",
		BookTable:          "book_details",
		BackorderTable:     "backorder_report",
		InventoryTable:     "ips_inv",
		ItemTable:          "icitem",
		BookCacheTTL:       time.Minute,
	}
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	cfg := testConfig()
	require.NoError(t, repository.AutoMigrate(db, cfg))

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return &testStore{
		db:     db,
		gw:     repository.NewGateway(db, logger),
		cfg:    cfg,
		types:  DefaultMappingTypes(cfg),
		logger: logger,
	}
}

func (s *testStore) mustType(t *testing.T, name string) MappingType {
	t.Helper()
	mt, err := s.types.Lookup(name)
	require.NoError(t, err)
	return mt
}

// clockAt returns a fixed clock at the given local hour.
func clockAt(hour int) func() time.Time {
	ts := time.Date(2024, time.March, 4, hour, 30, 0, 0, time.Local)
	return func() time.Time { return ts }
}

func strp(s string) *string { return &s }

func int64p(n int64) *int64 { return &n }
