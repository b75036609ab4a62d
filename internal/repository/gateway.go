package repository

import (
	"context"
	"log/slog"

	"github.com/shiv060600/Tuttle-Tools/internal/apperr"

	"gorm.io/gorm"
)

// Gateway is the only path from the services to the database. Statements are
// always parameterized; the query text is built from validated table names only.
// Driver errors are logged here and replaced with apperr.ErrStoreUnavailable.
type Gateway struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGateway(db *gorm.DB, logger *slog.Logger) *Gateway {
	return &Gateway{db: db, logger: logger}
}

// Query scans the full result of query into dest (a pointer to a slice of
// structs or maps). op names the operation in logs and in the client message,
// e.g. "fetch customer mappings".
func (g *Gateway) Query(ctx context.Context, op string, dest interface{}, query string, args ...interface{}) error {
	if err := g.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error; err != nil {
		return g.fail(op, err)
	}
	return nil
}

// Exec runs a write statement and returns the number of affected rows.
func (g *Gateway) Exec(ctx context.Context, op string, query string, args ...interface{}) (int64, error) {
	res := g.db.WithContext(ctx).Exec(query, args...)
	if res.Error != nil {
		return 0, g.fail(op, res.Error)
	}
	return res.RowsAffected, nil
}

// Quote quotes a column name for the connected dialect, for names that clash
// with keywords.
func (g *Gateway) Quote(name string) string {
	return g.db.Statement.Quote(name)
}

func (g *Gateway) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return g.fail("ping database", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return g.fail("ping database", err)
	}
	return nil
}

func (g *Gateway) fail(op string, err error) error {
	g.logger.Error("Store operation failed", "op", op, "error", err)
	return apperr.New(apperr.ErrStoreUnavailable, "Failed to "+op)
}
