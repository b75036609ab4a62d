package config

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv         string        `mapstructure:"APP_ENV"`
	Port           string        `mapstructure:"PORT"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`
	SessionSecret  string        `mapstructure:"SESSION_SECRET"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`
	AdminUser      string        `mapstructure:"ADMIN_USER"`
	AdminPass      string        `mapstructure:"ADMIN_PASS"`
	AdminPassHash  string        `mapstructure:"ADMIN_PASS_HASH"`
	AllowedOrigins string        `mapstructure:"ALLOWED_ORIGINS"`

	MappingTable       string `mapstructure:"MAPPING_TABLE"`
	IPSMappingTable    string `mapstructure:"IPS_MAPPING_TABLE"`
	CustomerTable      string `mapstructure:"CUSTOMER_TABLE"`
	MappingLogTable    string `mapstructure:"MAPPING_LOG_TABLE"`
	IPSMappingLogTable string `mapstructure:"IPS_MAPPING_LOG_TABLE"`
	BookTable          string `mapstructure:"BOOK_TABLE"`
	BackorderTable     string `mapstructure:"BACKORDER_TABLE"`
	InventoryTable     string `mapstructure:"INVENTORY_TABLE"`
	ItemTable          string `mapstructure:"ITEM_TABLE"`

	// Row number columns. The ERP tables on SQL Server name them RowNum and ROWNUM.
	MappingRowColumn string `mapstructure:"MAPPING_ROW_COLUMN"`
	LogRowColumn     string `mapstructure:"LOG_ROW_COLUMN"`

	LogRetentionDays     int           `mapstructure:"LOG_RETENTION_DAYS"`
	LogRetentionInterval time.Duration `mapstructure:"LOG_RETENTION_INTERVAL"`
	BookCacheTTL         time.Duration `mapstructure:"BOOK_CACHE_TTL"`

	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`
	AutoMigrate       bool          `mapstructure:"AUTO_MIGRATE"`
	MigrationsPath    string        `mapstructure:"MIGRATIONS_PATH"`
}

var (
	tableIdent  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*){0,2}$`)
	columnIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// DefaultTables are the table names created by the bundled migrations.
var DefaultTables = map[string]string{
	"MAPPING_TABLE":         "crossref",
	"IPS_MAPPING_TABLE":     "ips_crossref",
	"CUSTOMER_TABLE":        "arcus",
	"MAPPING_LOG_TABLE":     "mapping_log",
	"IPS_MAPPING_LOG_TABLE": "ips_mapping_log",
	"BOOK_TABLE":            "book_details",
	"BACKORDER_TABLE":       "backorder_report",
	"INVENTORY_TABLE":       "ips_inv",
	"ITEM_TABLE":            "icitem",
}

// DefaultRowColumn is the row number column of the bundled schema.
const DefaultRowColumn = "row_num"

func LoadConfig() (config Config, err error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load(".env.local", ".env")

	viper.SetDefault("APP_ENV", "local")
	viper.SetDefault("PORT", "3001")
	viper.SetDefault("DATABASE_URL", "sqlite://tuttle.db")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("SESSION_SECRET", "change-me-in-production")
	viper.SetDefault("SESSION_TTL", "8h")
	viper.SetDefault("ADMIN_USER", "admin")
	viper.SetDefault("ADMIN_PASS", "")
	viper.SetDefault("ADMIN_PASS_HASH", "")
	viper.SetDefault("ALLOWED_ORIGINS", "")

	for key, name := range DefaultTables {
		viper.SetDefault(key, name)
	}
	viper.SetDefault("MAPPING_ROW_COLUMN", DefaultRowColumn)
	viper.SetDefault("LOG_ROW_COLUMN", DefaultRowColumn)

	viper.SetDefault("LOG_RETENTION_DAYS", 0)
	viper.SetDefault("LOG_RETENTION_INTERVAL", "24h")
	viper.SetDefault("BOOK_CACHE_TTL", "10m")

	viper.SetDefault("DB_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("AUTO_MIGRATE", true)
	viper.SetDefault("MIGRATIONS_PATH", "file://migration")

	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	if err != nil {
		log.Printf("unable to decode into struct, %v", err)
		return
	}

	err = config.Validate()
	return
}

// Validate checks the values that would otherwise fail late, at query time.
func (c Config) Validate() error {
	tables := c.tables()
	for key, name := range tables {
		if !ValidTableName(name) {
			return fmt.Errorf("invalid table name for %s: %q", key, name)
		}
	}
	columns := map[string]string{
		"MAPPING_ROW_COLUMN": c.MappingRowColumn,
		"LOG_ROW_COLUMN":     c.LogRowColumn,
	}
	for key, name := range columns {
		// empty means the default column
		if name != "" && !ValidColumnName(name) {
			return fmt.Errorf("invalid column name for %s: %q", key, name)
		}
	}

	// The postgres migrations create the default schema only; custom names must
	// point at tables that already exist.
	if c.IsPostgres() && c.AutoMigrate {
		for key, name := range tables {
			if name != DefaultTables[key] {
				return fmt.Errorf("%s=%q needs AUTO_MIGRATE=false on postgres", key, name)
			}
		}
		for key, name := range columns {
			if name != "" && name != DefaultRowColumn {
				return fmt.Errorf("%s=%q needs AUTO_MIGRATE=false on postgres", key, name)
			}
		}
	}

	if c.LogRetentionDays < 0 {
		return fmt.Errorf("LOG_RETENTION_DAYS must be >= 0, got %d", c.LogRetentionDays)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.IsProduction() && len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes in production")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres")
}

func (c Config) tables() map[string]string {
	return map[string]string{
		"MAPPING_TABLE":         c.MappingTable,
		"IPS_MAPPING_TABLE":     c.IPSMappingTable,
		"CUSTOMER_TABLE":        c.CustomerTable,
		"MAPPING_LOG_TABLE":     c.MappingLogTable,
		"IPS_MAPPING_LOG_TABLE": c.IPSMappingLogTable,
		"BOOK_TABLE":            c.BookTable,
		"BACKORDER_TABLE":       c.BackorderTable,
		"INVENTORY_TABLE":       c.InventoryTable,
		"ITEM_TABLE":            c.ItemTable,
	}
}

// Origins returns the CORS allow-list, empty entries removed.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ValidTableName reports whether name is a plain or schema-qualified identifier
// (up to database.schema.table).
func ValidTableName(name string) bool {
	return tableIdent.MatchString(name)
}

// ValidColumnName reports whether name is a plain identifier.
func ValidColumnName(name string) bool {
	return columnIdent.MatchString(name)
}
