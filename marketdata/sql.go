package marketdata

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hubenschmidt/go-sectormatch/core"
	"github.com/hubenschmidt/go-sectormatch/marketdata/migrations"
	"github.com/hubenschmidt/go-sectormatch/vector"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DefaultSQLitePath is used when no DSN is configured.
const DefaultSQLitePath = "data/sectors.db"

type dialect struct {
	driver     string
	migrations fs.FS
	migration  string
	selectSQL  string
	deleteSQL  string
	insertSQL  string
	tickersSQL string
}

var sqliteDialect = dialect{
	driver:     "sqlite",
	migrations: migrations.SQLite,
	migration:  "sqlite/001_init.sql",
	selectSQL:  `SELECT sector, weight FROM sector_weights WHERE ticker = ? ORDER BY sector`,
	deleteSQL:  `DELETE FROM sector_weights WHERE ticker = ?`,
	insertSQL:  `INSERT INTO sector_weights (ticker, sector, weight) VALUES (?, ?, ?)`,
	tickersSQL: `SELECT DISTINCT ticker FROM sector_weights ORDER BY ticker`,
}

var postgresDialect = dialect{
	driver:     "pgx",
	migrations: migrations.Postgres,
	migration:  "postgres/001_init.sql",
	selectSQL:  `SELECT sector, weight FROM sector_weights WHERE ticker = $1 ORDER BY sector`,
	deleteSQL:  `DELETE FROM sector_weights WHERE ticker = $1`,
	insertSQL:  `INSERT INTO sector_weights (ticker, sector, weight) VALUES ($1, $2, $3)`,
	tickersSQL: `SELECT DISTINCT ticker FROM sector_weights ORDER BY ticker`,
}

// SQLSource reads sector weights from a sector_weights table.
type SQLSource struct {
	db      *sql.DB
	dialect dialect
}

// OpenSQL opens a SQL-backed source based on the DSN.
//   - Empty DSN: SQLite at data/sectors.db
//   - postgres:// or postgresql://: PostgreSQL
//   - Anything else: SQLite at the specified path
func OpenSQL(dsn string) (*SQLSource, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		s, err := openPostgres(dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return s, nil
	}
	return openSQLite(dsn)
}

func openSQLite(path string) (*SQLSource, error) {
	if path == "" {
		path = DefaultSQLitePath
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open(sqliteDialect.driver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	return newSQLSource(db, sqliteDialect)
}

func openPostgres(dsn string) (*SQLSource, error) {
	db, err := sql.Open(postgresDialect.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return newSQLSource(db, postgresDialect)
}

func newSQLSource(db *sql.DB, d dialect) (*SQLSource, error) {
	s := &SQLSource{db: db, dialect: d}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

func (s *SQLSource) migrate() error {
	data, err := fs.ReadFile(s.dialect.migrations, s.dialect.migration)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}

	for _, stmt := range strings.Split(string(data), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// SectorWeights returns the stored weights for a ticker, or an empty map if none exist.
func (s *SQLSource) SectorWeights(ctx context.Context, ticker string) (vector.SectorWeights, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.selectSQL, core.NormalizeTicker(ticker))
	if err != nil {
		return vector.SectorWeights{}, fmt.Errorf("query sector weights: %w", err)
	}
	defer rows.Close()

	weights := vector.SectorWeights{}
	for rows.Next() {
		var sector string
		var weight float64
		if err := rows.Scan(&sector, &weight); err != nil {
			return vector.SectorWeights{}, fmt.Errorf("scan sector weight: %w", err)
		}
		weights[sector] = weight
	}
	if err := rows.Err(); err != nil {
		return vector.SectorWeights{}, fmt.Errorf("iterate sector weights: %w", err)
	}
	return weights, nil
}

// Upsert replaces all stored weights for a ticker in one transaction.
func (s *SQLSource) Upsert(ctx context.Context, ticker string, weights vector.SectorWeights) error {
	ticker = core.NormalizeTicker(ticker)
	if ticker == "" {
		return fmt.Errorf("%w: empty ticker", core.ErrInvalidArgument)
	}
	for sector, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: negative weight %g for %s/%s", core.ErrInvalidArgument, w, ticker, sector)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.dialect.deleteSQL, ticker); err != nil {
		return fmt.Errorf("delete sector weights: %w", err)
	}
	for _, sector := range weights.Labels() {
		if _, err := tx.ExecContext(ctx, s.dialect.insertSQL, ticker, sector, weights[sector]); err != nil {
			return fmt.Errorf("insert sector weight: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Tickers lists every ticker with stored weights.
func (s *SQLSource) Tickers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.tickersSQL)
	if err != nil {
		return nil, fmt.Errorf("query tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

// Close closes the database connection.
func (s *SQLSource) Close() error {
	return s.db.Close()
}
