package gasdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ncruces/go-sqlite3"
	"github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/ext/unicode"
)

const (
	defaultCacheSize = -1024 * 1024 // negative value for pages
	defaultPageSize  = 4096
)

// DateLayout is the calendar date format used by price_history.fecha.
const DateLayout = "2006-01-02"

type Storage struct {
	db  *sql.DB
	log *slog.Logger
}

// NewStorage opens (creating if needed) the SQLite database at dbPath.
func NewStorage(ctx context.Context, dbPath string, logger *slog.Logger) (*Storage, error) {
	db, err := driver.Open("file:"+dbPath, initConn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return newStorage(db, logger), nil
}

func newStorage(db *sql.DB, logger *slog.Logger) *Storage {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Storage{db: db, log: logger}
}

// initConn runs on every new pool connection. The unicode extension replaces
// LIKE and upper/lower so that case folding also covers Ñ and accented vowels.
func initConn(c *sqlite3.Conn) error {
	if err := unicode.Register(c); err != nil {
		return fmt.Errorf("error registering unicode extension: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 10000;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA auto_vacuum = INCREMENTAL;",
		// Add memory management pragmas to prevent OOM
		"PRAGMA temp_store = FILE;",
		"PRAGMA mmap_size = 0;",
		"PRAGMA soft_heap_limit = 67108864;",
		"PRAGMA synchronous = NORMAL;",
		fmt.Sprintf("PRAGMA cache_size = %d;", defaultCacheSize),
		fmt.Sprintf("PRAGMA page_size = %d;", defaultPageSize),
	} {
		if err := c.Exec(pragma); err != nil {
			return fmt.Errorf("error running %q: %w", pragma, err)
		}
	}
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS stations (
		id_ss INTEGER PRIMARY KEY,
		rotulo TEXT NOT NULL DEFAULT '',
		horario TEXT NOT NULL DEFAULT '',
		precio_diesel REAL,
		precio_diesel_extra REAL,
		precio_gasolina_95 REAL,
		precio_gasolina_98 REAL,
		direccion TEXT NOT NULL DEFAULT '',
		provincia TEXT NOT NULL DEFAULT '',
		localidad TEXT NOT NULL DEFAULT '',
		cp TEXT NOT NULL DEFAULT '',
		longitud TEXT NOT NULL DEFAULT '',
		latitud TEXT NOT NULL DEFAULT '',
		fecha_actualizacion TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_stations_cp ON stations(cp);
	CREATE INDEX IF NOT EXISTS idx_stations_localidad ON stations(localidad);

	CREATE TABLE IF NOT EXISTS price_history (
		id_ss INTEGER NOT NULL,
		fecha TEXT NOT NULL,
		precio_diesel REAL,
		precio_diesel_extra REAL,
		precio_gasolina_95 REAL,
		precio_gasolina_98 REAL,
		UNIQUE(id_ss, fecha)
	);
	CREATE INDEX IF NOT EXISTS idx_price_history_fecha ON price_history(fecha);
	`

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("error creating table: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) VacuumDatabase(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "PRAGMA incremental_vacuum(1000)")
	if err != nil {
		return fmt.Errorf("error performing incremental vacuum: %w", err)
	}

	return nil
}
