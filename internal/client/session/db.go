package session

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobboard/internal/client/migrations"
	"github.com/dmitrijs2005/jobboard/internal/filex"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// memoryDSN opens a private in-memory database.
const memoryDSN = ":memory:"

// gooseLogger routes goose output into a logging.Logger at debug level so
// migrations stay quiet in the REPL.
type gooseLogger struct {
	ctx context.Context
	log logging.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Debug(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

// RunMigrations applies the embedded client migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB, log logging.Logger) error {
	if log == nil {
		log = logging.Nop()
	}

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(gooseLogger{ctx: ctx, log: log})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at dsn and migrates it. The
// directory holding dsn is created when missing. An in-memory database is
// pinned to one connection, since every new connection would be empty.
func InitDatabase(ctx context.Context, dsn string, log logging.Logger) (*sql.DB, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, fmt.Errorf("failed to prepare database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dsn == memoryDSN {
		db.SetMaxOpenConns(1)
	}

	if err := RunMigrations(ctx, db, log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate client database: %w", err)
	}

	return db, nil
}
