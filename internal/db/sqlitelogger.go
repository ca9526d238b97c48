package db

import (
	"context"
	"database/sql/driver"
	"fmt"
	"log/slog"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// logConnector opens the sqlite3 driver and wraps each connection so every
// statement against the readings database is logged at debug level. Enabled
// with DB_LOG_SQL=true; use sql.OpenDB(connector), not sql.Open.
type logConnector struct {
	dsn    string
	logger *slog.Logger
}

func NewLoggingConnector(dsn string, logger *slog.Logger) (driver.Connector, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return &logConnector{dsn: dsn, logger: logger}, nil
}

func (c *logConnector) Driver() driver.Driver { return &logDriver{} }

func (c *logConnector) Connect(ctx context.Context) (driver.Conn, error) {
	underlying := &sqlite3.SQLiteDriver{}
	conn, err := underlying.Open(c.dsn)
	if err != nil {
		return nil, err
	}
	return &logConn{conn: conn, logger: c.logger}, nil
}

// logDriver only exists to satisfy Connector.Driver.
type logDriver struct{}

func (d *logDriver) Open(name string) (driver.Conn, error) {
	return nil, fmt.Errorf("sqlite3-log: use sql.OpenDB(NewLoggingConnector(...)) instead of sql.Open")
}

type logConn struct {
	conn   driver.Conn
	logger *slog.Logger
}

func (c *logConn) Prepare(query string) (driver.Stmt, error) {
	stmt, err := c.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &logStmt{stmt: stmt, query: query, logger: c.logger}, nil
}

func (c *logConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if prep, ok := c.conn.(driver.ConnPrepareContext); ok {
		stmt, err := prep.PrepareContext(ctx, query)
		if err != nil {
			return nil, err
		}
		return &logStmt{stmt: stmt, query: query, logger: c.logger}, nil
	}
	return c.Prepare(query)
}

func (c *logConn) Close() error { return c.conn.Close() }

func (c *logConn) Begin() (driver.Tx, error) {
	//nolint:staticcheck // SA1019: required when underlying conn does not implement ConnBeginTx
	return c.conn.Begin()
}

func (c *logConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if beginTx, ok := c.conn.(driver.ConnBeginTx); ok {
		return beginTx.BeginTx(ctx, opts)
	}
	//nolint:staticcheck // SA1019: fallback when underlying conn does not implement ConnBeginTx
	return c.conn.Begin()
}

type logStmt struct {
	stmt   driver.Stmt
	query  string
	logger *slog.Logger
}

func (s *logStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.log("exec", args)
	//nolint:staticcheck // SA1019: required when underlying stmt does not implement StmtExecContext
	return s.stmt.Exec(args)
}

func (s *logStmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	s.log("exec", namedValues(args))
	if execCtx, ok := s.stmt.(driver.StmtExecContext); ok {
		return execCtx.ExecContext(ctx, args)
	}
	//nolint:staticcheck // SA1019: fallback when underlying stmt does not implement StmtExecContext
	return s.stmt.Exec(plainValues(args))
}

func (s *logStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.log("query", args)
	//nolint:staticcheck // SA1019: required when underlying stmt does not implement StmtQueryContext
	return s.stmt.Query(args)
}

func (s *logStmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	s.log("query", namedValues(args))
	if queryCtx, ok := s.stmt.(driver.StmtQueryContext); ok {
		return queryCtx.QueryContext(ctx, args)
	}
	//nolint:staticcheck // SA1019: fallback when underlying stmt does not implement StmtQueryContext
	return s.stmt.Query(plainValues(args))
}

func (s *logStmt) Close() error { return s.stmt.Close() }

// NumInput returns -1 when the underlying statement cannot say.
func (s *logStmt) NumInput() int {
	if n, ok := s.stmt.(interface{ NumInput() int }); ok {
		return n.NumInput()
	}
	return -1
}

func (s *logStmt) log(op string, args any) {
	s.logger.Debug("sql", "op", op, "sql", s.query, "args", args)
}

func namedValues(args []driver.NamedValue) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if a.Name != "" {
			out[i] = a.Name + "=" + fmt.Sprint(a.Value)
		} else {
			out[i] = fmt.Sprint(a.Value)
		}
	}
	return out
}

func plainValues(args []driver.NamedValue) []driver.Value {
	out := make([]driver.Value, len(args))
	for i := range args {
		out[i] = args[i].Value
	}
	return out
}
