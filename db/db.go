// Package db persists tasks in PostgreSQL. The engine never touches it
// directly: the keeper loads tasks at startup and writes back mutations.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PgxIface is the slice of pgxpool.Pool the store uses. pgxmock implements
// it for tests.
type PgxIface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

type Database struct {
	pool   PgxIface
	logger *zap.SugaredLogger
}

const createTableQuery = `CREATE TABLE IF NOT EXISTS tasks(
task_id TEXT PRIMARY KEY,
title TEXT NOT NULL,
description TEXT NOT NULL DEFAULT '',
remind_at INT NOT NULL,
start_date DATE,
repeat_rule JSONB NOT NULL,
label TEXT NOT NULL DEFAULT '',
is_done BOOLEAN NOT NULL DEFAULT FALSE,
alarm_enabled BOOLEAN NOT NULL DEFAULT FALSE,
notify_offset INT NOT NULL DEFAULT 0,
last_done DATE)`

// New connects to the database and makes sure the schema exists.
// The connection string looks like postgresql://localhost:5432/taskminder?user=admn&password=passwd
func New(ctx context.Context, connStr string, l *zap.SugaredLogger) (*Database, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, errors.Wrap(err, "failed creating connection pool")
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed pinging database")
	}

	d := NewWithPool(pool, l)
	if _, err = d.pool.Exec(ctx, createTableQuery); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed creating schema")
	}

	return d, nil
}

// NewWithPool wraps an existing pool; tests hand in a mock here.
func NewWithPool(pool PgxIface, l *zap.SugaredLogger) *Database {
	return &Database{pool: pool, logger: l}
}

func (d *Database) Close() {
	d.pool.Close()
}
