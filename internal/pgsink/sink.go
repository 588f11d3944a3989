// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package pgsink is an export host that writes translated tables into PostgreSQL.
// Each host table becomes one Postgres table whose columns follow the host
// schema order; rows are loaded with COPY.
package pgsink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pterm/pterm"

	"discoverybridge/cli/internal/dsn"
	apperrors "discoverybridge/cli/internal/errors"
	"discoverybridge/cli/internal/host"
	"discoverybridge/cli/internal/logging"
)

// DefaultSchema is the Postgres schema tables are created in.
const DefaultSchema = "public"

// Sink writes host tables over a pgx connection pool.
type Sink struct {
	pool   *pgxpool.Pool
	schema string
	log    *pterm.Logger
}

// Open parses rawDSN, connects and verifies the connection.
// An empty schemaName selects DefaultSchema.
func Open(ctx context.Context, rawDSN, schemaName string, log *pterm.Logger) (*Sink, error) {
	info, err := dsn.Parse(rawDSN)
	if err != nil {
		return nil, err
	}
	if schemaName == "" {
		schemaName = DefaultSchema
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(pingCtx, info.ConnString())
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", info.Redacted(), err)
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s: %w", info.Redacted(), err)
	}

	log = logging.OrDiscard(log)
	log.Debug("export sink connected", log.Args("database", info.Redacted(), "schema", schemaName))
	return &Sink{pool: pool, schema: schemaName, log: log}, nil
}

// Close releases the pool.
func (s *Sink) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Options controls a single Write.
type Options struct {
	// Replace truncates the table before loading.
	Replace bool
}

// Write creates the table for schema if needed and copies rows into it.
// It returns the number of rows copied. The load runs in one transaction.
func (s *Sink) Write(ctx context.Context, schema host.TableSchema, rows [][]any, opts Options) (int64, error) {
	converted, err := ConvertRows(schema, rows)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ExportFailed, "convert rows for "+schema.ID, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ExportFailed, "begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, CreateTableSQL(s.schema, schema)); err != nil {
		return 0, apperrors.Wrap(apperrors.ExportFailed, "create table "+schema.ID, err)
	}
	existing, err := existingColumns(ctx, tx, s.schema, schema.ID)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ExportFailed, "inspect table "+schema.ID, err)
	}
	if err := checkCompatible(existing, schema); err != nil {
		return 0, apperrors.Wrap(apperrors.ExportFailed, "existing table is incompatible", err)
	}
	table := pgx.Identifier{s.schema, schema.ID}
	if opts.Replace {
		if _, err := tx.Exec(ctx, "TRUNCATE "+table.Sanitize()); err != nil {
			return 0, apperrors.Wrap(apperrors.ExportFailed, "truncate "+schema.ID, err)
		}
	}

	n, err := tx.CopyFrom(ctx, table, ColumnNames(schema), pgx.CopyFromRows(converted))
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ExportFailed, "copy rows into "+schema.ID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, apperrors.Wrap(apperrors.ExportFailed, "commit "+schema.ID, err)
	}

	s.log.Debug("table exported", s.log.Args("table", schema.ID, "rows", n))
	return n, nil
}

// ColumnNames returns the column ids of schema in order.
func ColumnNames(schema host.TableSchema) []string {
	names := make([]string, len(schema.Columns))
	for i, c := range schema.Columns {
		names[i] = c.ID
	}
	return names
}

// CreateTableSQL renders the CREATE TABLE IF NOT EXISTS statement for schema.
func CreateTableSQL(schemaName string, schema host.TableSchema) string {
	cols := make([]string, len(schema.Columns))
	for i, c := range schema.Columns {
		cols[i] = pgx.Identifier{c.ID}.Sanitize() + " " + ColumnType(c.DataType)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pgx.Identifier{schemaName, schema.ID}.Sanitize(), strings.Join(cols, ", "))
}

// ColumnType maps a host data type to a Postgres column type.
// Geometry is stored as WKT text; unmapped columns fall back to text.
func ColumnType(dt host.DataType) string {
	switch dt {
	case host.Int:
		return "bigint"
	case host.Float:
		return "double precision"
	case host.Bool:
		return "boolean"
	case host.Date:
		return "date"
	case host.DateTime:
		return "timestamptz"
	default:
		return "text"
	}
}
