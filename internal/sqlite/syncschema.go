package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/random"
)

// migrate ensures that the db schema matches schemaDefinition.
//
// The migration is declarative:
//
//  1. tables missing from the target are dropped and new tables are created,
//  2. tables whose definition changed are rebuilt with the 12-step procedure from
//     https://www.sqlite.org/lang_altertable.html#otheralter keeping the common columns,
//  3. indexes and triggers are dropped and recreated whenever their definition differs.
//
// Inspired by https://david.rothlis.net/declarative-schema-migration-for-sqlite/
func (db *Database) migrate(ctx context.Context, schemaDefinition string) (err error) {
	// ATTACH, DETACH and PRAGMA foreign_keys must run outside the transaction on the same connection.
	var conn *sql.Conn
	if conn, err = db.ReadWrite.Conn(ctx); err != nil {
		return errors.Wrap(err, "reserve connection")
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "release connection")
		}
	}()

	var target *sql.DB
	if target, err = db.attachTargetSchema(ctx, conn, schemaDefinition); err != nil {
		return errors.Wrap(err, "attach target schema")
	}
	defer func() {
		if _, detachErr := conn.ExecContext(ctx, "DETACH DATABASE schemaTarget"); detachErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to detach schema target database",
				errors.SlogError(detachErr))
		}
		if closeErr := target.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to close schema target database",
				errors.SlogError(closeErr))
		}
	}()

	if _, err = conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return errors.Wrap(err, "disable foreign key validation")
	}
	defer func() {
		if _, fkErr := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); fkErr != nil && err == nil {
			err = errors.Wrap(fkErr, "re-enable foreign key validation")
		}
	}()

	var tx *sql.Tx
	if tx, err = conn.BeginTx(ctx, nil); err != nil {
		return errors.Wrap(err, "start transaction")
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				db.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback migration", errors.SlogError(rollbackErr))
			}
		}
	}()

	if err = db.migrateTables(ctx, tx); err != nil {
		return errors.Wrap(err, "migrate tables")
	}
	for _, objectType := range []string{"index", "trigger"} {
		if err = db.migrateObjects(ctx, tx, objectType); err != nil {
			return errors.Wrap(err, "migrate schema objects", slog.String("type", objectType))
		}
	}

	var violations []string
	if violations, err = queryStrings(ctx, tx, `SELECT "table" FROM pragma_foreign_key_check`); err != nil {
		return errors.Wrap(err, "foreign key check")
	}
	if len(violations) > 0 {
		return errors.New("foreign key violations after migration", slog.Any("tables", violations))
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit migration")
	}
	return nil
}

// attachTargetSchema materialises schemaDefinition in a scratch in-memory database and attaches it as schemaTarget
// so that the current and target schema can be compared with plain SQL.
func (db *Database) attachTargetSchema(ctx context.Context, conn *sql.Conn, schemaDefinition string) (*sql.DB, error) {
	var (
		name         string
		err          error
		dbNameLength uint = 20
	)
	if name, err = random.Letters(dbNameLength); err != nil {
		return nil, errors.Wrap(err, "generate random ID")
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	var target *sql.DB
	if target, err = sql.Open("sqlite3", dsn); err != nil {
		return nil, errors.Wrap(err, "open schema target database")
	}
	// The shared in-memory database disappears with its last connection.
	target.SetMaxIdleConns(1)
	target.SetConnMaxLifetime(0)
	if err = target.PingContext(ctx); err != nil {
		_ = target.Close()
		return nil, errors.Wrap(err, "ping schema target database")
	}
	if strings.TrimSpace(schemaDefinition) != "" {
		if _, err = target.ExecContext(ctx, schemaDefinition); err != nil {
			_ = target.Close()
			return nil, errors.Wrap(err, "apply schema to target database")
		}
	}
	if _, err = conn.ExecContext(ctx, "ATTACH DATABASE ? AS schemaTarget", dsn); err != nil {
		_ = target.Close()
		return nil, errors.Wrap(err, "attach")
	}
	return target, nil
}

func (db *Database) migrateTables(ctx context.Context, tx *sql.Tx) error {
	dropped, err := queryStrings(ctx, tx, `SELECT cur.name
FROM main.sqlite_schema AS cur
LEFT JOIN schemaTarget.sqlite_schema AS tgt ON tgt.name = cur.name AND tgt.type = cur.type
WHERE cur.type = 'table' AND tgt.name IS NULL AND cur.name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return errors.Wrap(err, "query dropped tables")
	}
	for _, table := range dropped {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping table", slog.String("table", table))
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s", quoteIdentifier(table))); err != nil {
			return errors.Wrap(err, "drop table", slog.String("table", table))
		}
	}

	created, err := queryStrings(ctx, tx, `SELECT tgt.sql
FROM schemaTarget.sqlite_schema AS tgt
LEFT JOIN main.sqlite_schema AS cur ON cur.name = tgt.name AND cur.type = tgt.type
WHERE tgt.type = 'table' AND cur.name IS NULL AND tgt.name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return errors.Wrap(err, "query created tables")
	}
	for _, stmt := range created {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating table", slog.String("query", stmt))
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "create table", slog.String("query", stmt))
		}
	}

	changed, err := queryChangedTables(ctx, tx)
	if err != nil {
		return errors.Wrap(err, "query changed tables")
	}
	for _, table := range changed {
		if err = db.rebuildTable(ctx, tx, table); err != nil {
			return errors.Wrap(err, "rebuild table", slog.String("table", table.name))
		}
	}
	return nil
}

type changedTable struct {
	name   string
	newSQL string
}

func queryChangedTables(ctx context.Context, tx *sql.Tx) ([]changedTable, error) {
	rows, err := tx.QueryContext(ctx, `SELECT cur.name, tgt.sql
FROM main.sqlite_schema AS cur
JOIN schemaTarget.sqlite_schema AS tgt ON tgt.name = cur.name AND tgt.type = cur.type
WHERE cur.type = 'table' AND cur.name NOT LIKE 'sqlite_%' AND cur.sql <> tgt.sql`)
	if err != nil {
		return nil, errors.Wrap(err, "query")
	}
	defer func() { _ = rows.Close() }()

	var tables []changedTable
	for rows.Next() {
		var table changedTable
		if err = rows.Scan(&table.name, &table.newSQL); err != nil {
			return nil, errors.Wrap(err, "scan")
		}
		tables = append(tables, table)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows")
	}
	return tables, nil
}

// rebuildTable performs steps 4-7 of the 12-step procedure: create the new definition under a temporary name, copy
// the common columns, drop the old table and rename. Indexes and triggers of the old table vanish with it and are
// recreated by migrateObjects.
func (db *Database) rebuildTable(ctx context.Context, tx *sql.Tx, table changedTable) error {
	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrating table",
		slog.String("table", table.name), slog.String("new_sql", table.newSQL))

	tempName := table.name + "_migration_temp"
	tempSQL := strings.Replace(table.newSQL, table.name, tempName, 1)
	if _, err := tx.ExecContext(ctx, tempSQL); err != nil {
		return errors.Wrap(err, "create temporary table", slog.String("query", tempSQL))
	}

	columns, err := queryStrings(ctx, tx, `SELECT '"' || tgt.name || '"'
FROM pragma_table_info(:table_name, 'main') AS cur
JOIN pragma_table_info(:table_name, 'schemaTarget') AS tgt ON tgt.name = cur.name`,
		sql.Named("table_name", table.name))
	if err != nil {
		return errors.Wrap(err, "query common columns")
	}
	if len(columns) > 0 {
		common := strings.Join(columns, ", ")
		copySQL := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", //nolint:gosec // identifiers come from schema
			quoteIdentifier(tempName), common, common, quoteIdentifier(table.name))
		if _, err = tx.ExecContext(ctx, copySQL); err != nil {
			return errors.Wrap(err, "copy rows", slog.String("query", copySQL))
		}
	}

	if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s", quoteIdentifier(table.name))); err != nil {
		return errors.Wrap(err, "drop old table")
	}
	renameSQL := fmt.Sprintf("ALTER TABLE %s RENAME TO %s", quoteIdentifier(tempName), quoteIdentifier(table.name))
	if _, err = tx.ExecContext(ctx, renameSQL); err != nil {
		return errors.Wrap(err, "rename temporary table")
	}
	return nil
}

// migrateObjects synchronises indexes or triggers. Automatic indexes have NULL sql and are left alone.
func (db *Database) migrateObjects(ctx context.Context, tx *sql.Tx, objectType string) error {
	stale, err := queryStrings(ctx, tx, `SELECT cur.name
FROM main.sqlite_schema AS cur
LEFT JOIN schemaTarget.sqlite_schema AS tgt ON tgt.name = cur.name AND tgt.type = cur.type
WHERE cur.type = :type AND cur.sql IS NOT NULL AND (tgt.name IS NULL OR tgt.sql <> cur.sql)`,
		sql.Named("type", objectType))
	if err != nil {
		return errors.Wrap(err, "query stale objects")
	}
	for _, name := range stale {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping schema object",
			slog.String("type", objectType), slog.String("name", name))
		stmt := fmt.Sprintf("DROP %s %s", strings.ToUpper(objectType), quoteIdentifier(name))
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "drop object", slog.String("name", name))
		}
	}

	missing, err := queryStrings(ctx, tx, `SELECT tgt.sql
FROM schemaTarget.sqlite_schema AS tgt
LEFT JOIN main.sqlite_schema AS cur ON cur.name = tgt.name AND cur.type = tgt.type
WHERE tgt.type = :type AND tgt.sql IS NOT NULL AND cur.name IS NULL`,
		sql.Named("type", objectType))
	if err != nil {
		return errors.Wrap(err, "query missing objects")
	}
	for _, stmt := range missing {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating schema object",
			slog.String("type", objectType), slog.String("query", stmt))
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "create object", slog.String("query", stmt))
		}
	}
	return nil
}

// queryStrings returns the single string column of a query.
func queryStrings(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query")
	}
	defer func() { _ = rows.Close() }()

	var results []string
	for rows.Next() {
		var result string
		if err = rows.Scan(&result); err != nil {
			return nil, errors.Wrap(err, "scan")
		}
		results = append(results, result)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows")
	}
	return results, nil
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
