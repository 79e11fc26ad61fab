package sql

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/crossdb/dialect"
)

// ColumnInfo describes one column reported by the engine's catalog.
type ColumnInfo struct {
	Name       string
	Type       string
	Nullable   bool
	Default    any
	PrimaryKey bool
}

// TableInfo describes one table reported by the engine's catalog.
type TableInfo struct {
	Name    string
	Columns []ColumnInfo
}

// Column returns the named column.
func (t *TableInfo) Column(name string) (ColumnInfo, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

// TableExists reports whether the table exists, regardless of how the
// dialect's catalog is queried internally.
func (db *Database) TableExists(ctx context.Context, table string) (bool, error) {
	if err := db.ensureConnected(ctx); err != nil {
		return false, err
	}
	f := db.features
	var stmt string
	args := []any{table}
	switch f.Name {
	case dialect.SQLite:
		stmt = "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?"
	case dialect.Oracle:
		stmt = "SELECT table_name FROM user_tables WHERE table_name = :1"
		args = []any{strings.ToUpper(table)}
	default:
		stmt = fmt.Sprintf(
			"SELECT table_name FROM information_schema.tables WHERE table_name = %s",
			f.PlaceholderToken(1),
		)
	}
	rows, err := db.queryRows(ctx, "table exists", stmt, args)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// GetTableInfo returns the column catalog of the table, or nil when the
// table does not exist.
func (db *Database) GetTableInfo(ctx context.Context, table string) (*TableInfo, error) {
	if err := db.ensureConnected(ctx); err != nil {
		return nil, err
	}
	switch db.features.Name {
	case dialect.SQLite:
		return db.tableInfoSQLite(ctx, table)
	case dialect.Oracle:
		return db.tableInfoOracle(ctx, table)
	default:
		return db.tableInfoStandard(ctx, table)
	}
}

// tableInfoSQLite reads PRAGMA table_info, which reports the primary key
// flag directly.
func (db *Database) tableInfoSQLite(ctx context.Context, table string) (*TableInfo, error) {
	stmt := fmt.Sprintf("PRAGMA table_info(%s)", db.features.Quote(table))
	rows, err := db.queryRows(ctx, "table info", stmt, nil)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	info := &TableInfo{Name: table}
	for _, row := range rows {
		info.Columns = append(info.Columns, ColumnInfo{
			Name:       asString(row["name"]),
			Type:       asString(row["type"]),
			Nullable:   !truthy(row["notnull"]),
			Default:    row["dflt_value"],
			PrimaryKey: truthy(row["pk"]),
		})
	}
	return info, nil
}

// tableInfoOracle reads the user_tab_columns and user_cons_columns views.
func (db *Database) tableInfoOracle(ctx context.Context, table string) (*TableInfo, error) {
	f := db.features
	upper := strings.ToUpper(table)
	stmt := "SELECT column_name, data_type, nullable, data_default FROM user_tab_columns WHERE table_name = :1 ORDER BY column_id"
	rows, err := db.queryRows(ctx, "table info", stmt, []any{upper})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	pks, err := db.primaryKeySet(ctx,
		"SELECT cols.column_name FROM user_constraints cons JOIN user_cons_columns cols ON cons.constraint_name = cols.constraint_name WHERE cons.constraint_type = 'P' AND cons.table_name = "+f.PlaceholderToken(1),
		[]any{upper})
	if err != nil {
		return nil, err
	}
	info := &TableInfo{Name: table}
	for _, row := range rows {
		name := asString(row["COLUMN_NAME"])
		if name == "" {
			name = asString(row["column_name"])
		}
		typ := asString(row["DATA_TYPE"])
		if typ == "" {
			typ = asString(row["data_type"])
		}
		nullable := asString(row["NULLABLE"])
		if nullable == "" {
			nullable = asString(row["nullable"])
		}
		def := row["DATA_DEFAULT"]
		if def == nil {
			def = row["data_default"]
		}
		info.Columns = append(info.Columns, ColumnInfo{
			Name:       name,
			Type:       typ,
			Nullable:   nullable != "N",
			Default:    def,
			PrimaryKey: pks[name],
		})
	}
	return info, nil
}

// tableInfoStandard reads information_schema.columns plus the primary-key
// constraint columns.
func (db *Database) tableInfoStandard(ctx context.Context, table string) (*TableInfo, error) {
	f := db.features
	stmt := fmt.Sprintf(
		"SELECT column_name, data_type, is_nullable, column_default FROM information_schema.columns WHERE table_name = %s ORDER BY ordinal_position",
		f.PlaceholderToken(1),
	)
	rows, err := db.queryRows(ctx, "table info", stmt, []any{table})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	pks, err := db.primaryKeySet(ctx, fmt.Sprintf(
		"SELECT kcu.column_name FROM information_schema.table_constraints tc JOIN information_schema.key_column_usage kcu ON tc.constraint_name = kcu.constraint_name WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_name = %s",
		f.PlaceholderToken(1),
	), []any{table})
	if err != nil {
		return nil, err
	}
	info := &TableInfo{Name: table}
	for _, row := range rows {
		name := asString(row["column_name"])
		info.Columns = append(info.Columns, ColumnInfo{
			Name:       name,
			Type:       asString(row["data_type"]),
			Nullable:   strings.EqualFold(asString(row["is_nullable"]), "YES"),
			Default:    row["column_default"],
			PrimaryKey: pks[name],
		})
	}
	return info, nil
}

func (db *Database) primaryKeySet(ctx context.Context, stmt string, args []any) (map[string]bool, error) {
	rows, err := db.queryRows(ctx, "table info", stmt, args)
	if err != nil {
		return nil, err
	}
	pks := make(map[string]bool, len(rows))
	for _, row := range rows {
		for _, v := range row {
			if s := asString(v); s != "" {
				pks[s] = true
			}
		}
	}
	return pks, nil
}

// IntrospectTables fetches the catalog of several tables concurrently.
// Catalog reads are independent of each other, so the per-call ordering
// guarantee of write operations does not apply; results are keyed by table
// name. Tables that do not exist are omitted.
func (db *Database) IntrospectTables(ctx context.Context, tables ...string) (map[string]*TableInfo, error) {
	if err := db.ensureConnected(ctx); err != nil {
		return nil, err
	}
	var (
		mu  sync.Mutex
		out = make(map[string]*TableInfo, len(tables))
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, table := range tables {
		g.Go(func() error {
			info, err := db.GetTableInfo(ctx, table)
			if err != nil {
				return err
			}
			if info != nil {
				mu.Lock()
				out[table] = info
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func asString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

func truthy(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case []byte:
		return len(v) > 0 && v[0] != '0'
	case string:
		return v != "" && v != "0"
	}
	return false
}
