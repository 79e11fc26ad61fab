package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/syssam/crossdb"
	"github.com/syssam/crossdb/dialect"
	"github.com/syssam/crossdb/schema"
)

// Rowset is the normalized outcome of one executed statement. It is
// created per operation and owned by the caller thereafter; the core never
// mutates it after return.
type Rowset struct {
	// Rows holds the result rows in driver order.
	Rows []map[string]any
	// RowsAffected is the affected-row count of a write. Zero is a normal
	// caller-visible signal, not an error.
	RowsAffected int64
	// LastInsertID is the generated id of an insert, when the driver
	// reports one.
	LastInsertID int64
	// Raw is the unmodified driver result of a write, for callers needing
	// engine-specific detail.
	Raw Result
}

// First returns the first row, or nil.
func (r *Rowset) First() map[string]any {
	if r == nil || len(r.Rows) == 0 {
		return nil
	}
	return r.Rows[0]
}

// BulkOp is one sub-operation of a bulk write.
type BulkOp struct {
	// Kind is "insert", "update" or "delete".
	Kind string
	// Table is the target table.
	Table string
	// Values carries the row (insert) or the SET columns (update).
	Values map[string]any
	// Filter selects the affected rows for update and delete.
	Filter Filter
}

// BulkResult accumulates the outcome of a bulk write.
type BulkResult struct {
	// Applied is the number of sub-operations that completed.
	Applied int
	// RowsAffected is the summed affected-row count.
	RowsAffected int64
	// InsertIDs collects generated ids of the insert sub-operations, in
	// sequence order.
	InsertIDs []int64
}

// Database is the dialect-independent CRUD and DDL orchestrator. Statement
// compilation is pure and reentrant; only the delegated execution call
// suspends on I/O. All constituent statements of one call run sequentially
// in program order on the bound driver.
type Database struct {
	drv      dialect.Driver
	features dialect.Features
	pk       string
	cache    crossdb.Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*Database)

// WithPrimaryKey sets the column used for the re-query-by-id retrieval
// strategy. The default is "id".
func WithPrimaryKey(column string) DatabaseOption {
	return func(db *Database) { db.pk = column }
}

// WithCache attaches a result cache for read queries. Rows are stored
// msgpack-encoded under a per-table key prefix; any write to a table
// invalidates its cached reads. ttl 0 means no expiry.
func WithCache(c crossdb.Cache, ttl time.Duration) DatabaseOption {
	return func(db *Database) { db.cache, db.cacheTTL = c, ttl }
}

// WithLogger sets the structured logger. The default discards nothing and
// logs to slog.Default.
func WithLogger(l *slog.Logger) DatabaseOption {
	return func(db *Database) { db.log = l }
}

// NewDatabase binds an orchestrator to a driver. The dialect's feature set
// is selected once here, not per call.
func NewDatabase(drv dialect.Driver, opts ...DatabaseOption) *Database {
	db := &Database{drv: drv, pk: "id", log: slog.Default()}
	if drv != nil {
		db.features = dialect.FeaturesFor(drv.Dialect())
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Driver returns the bound driver.
func (db *Database) Driver() dialect.Driver { return db.drv }

// Dialect returns the dialect identifier of the bound driver.
func (db *Database) Dialect() string { return db.features.Name }

// IsConnected probes connectivity of the bound driver.
func (db *Database) IsConnected(ctx context.Context) bool {
	if db.drv == nil {
		return false
	}
	if p, ok := db.drv.(dialect.Pinger); ok {
		return p.Ping(ctx) == nil
	}
	return true
}

// ensureConnected fails fast before any SQL is built.
func (db *Database) ensureConnected(ctx context.Context) error {
	if !db.IsConnected(ctx) {
		return crossdb.ErrNotConnected
	}
	return nil
}

// InsertOne inserts a single row and returns the stored row using the
// dialect's insert-result-retrieval strategy: the statement's own
// returning clause where supported, a follow-up point lookup by the
// reported generated id, or a lookup of the most recently inserted
// physical row when the engine reports nothing.
func (db *Database) InsertOne(ctx context.Context, table string, values map[string]any) (*Rowset, error) {
	if err := db.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, crossdb.NewCompileError("insert into %s with no values", table)
	}
	columns, args := db.columnValues(values)
	f := db.features

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(f.Quote(table))
	sb.WriteString(" (")
	sb.WriteString(f.QuoteAll(columns))
	sb.WriteString(")")
	if f.Name == dialect.SQLServer {
		sb.WriteString(" OUTPUT INSERTED.*")
	}
	sb.WriteString(" VALUES (")
	sb.WriteString(f.Placeholders(1, len(args)))
	sb.WriteString(")")

	switch f.InsertRetrieval {
	case dialect.RetrievalReturning:
		if f.Name != dialect.SQLServer {
			sb.WriteString(" RETURNING *")
		}
		rows, err := db.queryRows(ctx, "insert", sb.String(), args)
		if err != nil {
			return nil, err
		}
		db.invalidate(ctx, table)
		return &Rowset{Rows: rows, RowsAffected: int64(len(rows))}, nil

	case dialect.RetrievalLastInsertID:
		res, err := db.exec(ctx, "insert", sb.String(), args)
		if err != nil {
			return nil, err
		}
		out := &Rowset{Raw: res}
		out.RowsAffected, _ = res.RowsAffected()
		out.LastInsertID, _ = res.LastInsertId()
		db.invalidate(ctx, table)
		if out.LastInsertID > 0 {
			lookup := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s",
				f.Quote(table), f.Quote(db.pk), f.PlaceholderToken(1))
			rows, err := db.queryRows(ctx, "insert lookup", lookup, []any{out.LastInsertID})
			if err != nil {
				return nil, err
			}
			out.Rows = rows
		}
		return out, nil

	default: // dialect.RetrievalMaxRowID
		res, err := db.exec(ctx, "insert", sb.String(), args)
		if err != nil {
			return nil, err
		}
		out := &Rowset{Raw: res}
		out.RowsAffected, _ = res.RowsAffected()
		db.invalidate(ctx, table)
		lookup := fmt.Sprintf("SELECT * FROM %s WHERE ROWID = (SELECT MAX(ROWID) FROM %s)",
			f.Quote(table), f.Quote(table))
		rows, err := db.queryRows(ctx, "insert lookup", lookup, nil)
		if err != nil {
			return nil, err
		}
		out.Rows = rows
		return out, nil
	}
}

// InsertMany inserts rows one at a time, in caller order, and preserves
// that order in the returned rowset. There is no concurrent fan-out.
func (db *Database) InsertMany(ctx context.Context, table string, rows []map[string]any) (*Rowset, error) {
	if err := db.ensureConnected(ctx); err != nil {
		return nil, err
	}
	out := &Rowset{}
	for i, values := range rows {
		res, err := db.InsertOne(ctx, table, values)
		if err != nil {
			return out, &crossdb.BulkError{Index: i, Err: err}
		}
		out.Rows = append(out.Rows, res.Rows...)
		out.RowsAffected += res.RowsAffected
		out.LastInsertID = res.LastInsertID
	}
	return out, nil
}

// Find returns the rows matching the filter, shaped by the options.
func (db *Database) Find(ctx context.Context, table string, filter Filter, opts *Options) (*Rowset, error) {
	if err := db.ensureConnected(ctx); err != nil {
		return nil, err
	}
	stmt, args, err := BuildSelect(db.features, table, filter, opts)
	if err != nil {
		return nil, err
	}
	if rows, ok := db.cachedRows(ctx, table, stmt, args); ok {
		return &Rowset{Rows: rows}, nil
	}
	rows, err := db.queryRows(ctx, "find", stmt, args)
	if err != nil {
		return nil, err
	}
	db.storeRows(ctx, table, stmt, args, rows)
	return &Rowset{Rows: rows}, nil
}

// FindOne returns the first matching row, or nil when nothing matches.
// Zero rows is a normal result, not an error.
func (db *Database) FindOne(ctx context.Context, table string, filter Filter, opts *Options) (map[string]any, error) {
	o := Options{Limit: 1}
	if opts != nil {
		o = *opts
		o.Limit = 1
	}
	res, err := db.Find(ctx, table, filter, &o)
	if err != nil {
		return nil, err
	}
	return res.First(), nil
}

// Count returns the number of rows matching the filter.
func (db *Database) Count(ctx context.Context, table string, filter Filter) (int64, error) {
	if err := db.ensureConnected(ctx); err != nil {
		return 0, err
	}
	f := db.features
	pred, args, err := CompileFilter(f, filter, 1)
	if err != nil {
		return 0, err
	}
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s", f.Quote(table))
	if pred != TruePredicate {
		stmt += " WHERE " + pred
	}
	rows, err := db.queryRows(ctx, "count", stmt, args)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	for _, v := range rows[0] {
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case []byte:
			// mysql's text protocol delivers unbound-arg results as bytes.
			return strconv.ParseInt(string(n), 10, 64)
		case string:
			return strconv.ParseInt(n, 10, 64)
		}
	}
	return 0, nil
}

// Update applies the SET columns to every row matching the filter and
// returns the affected count. The filter's placeholders continue the SET
// clause's index sequence, so sequentially-numbered dialects stay aligned.
func (db *Database) Update(ctx context.Context, table string, filter Filter, values map[string]any) (*Rowset, error) {
	if err := db.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, crossdb.NewCompileError("update %s with no values", table)
	}
	f := db.features
	columns, args := db.columnValues(values)

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(f.Quote(table))
	sb.WriteString(" SET ")
	for i, col := range columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Quote(col))
		sb.WriteString(" = ")
		sb.WriteString(f.PlaceholderToken(i + 1))
	}
	// WHERE parameters continue after the SET parameters; restarting at 1
	// here is the classic off-by-one corruption on $N/:N dialects.
	pred, whereArgs, err := CompileFilter(f, filter, len(args)+1)
	if err != nil {
		return nil, err
	}
	if pred != TruePredicate {
		sb.WriteString(" WHERE ")
		sb.WriteString(pred)
	}
	res, err := db.exec(ctx, "update", sb.String(), append(args, whereArgs...))
	if err != nil {
		return nil, err
	}
	db.invalidate(ctx, table)
	out := &Rowset{Raw: res}
	out.RowsAffected, _ = res.RowsAffected()
	return out, nil
}

// Delete removes every row matching the filter and returns the affected
// count. Zero affected rows is a caller-visible signal, not an error.
func (db *Database) Delete(ctx context.Context, table string, filter Filter) (*Rowset, error) {
	if err := db.ensureConnected(ctx); err != nil {
		return nil, err
	}
	f := db.features
	pred, args, err := CompileFilter(f, filter, 1)
	if err != nil {
		return nil, err
	}
	stmt := fmt.Sprintf("DELETE FROM %s", f.Quote(table))
	if pred != TruePredicate {
		stmt += " WHERE " + pred
	}
	res, err := db.exec(ctx, "delete", stmt, args)
	if err != nil {
		return nil, err
	}
	db.invalidate(ctx, table)
	out := &Rowset{Raw: res}
	out.RowsAffected, _ = res.RowsAffected()
	return out, nil
}

// Upsert looks the row up by the filter and either updates it or inserts
// the union of the bare filter fields and the data fields.
//
// This is a read-then-write composite, not an atomic statement: a
// concurrent writer between the lookup and the write can race. Callers
// needing atomicity must use an engine-native upsert, which this layer
// does not provide.
func (db *Database) Upsert(ctx context.Context, table string, filter Filter, values map[string]any) (*Rowset, error) {
	if err := db.ensureConnected(ctx); err != nil {
		return nil, err
	}
	existing, err := db.FindOne(ctx, table, filter, nil)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		res, err := db.Update(ctx, table, filter, values)
		if err != nil {
			return nil, err
		}
		merged := make(map[string]any, len(existing)+len(values))
		for k, v := range existing {
			merged[k] = v
		}
		for k, v := range values {
			merged[k] = v
		}
		res.Rows = []map[string]any{merged}
		return res, nil
	}
	row := make(map[string]any, len(filter)+len(values))
	for k, v := range filter {
		// Only bare equality fields contribute insertable values;
		// operator maps and combinators do not name a column value.
		if strings.HasPrefix(k, "$") {
			continue
		}
		if _, isOp := operatorMap(v); isOp {
			continue
		}
		row[k] = v
	}
	for k, v := range values {
		row[k] = v
	}
	return db.InsertOne(ctx, table, row)
}

// BulkWrite executes a heterogeneous ordered sequence of insert, update
// and delete sub-operations one at a time. It is not a transactional
// batch: a mid-sequence failure leaves the already-applied side effects in
// place and surfaces a BulkError carrying the failing position, together
// with the partial result. Callers needing all-or-nothing semantics wrap
// the call in a transaction via Tx.
func (db *Database) BulkWrite(ctx context.Context, ops []BulkOp) (*BulkResult, error) {
	if err := db.ensureConnected(ctx); err != nil {
		return nil, err
	}
	out := &BulkResult{}
	for i, op := range ops {
		var (
			res *Rowset
			err error
		)
		switch op.Kind {
		case "insert":
			res, err = db.InsertOne(ctx, op.Table, op.Values)
			if err == nil {
				out.InsertIDs = append(out.InsertIDs, res.LastInsertID)
			}
		case "update":
			res, err = db.Update(ctx, op.Table, op.Filter, op.Values)
		case "delete":
			res, err = db.Delete(ctx, op.Table, op.Filter)
		default:
			err = crossdb.NewCompileError("unknown bulk operation %q", op.Kind)
		}
		if err != nil {
			return out, &crossdb.BulkError{Index: i, Err: err}
		}
		out.Applied++
		out.RowsAffected += res.RowsAffected
	}
	return out, nil
}

// CreateTable compiles and executes the dialect's CREATE TABLE statements
// for the definition, including any sequence/trigger provisioning.
func (db *Database) CreateTable(ctx context.Context, def *schema.Definition) error {
	if err := db.ensureConnected(ctx); err != nil {
		return err
	}
	stmts, err := BuildCreateTable(db.features, def)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := db.exec(ctx, "create table", stmt, nil); err != nil {
			return err
		}
	}
	return nil
}

// AddColumn compiles and executes an ALTER TABLE .. ADD for one field.
func (db *Database) AddColumn(ctx context.Context, table string, field schema.Field) error {
	if err := db.ensureConnected(ctx); err != nil {
		return err
	}
	stmt, err := BuildAddColumn(db.features, table, field)
	if err != nil {
		return err
	}
	_, err = db.exec(ctx, "add column", stmt, nil)
	return err
}

// DropTable drops the table.
func (db *Database) DropTable(ctx context.Context, table string, ifExists bool) error {
	if err := db.ensureConnected(ctx); err != nil {
		return err
	}
	_, err := db.exec(ctx, "drop table", BuildDropTable(db.features, table, ifExists), nil)
	if err == nil {
		db.invalidate(ctx, table)
	}
	return err
}

// CreateIndex creates an index over the columns.
func (db *Database) CreateIndex(ctx context.Context, table, name string, unique bool, columns ...string) error {
	if err := db.ensureConnected(ctx); err != nil {
		return err
	}
	_, err := db.exec(ctx, "create index", BuildCreateIndex(db.features, table, name, unique, columns...), nil)
	return err
}

// Tx starts a transaction on the bound driver.
func (db *Database) Tx(ctx context.Context) (dialect.Tx, error) {
	if err := db.ensureConnected(ctx); err != nil {
		return nil, err
	}
	return db.drv.Tx(ctx)
}

// columnValues splits a value map into sorted column names and the
// matching coerced values. Sorting keeps compiled statements
// deterministic.
func (db *Database) columnValues(values map[string]any) ([]string, []any) {
	columns := make([]string, 0, len(values))
	for col := range values {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	args := make([]any, len(columns))
	for i, col := range columns {
		args[i] = Coerce(db.features, values[col])
	}
	return columns, args
}

// exec runs a write statement and wraps engine failures with dialect
// context. No automatic retry.
func (db *Database) exec(ctx context.Context, op, stmt string, args []any) (Result, error) {
	if args == nil {
		args = []any{}
	}
	var res Result
	if err := db.drv.Exec(ctx, stmt, args, &res); err != nil {
		return nil, crossdb.NewExecError(db.features.Name, op, err)
	}
	return res, nil
}

// queryRows runs a read statement and scans all rows.
func (db *Database) queryRows(ctx context.Context, op, stmt string, args []any) ([]map[string]any, error) {
	if args == nil {
		args = []any{}
	}
	var rows Rows
	if err := db.drv.Query(ctx, stmt, args, &rows); err != nil {
		return nil, crossdb.NewExecError(db.features.Name, op, err)
	}
	defer rows.Close()
	out, err := ScanRows(rows)
	if err != nil {
		return nil, crossdb.NewExecError(db.features.Name, op, err)
	}
	return out, nil
}

// cachedRows consults the result cache.
func (db *Database) cachedRows(ctx context.Context, table, stmt string, args []any) ([]map[string]any, bool) {
	if db.cache == nil {
		return nil, false
	}
	key := db.cacheKey(table, stmt, args)
	data, err := db.cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil, false
	}
	rows, err := crossdb.DecodeRows(data)
	if err != nil {
		db.log.Warn("crossdb: dropping undecodable cache entry", "key", key, "err", err)
		_ = db.cache.Delete(ctx, key)
		return nil, false
	}
	return rows, true
}

// storeRows populates the result cache.
func (db *Database) storeRows(ctx context.Context, table, stmt string, args []any, rows []map[string]any) {
	if db.cache == nil {
		return
	}
	data, err := crossdb.EncodeRows(rows)
	if err != nil {
		return
	}
	if err := db.cache.Set(ctx, db.cacheKey(table, stmt, args), data, db.cacheTTL); err != nil {
		db.log.Warn("crossdb: cache store failed", "table", table, "err", err)
	}
}

// invalidate drops every cached read of the table after a write.
func (db *Database) invalidate(ctx context.Context, table string) {
	if db.cache == nil {
		return
	}
	if err := db.cache.DeletePrefix(ctx, table+":"); err != nil {
		db.log.Warn("crossdb: cache invalidation failed", "table", table, "err", err)
	}
}

func (db *Database) cacheKey(table, stmt string, args []any) string {
	return crossdb.CacheKey{Table: table, Statement: stmt, Args: fmt.Sprint(args...)}.String()
}
