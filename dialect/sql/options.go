package sql

import (
	"strconv"
	"strings"

	"github.com/syssam/crossdb/dialect"
)

// Order is one ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

// Asc and Desc build order terms.
func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Options tune a read statement. They are purely advisory: an absent
// option omits the corresponding SQL clause.
type Options struct {
	// Select limits the projected columns; empty means *.
	Select []string
	// OrderBy appends an ORDER BY clause.
	OrderBy []Order
	// Limit and Offset page the result. Zero values omit the clause;
	// pagination syntax follows the dialect (LIMIT/OFFSET vs OFFSET..FETCH).
	Limit  int
	Offset int
	// GroupBy and Having aggregate rows.
	GroupBy []string
	Having  Filter
	// Distinct deduplicates the projection.
	Distinct bool
}

// BuildSelect compiles a full SELECT statement for the table from a filter
// and options. The returned parameter list is ordered to match the
// placeholder numbering.
func BuildSelect(f dialect.Features, table string, filter Filter, opts *Options) (string, []any, error) {
	if opts == nil {
		opts = &Options{}
	}
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if opts.Distinct {
		sb.WriteString("DISTINCT ")
	}
	if len(opts.Select) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(f.QuoteAll(opts.Select))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(f.Quote(table))

	pred, args, err := CompileFilter(f, filter, 1)
	if err != nil {
		return "", nil, err
	}
	if pred != TruePredicate {
		sb.WriteString(" WHERE ")
		sb.WriteString(pred)
	}

	if len(opts.GroupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(f.QuoteAll(opts.GroupBy))
	}
	// HAVING is legal without GROUP BY when the projection aggregates.
	if len(opts.Having) > 0 {
		havingPred, havingArgs, err := CompileFilter(f, opts.Having, len(args)+1)
		if err != nil {
			return "", nil, err
		}
		if havingPred != TruePredicate {
			sb.WriteString(" HAVING ")
			sb.WriteString(havingPred)
			args = append(args, havingArgs...)
		}
	}

	writeOrderBy(&sb, f, opts)
	writePagination(&sb, f, opts)
	return sb.String(), args, nil
}

func writeOrderBy(sb *strings.Builder, f dialect.Features, opts *Options) {
	if len(opts.OrderBy) == 0 {
		// The OFFSET .. FETCH idiom is only legal after ORDER BY.
		if f.OffsetFetch && (opts.Limit > 0 || opts.Offset > 0) {
			sb.WriteString(" ORDER BY (SELECT NULL)")
		}
		return
	}
	sb.WriteString(" ORDER BY ")
	for i, o := range opts.OrderBy {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Quote(o.Column))
		if o.Desc {
			sb.WriteString(" DESC")
		}
	}
}

func writePagination(sb *strings.Builder, f dialect.Features, opts *Options) {
	if opts.Limit <= 0 && opts.Offset <= 0 {
		return
	}
	if f.OffsetFetch {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(opts.Offset))
		sb.WriteString(" ROWS")
		if opts.Limit > 0 {
			sb.WriteString(" FETCH NEXT ")
			sb.WriteString(strconv.Itoa(opts.Limit))
			sb.WriteString(" ROWS ONLY")
		}
		return
	}
	if opts.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(opts.Offset))
	}
}
