package dialect

import (
	"strconv"
	"strings"
)

// PlaceholderStyle selects the parameter marker syntax of a dialect.
type PlaceholderStyle int

const (
	// PlaceholderQuestion is the positional unnamed `?` marker.
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar is the 1-based sequential `$N` marker.
	PlaceholderDollar
	// PlaceholderColon is the 1-based sequential `:N` marker.
	PlaceholderColon
	// PlaceholderAtP is the 1-based sequential `@pN` marker.
	PlaceholderAtP
)

// InsertRetrieval selects how the full row produced by an INSERT is
// obtained when the caller asks for it. The choice is fixed per dialect,
// never per call.
type InsertRetrieval int

const (
	// RetrievalReturning means the insert statement itself returns the row
	// (RETURNING or OUTPUT clause).
	RetrievalReturning InsertRetrieval = iota
	// RetrievalLastInsertID means the driver reports the generated id and a
	// follow-up point lookup by primary key retrieves the row.
	RetrievalLastInsertID
	// RetrievalMaxRowID means no generated-id reporting exists and the most
	// recently inserted physical row is looked up by its maximal rowid.
	RetrievalMaxRowID
)

// AutoIncrementStyle selects the column idiom used for auto-incremented
// primary keys.
type AutoIncrementStyle int

const (
	// AutoIncrementSerial uses a serial pseudo-type (SERIAL / BIGSERIAL).
	AutoIncrementSerial AutoIncrementStyle = iota
	// AutoIncrementModifier appends an AUTO_INCREMENT column modifier.
	AutoIncrementModifier
	// AutoIncrementIntegerPK uses the INTEGER PRIMARY KEY AUTOINCREMENT idiom.
	AutoIncrementIntegerPK
	// AutoIncrementIdentity appends an IDENTITY(1,1) column modifier.
	AutoIncrementIdentity
	// AutoIncrementSequence provisions a sequence object plus a before-insert
	// trigger that populates the column when null.
	AutoIncrementSequence
)

// RegexSyntax selects how a regular-expression match predicate is spelled.
type RegexSyntax int

const (
	// RegexUnsupported means the dialect has no regex predicate.
	RegexUnsupported RegexSyntax = iota
	// RegexTilde emits `column ~ value`.
	RegexTilde
	// RegexKeyword emits `column REGEXP value`.
	RegexKeyword
	// RegexFunction emits `REGEXP_LIKE(column, value)`.
	RegexFunction
)

// Features describes one dialect's syntax and capability set. A Features
// value is selected once per adapter instance and consulted by every
// compilation step, replacing scattered per-dialect conditionals.
type Features struct {
	// Name is the dialect identifier.
	Name string
	// QuoteOpen and QuoteClose delimit identifiers. The closing delimiter is
	// escaped by doubling when it appears inside an identifier.
	QuoteOpen  string
	QuoteClose string
	// Placeholder is the parameter marker style.
	Placeholder PlaceholderStyle
	// InsertRetrieval is the insert-result-retrieval strategy.
	InsertRetrieval InsertRetrieval
	// AutoIncrement is the auto-increment column idiom.
	AutoIncrement AutoIncrementStyle
	// Regex is the regular-expression predicate syntax.
	Regex RegexSyntax
	// NativeBool reports whether the engine has a true boolean type.
	NativeBool bool
	// NativeJSON reports whether the engine has a native (binary) JSON type.
	NativeJSON bool
	// NativeILike reports whether the engine supports ILIKE directly. Dialects
	// without it fold both operands with LOWER().
	NativeILike bool
	// OffsetFetch reports whether pagination uses the OFFSET .. FETCH idiom
	// instead of LIMIT/OFFSET.
	OffsetFetch bool
	// TimeAsText reports whether temporal values are bound as ISO-8601 text
	// instead of relying on the driver's own conversion.
	TimeAsText bool
}

var features = map[string]Features{
	Postgres: {
		Name:            Postgres,
		QuoteOpen:       `"`,
		QuoteClose:      `"`,
		Placeholder:     PlaceholderDollar,
		InsertRetrieval: RetrievalReturning,
		AutoIncrement:   AutoIncrementSerial,
		Regex:           RegexTilde,
		NativeBool:      true,
		NativeJSON:      true,
		NativeILike:     true,
	},
	MySQL: {
		Name:            MySQL,
		QuoteOpen:       "`",
		QuoteClose:      "`",
		Placeholder:     PlaceholderQuestion,
		InsertRetrieval: RetrievalLastInsertID,
		AutoIncrement:   AutoIncrementModifier,
		Regex:           RegexKeyword,
		NativeJSON:      true,
	},
	MariaDB: {
		Name:            MariaDB,
		QuoteOpen:       "`",
		QuoteClose:      "`",
		Placeholder:     PlaceholderQuestion,
		InsertRetrieval: RetrievalLastInsertID,
		AutoIncrement:   AutoIncrementModifier,
		Regex:           RegexKeyword,
	},
	SQLite: {
		Name:            SQLite,
		QuoteOpen:       `"`,
		QuoteClose:      `"`,
		Placeholder:     PlaceholderQuestion,
		InsertRetrieval: RetrievalLastInsertID,
		AutoIncrement:   AutoIncrementIntegerPK,
		Regex:           RegexKeyword,
		TimeAsText:      true,
	},
	Oracle: {
		Name:            Oracle,
		QuoteOpen:       `"`,
		QuoteClose:      `"`,
		Placeholder:     PlaceholderColon,
		InsertRetrieval: RetrievalMaxRowID,
		AutoIncrement:   AutoIncrementSequence,
		Regex:           RegexFunction,
		OffsetFetch:     true,
		TimeAsText:      true,
	},
	SQLServer: {
		Name:            SQLServer,
		QuoteOpen:       "[",
		QuoteClose:      "]",
		Placeholder:     PlaceholderAtP,
		InsertRetrieval: RetrievalReturning,
		AutoIncrement:   AutoIncrementIdentity,
		Regex:           RegexUnsupported,
		OffsetFetch:     true,
	},
}

// FeaturesFor returns the feature set of the named dialect. Unknown names
// fall back to the MySQL feature set, whose `?` markers and backtick-free
// ANSI subset are the least surprising defaults.
func FeaturesFor(name string) Features {
	if f, ok := features[name]; ok {
		return f
	}
	f := features[MySQL]
	f.Name = name
	f.QuoteOpen, f.QuoteClose = `"`, `"`
	return f
}

// Quote quotes a single identifier using the dialect's delimiters. An
// identifier that already carries the dialect's delimiters is returned
// unchanged, and qualified names (schema.table) are quoted per part.
// The output is deterministic: quoting the same input always yields the
// same result.
func (f Features) Quote(ident string) string {
	if ident == "" || ident == "*" {
		return ident
	}
	if strings.HasPrefix(ident, f.QuoteOpen) && strings.HasSuffix(ident, f.QuoteClose) {
		return ident
	}
	if strings.Contains(ident, ".") {
		parts := strings.Split(ident, ".")
		for i, p := range parts {
			parts[i] = f.Quote(p)
		}
		return strings.Join(parts, ".")
	}
	escaped := strings.ReplaceAll(ident, f.QuoteClose, f.QuoteClose+f.QuoteClose)
	return f.QuoteOpen + escaped + f.QuoteClose
}

// QuoteAll quotes every identifier in idents and returns them joined
// with ", ".
func (f Features) QuoteAll(idents []string) string {
	quoted := make([]string, len(idents))
	for i, id := range idents {
		quoted[i] = f.Quote(id)
	}
	return strings.Join(quoted, ", ")
}

// Placeholder returns the parameter marker for the 1-based position n.
// Within a single compiled statement the same logical position always
// receives the same token text.
func (f Features) PlaceholderToken(n int) string {
	switch f.Placeholder {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(n)
	case PlaceholderColon:
		return ":" + strconv.Itoa(n)
	case PlaceholderAtP:
		return "@p" + strconv.Itoa(n)
	default:
		return "?"
	}
}

// Placeholders returns count markers starting at the 1-based position
// start, joined with ", ". It is the building block for VALUES lists.
func (f Features) Placeholders(start, count int) string {
	if count <= 0 {
		return ""
	}
	tokens := make([]string, count)
	for i := 0; i < count; i++ {
		tokens[i] = f.PlaceholderToken(start + i)
	}
	return strings.Join(tokens, ", ")
}
