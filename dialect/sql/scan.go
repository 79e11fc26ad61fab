package sql

// ScanRows drains a ColumnScanner into ordered row maps. Column order is
// preserved only inside the driver; map keys carry the column names.
// Byte slices are copied because drivers may reuse their scan buffers
// between calls to Next.
func ScanRows(rows ColumnScanner) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				cp := make([]byte, len(b))
				copy(cp, b)
				row[col] = cp
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
