// Package ddl contains the SQLite dialect used to render DDL and bind
// placeholders for the destination tables.
package ddl

import "strings"

// MapType maps a logical column type to a SQLite type affinity:
//   - int   -> INTEGER
//   - float -> REAL
//   - date  -> TEXT (ISO-8601 strings compare and sort correctly)
//   - other -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "INTEGER"
	case "float", "double", "real":
		return "REAL"
	default:
		return "TEXT"
	}
}

// Dialect is the SQLite dialect.
var Dialect dialect

type dialect struct{}

func (dialect) QuoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
func (dialect) MapType(kind string) string  { return MapType(kind) }
func (dialect) Placeholder(int) string      { return "?" }
