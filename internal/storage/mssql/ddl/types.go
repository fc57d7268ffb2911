// Package ddl contains the SQL Server dialect for rendering DDL.
package ddl

import (
	"strconv"
	"strings"
)

// MapType maps a logical type into a SQL Server column type. Unknown or empty
// kinds fall back to NVARCHAR(MAX).
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "float", "double":
		return "FLOAT"
	case "date":
		return "DATE"
	default:
		return "NVARCHAR(MAX)"
	}
}

// Dialect is the SQL Server dialect. DROP TABLE IF EXISTS needs SQL Server
// 2016 or later.
var Dialect dialect

type dialect struct{}

// QuoteIdent brackets an identifier, escaping "]" as "]]".
func (dialect) QuoteIdent(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }

func (dialect) MapType(kind string) string { return MapType(kind) }

func (dialect) Placeholder(n int) string { return "@p" + strconv.Itoa(n) }
