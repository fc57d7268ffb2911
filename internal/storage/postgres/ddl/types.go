// Package ddl contains the Postgres dialect for rendering DDL.
package ddl

import (
	"strconv"
	"strings"
)

// MapType normalizes a logical type into a Postgres SQL type.
//
//	"int"/"integer"/"bigint" -> BIGINT
//	"float"/"double"         -> DOUBLE PRECISION
//	"date"                   -> DATE
//	everything else          -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "float", "double":
		return "DOUBLE PRECISION"
	case "date":
		return "DATE"
	default:
		return "TEXT"
	}
}

// Dialect is the Postgres dialect.
var Dialect dialect

type dialect struct{}

// QuoteIdent quotes a single identifier segment, e.g. weird"name -> "weird""name".
func (dialect) QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func (dialect) MapType(kind string) string { return MapType(kind) }

func (dialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }
