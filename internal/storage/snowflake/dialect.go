package snowflake

import "strings"

// Dialect is the Snowflake dialect. Identifiers are quoted, which makes them
// case-sensitive; the destination tables use lower-case names throughout.
var Dialect dialect

type dialect struct{}

func (dialect) QuoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// MapType maps a logical column type to a Snowflake type.
func (dialect) MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "NUMBER(38,0)"
	case "float", "double":
		return "FLOAT"
	case "date":
		return "DATE"
	default:
		return "VARCHAR"
	}
}

func (dialect) Placeholder(int) string { return "?" }
