package mysql

import "strings"

// Dialect is the MySQL dialect.
var Dialect dialect

type dialect struct{}

// QuoteIdent backtick-quotes an identifier, doubling embedded backticks.
func (dialect) QuoteIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// MapType maps a logical column type to a MySQL type.
func (dialect) MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "float", "double":
		return "DOUBLE"
	case "date":
		return "DATE"
	default:
		return "VARCHAR(255)"
	}
}

func (dialect) Placeholder(int) string { return "?" }
