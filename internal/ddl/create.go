// Package ddl defines a small, backend-agnostic model for SQL DDL and renders
// CREATE TABLE and DROP TABLE statements from it.
//
// Dialect differences (identifier quoting and the mapping of logical column
// types to SQL types) are supplied by the backends through Dialect; see
// internal/storage/*/ddl.
package ddl

import (
	"fmt"
	"sort"
	"strings"
)

// Dialect supplies the backend-specific bits of DDL rendering.
type Dialect interface {
	// QuoteIdent quotes a single identifier segment.
	QuoteIdent(id string) string
	// MapType maps a logical type ("int", "float", "text", "date") to SQL.
	MapType(kind string) string
}

// QuoteFQN quotes every non-empty segment of a dotted name.
func QuoteFQN(d Dialect, fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, d.QuoteIdent(p))
	}
	return strings.Join(out, ".")
}

// BuildCreateTableSQL renders a CREATE TABLE statement.
//
// Rules:
//   - t.FQN must be non-empty and at least one column is required.
//   - Each column renders as: <name> <type> [NOT NULL] [DEFAULT <expr>].
//     The type is SQLType when set, else d.MapType(Type).
//   - Primary-key columns are always NOT NULL and are collected into a
//     trailing PRIMARY KEY clause, in declaration order.
//   - Foreign keys render as FOREIGN KEY (...) REFERENCES <table> (...),
//     sorted by column for determinism.
func BuildCreateTableSQL(d Dialect, t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1+len(t.ForeignKeys))
	pks := make([]string, 0, 1)

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			typ = d.MapType(c.Type)
		}
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s has no type", name)
		}

		var sb strings.Builder
		sb.WriteString(d.QuoteIdent(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable || c.PrimaryKey {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, d.QuoteIdent(name))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	fks := append([]ForeignKey(nil), t.ForeignKeys...)
	sort.Slice(fks, func(i, j int) bool { return fks[i].Column < fks[j].Column })
	for _, fk := range fks {
		if fk.Column == "" || fk.RefTable == "" || fk.RefColumn == "" {
			return "", fmt.Errorf("ddl: incomplete foreign key on table %s", fqn)
		}
		cols = append(cols, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
			d.QuoteIdent(fk.Column), QuoteFQN(d, fk.RefTable), d.QuoteIdent(fk.RefColumn)))
	}

	return fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n)",
		QuoteFQN(d, fqn),
		strings.Join(cols, ",\n  "),
	), nil
}

// BuildDropTableSQL renders DROP TABLE IF EXISTS for the table.
func BuildDropTableSQL(d Dialect, fqn string) (string, error) {
	if strings.TrimSpace(fqn) == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	return "DROP TABLE IF EXISTS " + QuoteFQN(d, fqn), nil
}
