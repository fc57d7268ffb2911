package ddl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDialect quotes with double quotes and upper-cases logical types.
type testDialect struct{}

func (testDialect) QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func (testDialect) MapType(kind string) string { return strings.ToUpper(kind) }

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	def := TableDef{
		FQN: "shop.orders",
		Columns: []ColumnDef{
			{Name: "order_id", Type: "int", PrimaryKey: true},
			{Name: "customer_id", Type: "int"},
			{Name: "status", Type: "text", Nullable: true, Default: "'Pending'"},
			{Name: "total_amount", SQLType: "DECIMAL(12,2)"},
		},
		ForeignKeys: []ForeignKey{{Column: "customer_id", RefTable: "shop.customers", RefColumn: "customer_id"}},
	}

	got, err := BuildCreateTableSQL(testDialect{}, def)

	require.NoError(t, err)
	want := `CREATE TABLE "shop"."orders" (
  "order_id" INT NOT NULL,
  "customer_id" INT NOT NULL,
  "status" TEXT DEFAULT 'Pending',
  "total_amount" DECIMAL(12,2) NOT NULL,
  PRIMARY KEY ("order_id"),
  FOREIGN KEY ("customer_id") REFERENCES "shop"."customers" ("customer_id")
)`
	assert.Equal(t, want, got)
}

func TestBuildCreateTableSQL_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]TableDef{
		"empty fqn":  {Columns: []ColumnDef{{Name: "a", Type: "int"}}},
		"no columns": {FQN: "t"},
		"empty name": {FQN: "t", Columns: []ColumnDef{{Type: "int"}}},
		"no type":    {FQN: "t", Columns: []ColumnDef{{Name: "a"}}},
		"partial fk": {FQN: "t", Columns: []ColumnDef{{Name: "a", Type: "int"}}, ForeignKeys: []ForeignKey{{Column: "a"}}},
	}
	for name, def := range cases {
		_, err := BuildCreateTableSQL(testDialect{}, def)
		assert.Error(t, err, name)
	}
}

func TestBuildDropTableSQL(t *testing.T) {
	t.Parallel()

	got, err := BuildDropTableSQL(testDialect{}, "order_items")
	require.NoError(t, err)
	assert.Equal(t, `DROP TABLE IF EXISTS "order_items"`, got)

	_, err = BuildDropTableSQL(testDialect{}, " ")
	assert.Error(t, err)
}

func TestTableDef_ColumnNames(t *testing.T) {
	t.Parallel()

	def := TableDef{Columns: []ColumnDef{{Name: "a"}, {Name: "b"}}}
	assert.Equal(t, []string{"a", "b"}, def.ColumnNames())

	c, ok := def.Column("b")
	assert.True(t, ok)
	assert.Equal(t, "b", c.Name)
	_, ok = def.Column("z")
	assert.False(t, ok)
}
