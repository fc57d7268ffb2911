package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

// Load reads the process environment, so these tests use t.Setenv and are
// not parallel.

func TestLoad_YAMLWithDefaults(t *testing.T) {
	path := writeFile(t, "job.yaml", `
job: fleximart
sources:
  customers: { path: data/customers_raw.csv }
  products:  { path: data/products_raw.xlsx, options: { sheet: Products } }
  sales:
    path: data/sales_raw.csv
    options:
      header_map: { "Txn Date": transaction_date }
transform:
  sales:
    dedupe_keys: [transaction_id, product_id]
storage:
  kind: sqlite
  dsn: "file:etl.db"
lock:
  redis_addr: localhost:6379
  ttl: 5m
`)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fleximart", p.Job)
	assert.Equal(t, "file", p.Sources.Customers.Kind)
	assert.Equal(t, "data/products_raw.xlsx", p.Sources.Products.Path)
	assert.Equal(t, "Products", p.Sources.Products.Options.String("sheet", ""))
	assert.Equal(t, map[string]string{"txn date": "transaction_date"}, p.Sources.Sales.Options.StringMap("header_map"))
	assert.Equal(t, []string{"transaction_id", "product_id"}, p.Transform.Sales.DedupeKeys)
	assert.Equal(t, "sqlite", p.Storage.Kind)
	assert.Equal(t, "file", p.Report.Kind)
	assert.Equal(t, DefaultReportPath, p.Report.Path)
	assert.Equal(t, 5*time.Minute, p.Lock.TTL)
	assert.Equal(t, DefaultLockKey, p.Lock.Key)
	assert.True(t, p.Runtime.ParallelTransforms)
	assert.Empty(t, ValidatePipeline(p))
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "job.json", `{
	  "job": "fleximart",
	  "storage": { "kind": "postgres", "dsn": "postgresql://file" }
	}`)
	t.Setenv("ETL_STORAGE_DSN", "postgresql://env")
	t.Setenv("ETL_REPORT_FORMAT", "table")
	t.Setenv("ETL_SOURCES_SALES_PATH", "/in/sales.csv")

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgresql://env", p.Storage.DSN)
	assert.Equal(t, "table", p.Report.Format)
	assert.Equal(t, "/in/sales.csv", p.Sources.Sales.Path)
}

func TestLoad_LegacyDBVariables(t *testing.T) {
	t.Setenv("DB_USER", "etl")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "fleximart")

	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mysql", p.Storage.Kind)

	mc, err := mysql.ParseDSN(p.Storage.DSN)
	require.NoError(t, err)
	assert.Equal(t, "etl", mc.User)
	assert.Equal(t, "s3cret", mc.Passwd)
	assert.Equal(t, "db:3306", mc.Addr)
	assert.Equal(t, "fleximart", mc.DBName)
	assert.True(t, mc.ParseTime)
}

func TestApplyLegacyDB_RespectsExplicitStorage(t *testing.T) {
	env := map[string]string{"DB_HOST": "db", "DB_NAME": "x"}
	getenv := func(k string) string { return env[k] }

	p := Pipeline{Storage: Storage{Kind: "mysql", DSN: "given"}}
	applyLegacyDB(&p, getenv)
	assert.Equal(t, "given", p.Storage.DSN)

	p = Pipeline{Storage: Storage{Kind: "postgres"}}
	applyLegacyDB(&p, getenv)
	assert.Empty(t, p.Storage.DSN)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestLoad_SampleConfigs(t *testing.T) {
	for _, name := range []string{"fleximart.yaml", "fleximart-cloud.json"} {
		t.Run(name, func(t *testing.T) {
			p, err := Load(filepath.Join("..", "..", "configs", name))
			require.NoError(t, err)
			assert.Equal(t, "fleximart", p.Job)
			issues := ValidatePipeline(p)
			assert.False(t, HasErrors(issues), "issues: %+v", issues)
		})
	}

	p, err := Load(filepath.Join("..", "..", "configs", "fleximart-cloud.json"))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, p.Lock.TTL)
	assert.Equal(t, "xlsx", SourceFormat(p.Sources.Products))
	assert.Equal(t, "Products", p.Sources.Products.Options.String("sheet", ""))
	assert.Equal(t, 5, p.Sources.Sales.Options.Int("max_retries", 0))
	assert.Equal(t, []string{"transaction_id", "product_id"}, p.Transform.Sales.DedupeKeys)
}
