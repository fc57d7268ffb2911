package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides: storage.dsn is read from
// ETL_STORAGE_DSN, report.path from ETL_REPORT_PATH and so on.
const EnvPrefix = "ETL"

// Defaults applied before the file is read.
const (
	DefaultReportPath = "data_quality_report.txt"
	DefaultLockKey    = "salesetl:run-lock"
	DefaultLockTTL    = 15 * time.Minute
)

// defaults lists every key env overrides may target; viper only consults the
// environment for keys it already knows.
var defaults = map[string]any{
	"job":                         "salesetl",
	"sources.customers.kind":      "file",
	"sources.customers.path":      "",
	"sources.products.kind":       "file",
	"sources.products.path":       "",
	"sources.sales.kind":          "file",
	"sources.sales.path":          "",
	"transform.sales.dedupe_keys": []string{},
	"storage.kind":                "",
	"storage.dsn":                 "",
	"storage.batch_size":          0,
	"storage.auto_create_tables":  false,
	"report.kind":                 "file",
	"report.format":               "text",
	"report.path":                 DefaultReportPath,
	"report.bucket":               "",
	"report.key":                  "",
	"lock.redis_addr":             "",
	"lock.key":                    DefaultLockKey,
	"lock.ttl":                    DefaultLockTTL,
	"runtime.parallel_transforms": true,
	"runtime.timeout":             time.Duration(0),
	"metrics.backend":             "none",
	"metrics.pushgateway_url":     "",
	"metrics.statsd_addr":         "",
}

// Load reads the job file at path (JSON, YAML or TOML by extension), applies
// ETL_* environment overrides and the legacy DB_* connection variables, and
// decodes the result. An empty path loads defaults and environment only.
// Load does not validate; call ValidatePipeline.
func Load(path string) (Pipeline, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Pipeline{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var p Pipeline
	if err := v.Unmarshal(&p); err != nil {
		return Pipeline{}, fmt.Errorf("decode config: %w", err)
	}
	applyLegacyDB(&p, os.Getenv)
	return p, nil
}

// applyLegacyDB fills storage from DB_USER, DB_PASSWORD, DB_HOST, DB_PORT and
// DB_NAME when no DSN is configured. These variables always describe a MySQL
// server.
func applyLegacyDB(p *Pipeline, getenv func(string) string) {
	if p.Storage.DSN != "" {
		return
	}
	host, name := getenv("DB_HOST"), getenv("DB_NAME")
	if host == "" && name == "" {
		return
	}
	if host == "" {
		host = "localhost"
	}
	port := getenv("DB_PORT")
	if port == "" {
		port = "3306"
	}
	if p.Storage.Kind == "" {
		p.Storage.Kind = "mysql"
	}
	if p.Storage.Kind != "mysql" {
		return
	}

	mc := mysql.NewConfig()
	mc.User = getenv("DB_USER")
	mc.Passwd = getenv("DB_PASSWORD")
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, port)
	mc.DBName = name
	mc.ParseTime = true
	p.Storage.DSN = mc.FormatDSN()
}
