// Package config defines the configuration model of the batch job: where the
// three input extracts come from, how sales are de-duplicated, where the
// tables are loaded and where the quality report goes. Files are loaded with
// Load (JSON or YAML via viper) and linted with ValidatePipeline.
//
// Example (trimmed):
//
//	{
//	  "job": "fleximart",
//	  "sources": {
//	    "customers": { "kind": "file", "path": "data/customers_raw.csv" },
//	    "products":  { "kind": "s3", "bucket": "raw", "key": "products.xlsx" },
//	    "sales":     { "kind": "http", "url": "https://pos.example/sales.csv" }
//	  },
//	  "transform": { "sales": { "dedupe_keys": ["transaction_id"] } },
//	  "storage":   { "kind": "mysql", "dsn": "etl:pw@tcp(db:3306)/fleximart" },
//	  "report":    { "kind": "file", "path": "data_quality_report.txt" }
//	}
package config

import (
	"encoding/json"
	"time"
)

// Pipeline is the top-level object decoded from a job file.
type Pipeline struct {
	// Job names the run for logs, metrics labels and the report header.
	Job string `json:"job" mapstructure:"job"`

	Sources   Sources   `json:"sources" mapstructure:"sources"`
	Transform Transform `json:"transform" mapstructure:"transform"`
	Storage   Storage   `json:"storage" mapstructure:"storage"`
	Report    Report    `json:"report" mapstructure:"report"`
	Lock      Lock      `json:"lock" mapstructure:"lock"`
	Runtime   Runtime   `json:"runtime" mapstructure:"runtime"`
	Metrics   Metrics   `json:"metrics" mapstructure:"metrics"`
}

// Sources names one input per table set.
type Sources struct {
	Customers Source `json:"customers" mapstructure:"customers"`
	Products  Source `json:"products" mapstructure:"products"`
	Sales     Source `json:"sales" mapstructure:"sales"`
}

// Source identifies one input extract.
type Source struct {
	// Kind selects the source implementation: "file" (default), "s3" or
	// "http".
	Kind string `json:"kind" mapstructure:"kind"`

	// Path is the local filesystem path ("file").
	Path string `json:"path" mapstructure:"path"`

	// Bucket and Key locate the object ("s3"). Region and Endpoint are
	// optional; Endpoint targets S3-compatible stores.
	Bucket   string `json:"bucket" mapstructure:"bucket"`
	Key      string `json:"key" mapstructure:"key"`
	Region   string `json:"region" mapstructure:"region"`
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`

	// URL is fetched with GET ("http").
	URL string `json:"url" mapstructure:"url"`

	// Format is "csv" or "xlsx". Empty means derived from the file
	// extension, defaulting to csv.
	Format string `json:"format" mapstructure:"format"`

	// Options is interpreted by the parser. Typical keys:
	//   comma (string), lazy_quotes (bool), header_map (object),
	//   sheet (string, xlsx only)
	Options Options `json:"options" mapstructure:"options"`
}

// Location returns a human-readable location for logs.
func (s Source) Location() string {
	switch s.Kind {
	case "s3":
		return "s3://" + s.Bucket + "/" + s.Key
	case "http":
		return s.URL
	default:
		return s.Path
	}
}

// Transform tunes the table transforms.
type Transform struct {
	Sales SalesTransform `json:"sales" mapstructure:"sales"`
}

// SalesTransform tunes sales cleaning.
type SalesTransform struct {
	// DedupeKeys is the business key of a transaction line. Empty means
	// ["transaction_id"].
	DedupeKeys []string `json:"dedupe_keys" mapstructure:"dedupe_keys"`
}

// Storage selects the relational store the tables are loaded into.
type Storage struct {
	// Kind selects the backend: postgres, mssql, mysql, sqlite, snowflake.
	Kind string `json:"kind" mapstructure:"kind"`

	// DSN is the backend connection string.
	DSN string `json:"dsn" mapstructure:"dsn"`

	// BatchSize caps rows per INSERT statement on database/sql backends.
	BatchSize int `json:"batch_size" mapstructure:"batch_size"`

	// AutoCreateTables drops and re-creates the four tables before loading.
	AutoCreateTables bool `json:"auto_create_tables" mapstructure:"auto_create_tables"`
}

// Report selects where the data-quality report is written.
type Report struct {
	// Kind is "file" (default), "stdout" or "s3".
	Kind string `json:"kind" mapstructure:"kind"`

	// Format is "text" (default) or "table".
	Format string `json:"format" mapstructure:"format"`

	Path string `json:"path" mapstructure:"path"`

	Bucket   string `json:"bucket" mapstructure:"bucket"`
	Key      string `json:"key" mapstructure:"key"`
	Region   string `json:"region" mapstructure:"region"`
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`
}

// Lock configures the optional Redis run lock. Empty RedisAddr disables it.
type Lock struct {
	RedisAddr string        `json:"redis_addr" mapstructure:"redis_addr"`
	Key       string        `json:"key" mapstructure:"key"`
	TTL       time.Duration `json:"ttl" mapstructure:"ttl"`
}

// Runtime controls execution.
type Runtime struct {
	// ParallelTransforms runs the three table transforms concurrently.
	ParallelTransforms bool `json:"parallel_transforms" mapstructure:"parallel_transforms"`

	// Timeout bounds the whole run. Zero means no limit.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is "none" (default), "pushgateway" or "datadog".
	Backend        string `json:"backend" mapstructure:"backend"`
	PushgatewayURL string `json:"pushgateway_url" mapstructure:"pushgateway_url"`

	// StatsdAddr is the DogStatsD agent address for the datadog backend.
	StatsdAddr string `json:"statsd_addr" mapstructure:"statsd_addr"`
}

// Options fetches typed values from a free-form parser options bag. It
// performs only minimal type coercion and returns provided defaults when a key
// is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64
// and YAML numbers as int; both are accepted.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		case int64:
			return int(n)
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. This is useful for single-character parser settings such as
// a CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored. Returns an empty map
// when the key is missing or the value is not an object.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null "options"
// object in JSON decodes to a non-nil, empty Options map. This simplifies call
// sites by removing the need to nil-check Options values.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
