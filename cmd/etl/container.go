package main

import (
	"go.uber.org/zap"

	"salesetl/internal/config"
	"salesetl/internal/metrics"
	"salesetl/internal/metrics/datadog"
	"salesetl/internal/metrics/prompush"
)

const defaultPushgatewayURL = "http://localhost:9091"

// Function variables used to introduce test seams.
var (
	newPromBackendFn = func(job, url string) (metrics.Backend, error) {
		return prompush.NewBackend(job, url)
	}
	newDatadogBackendFn = func(cfg datadog.Config) (metrics.Backend, error) {
		return datadog.NewBackend(cfg)
	}
)

// initMetrics installs the configured metrics backend and returns the
// function that flushes it at the end of the run. A backend that fails to
// initialize leaves the nop backend in place; metrics never fail a run.
func initMetrics(cfg config.Metrics, job string, log *zap.Logger) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch cfg.Backend {
	case "pushgateway":
		url := cfg.PushgatewayURL
		if url == "" {
			url = defaultPushgatewayURL
		}
		b, err = newPromBackendFn(job, url)
		log.Info("metrics: pushgateway", zap.String("url", url), zap.String("job", job))
	case "datadog":
		if cfg.StatsdAddr == "" {
			log.Warn("metrics: datadog backend without statsd_addr; metrics disabled")
			return func() {}
		}
		b, err = newDatadogBackendFn(datadog.Config{
			Addr:       cfg.StatsdAddr,
			Namespace:  "salesetl.",
			GlobalTags: []string{"job:" + job},
		})
		log.Info("metrics: datadog", zap.String("addr", cfg.StatsdAddr))
	case "", "none":
		log.Debug("metrics: disabled")
		return func() {}
	default:
		log.Warn("metrics: unknown backend; metrics disabled", zap.String("backend", cfg.Backend))
		return func() {}
	}
	if err != nil {
		log.Warn("metrics: init failed; using nop", zap.String("backend", cfg.Backend), zap.Error(err))
		return func() {}
	}

	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics: flush error", zap.Error(err))
		}
	}
}
