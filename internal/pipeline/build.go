package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"salesetl/internal/config"
	"salesetl/internal/datasource"
	"salesetl/internal/datasource/file"
	"salesetl/internal/datasource/httpds"
	s3ds "salesetl/internal/datasource/s3"
	"salesetl/internal/extract"
	"salesetl/internal/lock"
	"salesetl/internal/parser"
	csvparser "salesetl/internal/parser/csv"
	xlsxparser "salesetl/internal/parser/xlsx"
	"salesetl/internal/report"
	"salesetl/internal/storage"
	"salesetl/internal/transformer"
)

// Function variables used as test seams. In production they point to the
// real constructors.
var (
	newRepositoryFn = storage.New

	newS3ClientFn = func(ctx context.Context, region, endpoint string) (*s3.Client, error) {
		return s3ds.NewClient(ctx, region, endpoint)
	}

	newRedisClientFn = func(addr string) redis.UniversalClient {
		return redis.NewClient(&redis.Options{Addr: addr})
	}
)

// Build validates p and wires a Runner from it. The returned cleanup closes
// the repository and the lock client; it is safe to call once the run is
// over, also after a failed run.
func Build(ctx context.Context, p config.Pipeline, log *zap.Logger) (*Runner, func(), error) {
	if log == nil {
		log = zap.NewNop()
	}
	for _, iss := range config.ValidatePipeline(p) {
		if iss.Severity == config.SeverityError {
			return nil, nil, fmt.Errorf("invalid config: %w", iss)
		}
		log.Warn("config: "+iss.Message, zap.String("path", iss.Path))
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	provider, err := BuildProvider(ctx, p.Sources, log)
	if err != nil {
		return nil, nil, err
	}

	sink, err := buildSink(ctx, p.Report)
	if err != nil {
		return nil, nil, fmt.Errorf("report: %w", err)
	}

	repo, err := newRepositoryFn(ctx, storage.Config{
		Kind:      p.Storage.Kind,
		DSN:       p.Storage.DSN,
		BatchSize: p.Storage.BatchSize,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init repo: %w", err)
	}
	closers = append(closers, repo.Close)

	r := &Runner{
		Job:         p.Job,
		Provider:    provider,
		Repo:        repo,
		Sink:        sink,
		Format:      p.Report.Format,
		Sales:       transformer.SalesOptions{DedupeKeys: p.Transform.Sales.DedupeKeys},
		Parallel:    p.Runtime.ParallelTransforms,
		ResetTables: p.Storage.AutoCreateTables,
		Log:         log,
	}

	if addr := strings.TrimSpace(p.Lock.RedisAddr); addr != "" {
		key, ttl := p.Lock.Key, p.Lock.TTL
		if key == "" {
			key = config.DefaultLockKey
		}
		if ttl <= 0 {
			ttl = config.DefaultLockTTL
		}
		client := newRedisClientFn(addr)
		closers = append(closers, func() { _ = client.Close() })
		r.Lock = lock.New(client, key, ttl)
	}

	log.Info("pipeline: wired",
		zap.String("customers", p.Sources.Customers.Location()),
		zap.String("products", p.Sources.Products.Location()),
		zap.String("sales", p.Sources.Sales.Location()),
		zap.String("storage", p.Storage.Kind),
		zap.Bool("lock", r.Lock != nil),
	)
	return r, cleanup, nil
}

// BuildProvider wires the three configured inputs to their sources and
// parsers.
func BuildProvider(ctx context.Context, srcs config.Sources, log *zap.Logger) (*extract.SourceProvider, error) {
	if log == nil {
		log = zap.NewNop()
	}
	inputs := make([]extract.Input, 0, 3)
	for _, in := range []struct {
		name string
		src  config.Source
	}{
		{extract.Customers, srcs.Customers},
		{extract.Products, srcs.Products},
		{extract.Sales, srcs.Sales},
	} {
		src, err := buildSource(ctx, in.src)
		if err != nil {
			return nil, fmt.Errorf("sources.%s: %w", in.name, err)
		}
		prs, err := buildParser(in.src, log.With(zap.String("input", in.name)))
		if err != nil {
			return nil, fmt.Errorf("sources.%s: %w", in.name, err)
		}
		inputs = append(inputs, extract.Input{Name: in.name, Source: src, Parser: prs})
	}
	return &extract.SourceProvider{Inputs: inputs, Log: log}, nil
}

func buildSource(ctx context.Context, s config.Source) (datasource.Source, error) {
	switch s.Kind {
	case "", "file":
		return file.NewLocal(s.Path), nil
	case "s3":
		client, err := newS3ClientFn(ctx, s.Region, s.Endpoint)
		if err != nil {
			return nil, err
		}
		return &s3ds.Source{Client: client, Bucket: s.Bucket, Key: s.Key}, nil
	case "http":
		headers := http.Header{}
		for k, v := range s.Options.StringMap("headers") {
			headers.Set(k, os.ExpandEnv(v))
		}
		client := httpds.NewClient(httpds.Config{
			MaxRetries: s.Options.Int("max_retries", 3),
			Headers:    headers,
		})
		return &httpds.Source{Client: client, URL: s.URL}, nil
	default:
		return nil, fmt.Errorf("unsupported source kind %q", s.Kind)
	}
}

func buildParser(s config.Source, log *zap.Logger) (parser.Parser, error) {
	headerMap := s.Options.StringMap("header_map")
	switch format := config.SourceFormat(s); format {
	case "csv":
		return csvparser.NewParser(csvparser.Options{
			Comma:      s.Options.Rune("comma", ','),
			LazyQuotes: s.Options.Bool("lazy_quotes", false),
			HeaderMap:  headerMap,
		}, log), nil
	case "xlsx":
		return xlsxparser.NewParser(xlsxparser.Options{
			Sheet:     s.Options.String("sheet", ""),
			HeaderMap: headerMap,
		}, log), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func buildSink(ctx context.Context, r config.Report) (report.Sink, error) {
	switch r.Kind {
	case "", "file":
		path := r.Path
		if path == "" {
			path = config.DefaultReportPath
		}
		return report.FileSink{Path: path}, nil
	case "stdout":
		return report.WriterSink{W: os.Stdout}, nil
	case "s3":
		client, err := newS3ClientFn(ctx, r.Region, r.Endpoint)
		if err != nil {
			return nil, err
		}
		return report.S3Sink{Client: client, Bucket: r.Bucket, Key: r.Key}, nil
	default:
		return nil, fmt.Errorf("unsupported report kind %q", r.Kind)
	}
}
