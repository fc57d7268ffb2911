package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesetl/internal/config"
	"salesetl/internal/datasource/file"
	"salesetl/internal/datasource/httpds"
	s3ds "salesetl/internal/datasource/s3"
	"salesetl/internal/extract"
	"salesetl/internal/lock"
	csvparser "salesetl/internal/parser/csv"
	xlsxparser "salesetl/internal/parser/xlsx"
	"salesetl/internal/report"
	"salesetl/internal/storage"
)

func testPipeline() config.Pipeline {
	return config.Pipeline{
		Job: "fleximart",
		Sources: config.Sources{
			Customers: config.Source{Kind: "file", Path: "data/customers_raw.csv", Options: config.Options{"comma": ";"}},
			Products:  config.Source{Kind: "s3", Bucket: "raw", Key: "products.xlsx", Region: "ap-south-1"},
			Sales:     config.Source{Kind: "http", URL: "https://pos.example/sales.csv", Options: config.Options{"max_retries": 1}},
		},
		Transform: config.Transform{Sales: config.SalesTransform{DedupeKeys: []string{"transaction_id", "product_id"}}},
		Storage:   config.Storage{Kind: "sqlite", DSN: ":memory:", AutoCreateTables: true},
		Report:    config.Report{Kind: "file", Path: "out/report.txt", Format: "table"},
		Runtime:   config.Runtime{ParallelTransforms: true},
	}
}

// stubSeams replaces the repository and S3 constructors for one test.
func stubSeams(t *testing.T, repo storage.Repository) *[]storage.Config {
	t.Helper()
	origRepo, origS3 := newRepositoryFn, newS3ClientFn
	t.Cleanup(func() { newRepositoryFn, newS3ClientFn = origRepo, origS3 })

	var seen []storage.Config
	newRepositoryFn = func(_ context.Context, cfg storage.Config) (storage.Repository, error) {
		seen = append(seen, cfg)
		return repo, nil
	}
	newS3ClientFn = func(_ context.Context, region, _ string) (*s3.Client, error) {
		return s3.New(s3.Options{Region: region, Credentials: aws.AnonymousCredentials{}}), nil
	}
	return &seen
}

func TestBuild_WiresComponents(t *testing.T) {
	seen := stubSeams(t, &failingRepo{})

	r, cleanup, err := Build(context.Background(), testPipeline(), nil)
	require.NoError(t, err)
	defer cleanup()

	require.Len(t, *seen, 1)
	assert.Equal(t, storage.Config{Kind: "sqlite", DSN: ":memory:"}, (*seen)[0])

	assert.Equal(t, "fleximart", r.Job)
	assert.Equal(t, "table", r.Format)
	assert.True(t, r.Parallel)
	assert.True(t, r.ResetTables)
	assert.Equal(t, []string{"transaction_id", "product_id"}, r.Sales.DedupeKeys)
	assert.Equal(t, report.FileSink{Path: "out/report.txt"}, r.Sink)
	assert.Nil(t, r.Lock)

	sp, ok := r.Provider.(*extract.SourceProvider)
	require.True(t, ok)
	require.Len(t, sp.Inputs, 3)

	assert.Equal(t, extract.Customers, sp.Inputs[0].Name)
	assert.IsType(t, &file.Local{}, sp.Inputs[0].Source)
	assert.IsType(t, &csvparser.Parser{}, sp.Inputs[0].Parser)

	assert.Equal(t, extract.Products, sp.Inputs[1].Name)
	s3src, ok := sp.Inputs[1].Source.(*s3ds.Source)
	require.True(t, ok)
	assert.Equal(t, "raw", s3src.Bucket)
	assert.IsType(t, &xlsxparser.Parser{}, sp.Inputs[1].Parser)

	assert.IsType(t, &httpds.Source{}, sp.Inputs[2].Source)
	assert.IsType(t, &csvparser.Parser{}, sp.Inputs[2].Parser)
}

func TestBuild_Lock(t *testing.T) {
	stubSeams(t, &failingRepo{})

	p := testPipeline()
	p.Lock = config.Lock{RedisAddr: "localhost:6379", Key: "fleximart:lock", TTL: time.Minute}
	r, cleanup, err := Build(context.Background(), p, nil)
	require.NoError(t, err)
	defer cleanup()

	rl, ok := r.Lock.(*lock.RedisLock)
	require.True(t, ok)
	assert.Equal(t, "fleximart:lock", rl.Key())
}

func TestBuild_Sinks(t *testing.T) {
	stubSeams(t, &failingRepo{})

	p := testPipeline()
	p.Report = config.Report{Kind: "stdout"}
	r, cleanup, err := Build(context.Background(), p, nil)
	require.NoError(t, err)
	cleanup()
	assert.IsType(t, report.WriterSink{}, r.Sink)

	p.Report = config.Report{Kind: "s3", Bucket: "reports", Key: "latest.txt"}
	r, cleanup, err = Build(context.Background(), p, nil)
	require.NoError(t, err)
	cleanup()
	sink, ok := r.Sink.(report.S3Sink)
	require.True(t, ok)
	assert.Equal(t, "reports", sink.Bucket)
}

func TestBuild_InvalidConfig(t *testing.T) {
	seen := stubSeams(t, &failingRepo{})

	p := testPipeline()
	p.Storage.DSN = ""
	_, _, err := Build(context.Background(), p, nil)

	var iss config.Issue
	require.ErrorAs(t, err, &iss)
	assert.Equal(t, "storage.dsn", iss.Path)
	assert.Empty(t, *seen, "no connection attempted")
}

func TestBuild_RepositoryError(t *testing.T) {
	stubSeams(t, nil)
	newRepositoryFn = func(context.Context, storage.Config) (storage.Repository, error) {
		return nil, errors.New("connection refused")
	}

	_, _, err := Build(context.Background(), testPipeline(), nil)
	assert.ErrorContains(t, err, "init repo: connection refused")
}
