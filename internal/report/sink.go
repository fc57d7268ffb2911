package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Sink persists a rendered report.
type Sink interface {
	Write(ctx context.Context, text string) error
}

// FileSink writes the report to Path, replacing any previous report. The
// parent directory is created when missing.
type FileSink struct {
	Path string
}

func (s FileSink) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.Path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", s.Path, err)
	}
	return nil
}

// WriterSink writes the report to W (stdout in the CLI).
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := io.WriteString(s.W, text); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}
	return nil
}

// PutObjectAPI is the subset of *s3.Client used by S3Sink.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads the report to s3://Bucket/Key.
type S3Sink struct {
	Client PutObjectAPI
	Bucket string
	Key    string
}

func (s S3Sink) Write(ctx context.Context, text string) error {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(s.Key),
		Body:        strings.NewReader(text),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("report: put s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	return nil
}
