// Package datasource defines where raw input bytes come from. Implementations
// live in the file and s3 subpackages.
package datasource

import (
	"context"
	"io"
)

// Source opens one input object for reading. Callers close the reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
