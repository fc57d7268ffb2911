// Package parser defines the contract shared by the input parsers and the
// header canonicalization they all apply.
package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"salesetl/internal/records"
)

// Parser turns raw bytes into a record set. It returns the parsed rows plus
// the number of rows skipped as malformed.
type Parser interface {
	Parse(r io.Reader) (records.Set, int, error)
}

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// NormalizeHeaders produces canonical column keys: trimmed, BOM stripped,
// NFC-normalized, then mapped through headerMap when the source name is
// listed there, else lower-cased with spaces turned into underscores.
// headerMap is also consulted with the lower-cased name, since config loaders
// may fold map keys.
func NormalizeHeaders(h []string, headerMap map[string]string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimSpace(strings.TrimPrefix(c, utf8BOM))
		}
		c = norm.NFC.String(c)
		if m, ok := headerMap[c]; ok {
			res[i] = m
			continue
		}
		lower := strings.ToLower(c)
		if m, ok := headerMap[lower]; ok {
			res[i] = m
			continue
		}
		res[i] = strings.ReplaceAll(lower, " ", "_")
	}
	return res
}

// KeyFor returns the column key for index idx, using headers when available,
// otherwise synthesizing a "col_N" name.
func KeyFor(idx int, headers []string) string {
	if idx < len(headers) && headers[idx] != "" {
		return headers[idx]
	}
	return fmt.Sprintf("col_%d", idx)
}

// EmptyToNil converts a blank cell to nil; all other values are returned
// trimmed.
func EmptyToNil(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

