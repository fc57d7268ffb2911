package builtin

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase trims s and upper-cases the first letter of each word, lowering
// the rest ("  new DELHI " -> "New Delhi").
//
// A fresh Caser is built per call: cases.Caser is stateful and not safe for
// concurrent use, and the table transformers run in parallel.
func TitleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return cases.Title(language.Und).String(s)
}
