package builtin

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ISODate is the canonical output layout for every parsed date.
const ISODate = "2006-01-02"

// DateLayouts is the fixed try-order for date parsing. Ambiguous input such as
// "03/04/2023" resolves to the first layout that accepts it, so day-first
// always wins over month-first. Non-padded day/month elements accept both
// "5" and "05".
var DateLayouts = []string{
	"2006-1-2", // YYYY-MM-DD
	"2/1/2006", // DD/MM/YYYY
	"1/2/2006", // MM/DD/YYYY
	"2-1-2006", // DD-MM-YYYY
	"1-2-2006", // MM-DD-YYYY
	"2006/1/2", // YYYY/MM/DD
	"2.1.2006", // DD.MM.YYYY
	"20060102", // YYYYMMDD
}

// ParseDate normalizes a date string to YYYY-MM-DD. The fixed layouts are
// tried in order; when none matches, a best-effort parse handles textual
// forms ("Jan 15, 2023", "2023-01-15T10:30:00Z"). It returns false when
// nothing understands the value.
func ParseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ISODate), true
		}
	}
	// Bare digit runs other than YYYYMMDD would be read as epoch seconds.
	if allDigits(s) {
		return "", false
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return "", false
	}
	return t.Format(ISODate), true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
