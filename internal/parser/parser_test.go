package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeaders(t *testing.T) {
	t.Parallel()

	got := NormalizeHeaders(
		[]string{"\uFEFF Customer ID", "First Name", "EMAIL", "Cafe\u0301 Name", "Datum od"},
		map[string]string{"datum od": "registration_date"},
	)
	assert.Equal(t, []string{"customer_id", "first_name", "email", "caf\u00e9_name", "registration_date"}, got)
}

func TestKeyForAndEmptyToNil(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "email", KeyFor(1, []string{"id", "email"}))
	assert.Equal(t, "col_3", KeyFor(3, []string{"id", "email"}))
	assert.Equal(t, "col_0", KeyFor(0, []string{""}))

	assert.Nil(t, EmptyToNil("   "))
	assert.Equal(t, "x", EmptyToNil(" x "))
}
