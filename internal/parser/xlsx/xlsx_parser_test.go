package xlsx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, sheet string, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParse_FirstSheet(t *testing.T) {
	t.Parallel()

	buf := workbook(t, "Sheet1",
		[]any{"Product ID", "Product Name", "Category", "Price", "Stock Quantity"},
		[]any{"P001", "Laptop", "electronics", 45999, 50},
		[]any{"P002", "Mouse", nil, 799},
		[]any{nil, nil, nil, nil, nil},
	)

	set, skipped, err := NewParser(Options{}, nil).Parse(buf)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, []string{"product_id", "product_name", "category", "price", "stock_quantity"}, set.Columns)
	require.Len(t, set.Rows, 2)
	assert.Equal(t, "45999", set.Rows[0]["price"])
	assert.Nil(t, set.Rows[1]["category"])
	assert.Nil(t, set.Rows[1]["stock_quantity"])
}

func TestParse_NamedSheetAndWideRow(t *testing.T) {
	t.Parallel()

	buf := workbook(t, "Sales",
		[]any{"Txn", "Customer"},
		[]any{"T001", "C001"},
		[]any{"T002", "C002", "extra"},
	)

	p := NewParser(Options{Sheet: "Sales", HeaderMap: map[string]string{"Txn": "transaction_id", "Customer": "customer_id"}}, nil)
	set, skipped, err := p.Parse(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, set.Rows, 1)
	assert.Equal(t, "T001", set.Rows[0]["transaction_id"])
}

func TestParse_NotAWorkbook(t *testing.T) {
	t.Parallel()

	_, _, err := NewParser(Options{}, nil).Parse(strings.NewReader("a,b\n1,2\n"))
	assert.Error(t, err)
}
