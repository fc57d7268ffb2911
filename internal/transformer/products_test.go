package transformer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productHeader = []string{"product_id", "product_name", "category", "price", "stock_quantity"}

func TestTransformProducts(t *testing.T) {
	t.Parallel()

	in := set(t, "products", productHeader,
		[]string{"P001", "Laptop", " electronics ", "45999.00", "10"},
		[]string{"P001", "Laptop copy", "electronics", "1.00", "1"},
		[]string{"P002", "Mouse", "ELECTRONICS", "", "5"},
		[]string{"P003", "Kettle", "home & kitchen", "1,299.50", ""},
		[]string{"P004", "Broken", "misc", "-5", "3"},
		[]string{"P005", "Pen", "stationery", "0", "many"},
	)

	out, m, err := TransformProducts(in)

	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, int64(1), out[0].ProductID)
	assert.Equal(t, "Laptop", out[0].ProductName.String)
	assert.Equal(t, "Electronics", out[0].Category.String)
	assert.Equal(t, 45999.0, out[0].Price)
	assert.Equal(t, int64(10), out[0].StockQuantity)

	assert.Equal(t, int64(3), out[1].ProductID)
	assert.Equal(t, "Home & Kitchen", out[1].Category.String)
	assert.Equal(t, 1299.5, out[1].Price)
	assert.Zero(t, out[1].StockQuantity)

	assert.Equal(t, int64(5), out[2].ProductID)
	assert.Zero(t, out[2].Price)
	assert.Zero(t, out[2].StockQuantity)

	assert.Equal(t, 6, m.Original)
	assert.Equal(t, 1, m.Duplicates)
	assert.Equal(t, 2, m.MissingPrices)
	assert.Equal(t, 2, m.MissingStock)
	assert.Zero(t, m.MissingIDs)
	assert.Equal(t, 3, m.Final)
}

func TestTransformProducts_UniqueIDs(t *testing.T) {
	t.Parallel()

	in := set(t, "products", []string{"product_id", "price"},
		[]string{"P1", "1"}, []string{"p-1", "2"}, []string{"1", "3"}, []string{"P2", "4"}, []string{"", "5"},
	)
	out, m, err := TransformProducts(in)
	require.NoError(t, err)

	seen := map[int64]bool{}
	for _, p := range out {
		assert.False(t, seen[p.ProductID], "duplicate id %d", p.ProductID)
		seen[p.ProductID] = true
	}
	assert.Len(t, out, 2)
	assert.Equal(t, 1.0, out[0].Price)
	assert.Equal(t, 1, m.MissingIDs)
}

func TestTransformProducts_MissingPriceColumn(t *testing.T) {
	t.Parallel()

	_, _, err := TransformProducts(set(t, "products", []string{"product_id", "product_name"}))
	assert.ErrorIs(t, err, ErrMissingColumn)
}
