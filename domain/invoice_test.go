package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestComputeTotals(t *testing.T) {
	subtotal, total, ok := ComputeTotals(LineItems{{Total: 40}, {Total: 60}}, 10)
	require.True(t, ok)
	assert.Equal(t, 100.0, subtotal)
	assert.Equal(t, 110.0, total)

	_, _, ok = ComputeTotals(nil, 10)
	assert.False(t, ok)
}

func TestInvoiceStatusFor(t *testing.T) {
	cases := []struct {
		name  string
		paid  float64
		total *float64
		want  string
	}{
		{"nothing paid", 0, ptr(100), InvoiceUnpaid},
		{"partial", 50, ptr(100), InvoicePartiallyPaid},
		{"exact", 100, ptr(100), InvoicePaid},
		{"overpaid", 110, ptr(100), InvoicePaid},
		{"no total", 50, nil, InvoicePartiallyPaid},
		{"no total nothing paid", 0, nil, InvoiceUnpaid},
		{"zero total counts as unset", 10, ptr(0), InvoicePartiallyPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, InvoiceStatusFor(tc.paid, tc.total))
		})
	}
}

func TestLineItemsScan(t *testing.T) {
	var items LineItems
	require.NoError(t, items.Scan(`[{"description":"dressing","total":40}]`))
	require.Len(t, items, 1)
	assert.Equal(t, "dressing", items[0].Description)
	assert.Equal(t, 40.0, items[0].Total)

	require.NoError(t, items.Scan(nil))
	assert.Empty(t, items)

	assert.Error(t, items.Scan(42))

	v, err := LineItems(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestLineItem_KeepsUnknownKeys(t *testing.T) {
	var items LineItems
	require.NoError(t, json.Unmarshal([]byte(`[{"name":"Dressing","total":40},{"code":"HV","meta":{"nurse":3},"total":60}]`), &items))
	require.Len(t, items, 2)
	assert.Equal(t, 40.0, items[0].Total)
	assert.JSONEq(t, `"Dressing"`, string(items[0].Extra["name"]))

	subtotal, total, ok := ComputeTotals(items, 10)
	require.True(t, ok)
	assert.Equal(t, 100.0, subtotal)
	assert.Equal(t, 110.0, total)

	v, err := items.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Dressing","total":40},{"code":"HV","meta":{"nurse":3},"total":60}]`, v.(string))

	var back LineItems
	require.NoError(t, back.Scan(v))
	assert.Equal(t, items, back)
}

func TestLineItem_MissingOrNullTotalCountsAsZero(t *testing.T) {
	var items LineItems
	require.NoError(t, json.Unmarshal([]byte(`[{"name":"free"},{"total":null},{"total":5}]`), &items))
	subtotal, _, ok := ComputeTotals(items, 0)
	require.True(t, ok)
	assert.Equal(t, 5.0, subtotal)
}

func TestLineItem_NonNumericTotalIsRejected(t *testing.T) {
	var items LineItems
	assert.Error(t, json.Unmarshal([]byte(`[{"total":"forty"}]`), &items))
}

func TestLineItem_KnownKeyWithOddTypePassesThrough(t *testing.T) {
	var item LineItem
	require.NoError(t, json.Unmarshal([]byte(`{"description":{"en":"Dressing"},"quantity":2,"total":40}`), &item))
	assert.Empty(t, item.Description)
	require.NotNil(t, item.Quantity)
	assert.Equal(t, 2.0, *item.Quantity)
	assert.JSONEq(t, `{"en":"Dressing"}`, string(item.Extra["description"]))

	out, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":{"en":"Dressing"},"quantity":2,"total":40}`, string(out))
}
