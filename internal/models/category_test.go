package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Food & Dining", CategoryLabel(TypeExpense, "food"))
	assert.Equal(t, "Investment Returns", CategoryLabel(TypeIncome, "investment"))

	// Unknown values and cross-type values pass through.
	assert.Equal(t, "crypto", CategoryLabel(TypeIncome, "crypto"))
	assert.Equal(t, "salary", CategoryLabel(TypeExpense, "salary"))
	assert.Equal(t, "", CategoryLabel(TypeExpense, ""))
}

func TestCategoriesFor(t *testing.T) {
	assert.Len(t, CategoriesFor(TypeIncome), 6)
	assert.Len(t, CategoriesFor(TypeExpense), 10)
	assert.Nil(t, CategoriesFor("refund"))

	for _, c := range append(CategoriesFor(TypeIncome), CategoriesFor(TypeExpense)...) {
		_, ok := c.Label()
		assert.True(t, ok, "category %q has no label", c)
	}
}

func TestPaymentModeLabel(t *testing.T) {
	assert.Equal(t, "UPI", PaymentModeLabel("upi"))
	assert.Equal(t, "Net Banking", PaymentModeLabel("net-banking"))
	assert.Equal(t, "cheque", PaymentModeLabel("cheque"))
}

func TestParseTransactionType(t *testing.T) {
	typ, ok := ParseTransactionType("income")
	assert.True(t, ok)
	assert.Equal(t, TypeIncome, typ)

	_, ok = ParseTransactionType("Income")
	assert.False(t, ok)
	_, ok = ParseTransactionType("refund")
	assert.False(t, ok)
}

func TestRecordID_JSON(t *testing.T) {
	var res BatchResult
	err := json.Unmarshal([]byte(`{"count":3,"ids":[41,"abc-1",null],"message":"ok"}`), &res)
	require.NoError(t, err)
	assert.Equal(t, []RecordID{"41", "abc-1", ""}, res.IDs)

	out, err := json.Marshal([]RecordID{"42", "row-key"})
	require.NoError(t, err)
	assert.JSONEq(t, `[42,"row-key"]`, string(out))
}
