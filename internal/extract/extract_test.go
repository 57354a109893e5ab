package extract

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
)

func TestObjectFindsEmbeddedJSON(t *testing.T) {
	got, err := Object(`noise {"a":1} noise`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, got)
}

func TestObjectFencedOutput(t *testing.T) {
	raw := "```json\n{\"description\": \"Lidl\", \"items\": {\"n\": 2}}\n```"
	got, err := Object(raw)
	require.NoError(t, err)
	assert.Equal(t, "Lidl", got["description"])
}

func TestObjectNoJSON(t *testing.T) {
	_, err := Object("no json here")
	var malformed *errs.MalformedOutputError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "no json here", malformed.Raw)
}

func TestObjectInvalidJSON(t *testing.T) {
	_, err := Object(`{"a": }`)
	var malformed *errs.MalformedOutputError
	assert.True(t, errors.As(err, &malformed))
}

func TestArray(t *testing.T) {
	got, err := Array(`Here you go: [{"amount": 5}, {"amount": 6}] done`)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = Array("nothing")
	var malformed *errs.MalformedOutputError
	assert.True(t, errors.As(err, &malformed))
}

func TestArrayOrEmpty(t *testing.T) {
	cases := map[string]string{
		"english": "Sorry, no transactions were found in this recording.",
		"russian": "Транзакций не найдено.",
		"nothing": "Nothing found",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ArrayOrEmpty(raw)
			require.NoError(t, err)
			assert.Empty(t, got)
			assert.NotNil(t, got)
		})
	}

	_, err := ArrayOrEmpty("I could not understand the audio")
	var malformed *errs.MalformedOutputError
	assert.True(t, errors.As(err, &malformed))

	got, err := ArrayOrEmpty(`no transactions except [{"amount": 1}]`)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestExtractIsIdempotent(t *testing.T) {
	raw := `prefix {"description":"Taxi","amount":"350,5","time":"9:5","category":"transport"} suffix`
	first, err := Object(raw)
	require.NoError(t, err)
	second, err := Object(raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	tx1, ok1 := Transaction(first, []string{"Transport"})
	tx2, ok2 := Transaction(second, []string{"Transport"})
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, tx1, tx2)

	again, ok := Transaction(tx1, []string{"Transport"})
	assert.True(t, ok)
	assert.Equal(t, tx1, again)
}

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		in   any
		want string
		ok   bool
	}{
		{"9:5", "09:05", true},
		{"09:05", "09:05", true},
		{"23:59", "23:59", true},
		{"0:00", "00:00", true},
		{" 7:30 ", "07:30", true},
		{"25:00", "", false},
		{"24:00", "", false},
		{"12:60", "", false},
		{"12:345", "", false},
		{"noon", "", false},
		{"12.30", "", false},
		{1230, "", false},
		{nil, "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeTime(tc.in)
		assert.Equal(t, tc.ok, ok, "input %v", tc.in)
		assert.Equal(t, tc.want, got, "input %v", tc.in)
	}
}

func TestAmount(t *testing.T) {
	cases := []struct {
		in   any
		want string
		ok   bool
	}{
		{float64(12.345), "12.35", true},
		{"1 234,50", "1234.5", true},
		{"1,234.50", "1234.5", true},
		{"350 ₽", "350", true},
		{json.Number("99.999"), "100", true},
		{int64(7), "7", true},
		{float64(0), "", false},
		{float64(-5), "", false},
		{"-10", "", false},
		{"abc", "", false},
		{nil, "", false},
		{true, "", false},
	}
	for _, tc := range cases {
		got, ok := Amount(tc.in)
		assert.Equal(t, tc.ok, ok, "input %v", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got.String(), "input %v", tc.in)
		}
	}
}

func TestAmountSeparators(t *testing.T) {
	cases := map[string]string{
		"1.234,50":     "1234.5",
		"1.234":        "1234",
		"1,234":        "1234",
		"12,5":         "12.5",
		"1.234.567":    "1234567",
		"1 234 567,89": "1234567.89",
		"1,234,567.89": "1234567.89",
		"0.99":         "0.99",
	}
	for in, want := range cases {
		got, ok := Amount(in)
		require.True(t, ok, "input %q", in)
		assert.Equal(t, want, got.String(), "input %q", in)
	}
}

func TestTransactionCanonicalPriority(t *testing.T) {
	tx, ok := Transaction(map[string]any{"description": "Rent", "amount": 500.0, "category": "Food", "priority": "MUST-HAVE"}, []string{"Food"})
	require.True(t, ok)
	assert.Equal(t, "must-have", tx["priority"])
}

func TestChoice(t *testing.T) {
	allowed := []string{"Food", "Transport"}
	got := Choice(" food ", allowed)
	require.NotNil(t, got)
	assert.Equal(t, "Food", *got)
	assert.Nil(t, Choice("Rent", allowed))
	assert.Nil(t, Choice(3, allowed))
}

func TestTransactions(t *testing.T) {
	items := []any{
		map[string]any{"description": " Lidl ", "amount": "42,10", "category": "food", "time": "25:00", "type": "expense", "priority": "must-have"},
		map[string]any{"description": "Cashback", "amount": 5.0, "category": "Food"},
		map[string]any{"description": "Refund", "amount": -3.0, "category": "Food"},
		map[string]any{"description": "Salary", "amount": 1000.0, "category": "Job", "type": "income", "priority": "must-have", "time": "9:00"},
		map[string]any{"description": "Mystery", "amount": 10.0, "priority": "urgent"},
		"not an object",
	}

	got := Transactions(items, []string{"Food", "Salary"})
	require.Len(t, got, 3)

	assert.Equal(t, map[string]any{
		"description": "Lidl",
		"amount":      42.1,
		"category":    "Food",
		"type":        "expense",
		"priority":    "must-have",
	}, got[0])

	assert.Equal(t, "UNKNOWN", got[1]["category"])
	assert.Equal(t, "income", got[1]["type"])
	assert.Equal(t, "09:00", got[1]["time"])
	assert.NotContains(t, got[1], "priority")

	assert.Equal(t, "expense", got[2]["type"])
	assert.NotContains(t, got[2], "priority")
}
