package ledger

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/surenmigorskiy-ui/duo-backend/internal/models"
)

// Decode converts stored entries into typed transactions, tolerating the
// loose shapes the frontend writes (string amounts, numeric ids).
func Decode(entries []Entry) []models.Transaction {
	out := make([]models.Transaction, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		amount, _ := toFloat(e["amount"])
		ts, _ := toInt64(e[keyImportTimestamp])
		out = append(out, models.Transaction{
			ID:              str(e[keyID]),
			Description:     str(e["description"]),
			Amount:          amount,
			Category:        str(e["category"]),
			SubCategory:     str(e["subCategory"]),
			Date:            str(e[keyDate]),
			Time:            str(e["time"]),
			User:            str(e["user"]),
			Type:            str(e["type"]),
			Priority:        str(e[keyPriority]),
			PaymentMethodID: str(e["paymentMethodId"]),
			ImportTimestamp: ts,
		})
	}
	return out
}

// Entries extracts the transaction array from a family document.
func Entries(doc map[string]any) []Entry {
	raw, _ := doc[models.FieldTransactions].([]any)
	out := make([]Entry, 0, len(raw))
	for _, item := range raw {
		if e, ok := item.(map[string]any); ok {
			out = append(out, e)
		}
	}
	return out
}

func str(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(s, 10)
	case json.Number:
		return s.String()
	default:
		return ""
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
