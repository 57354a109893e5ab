package extract

import (
	"strings"

	"github.com/surenmigorskiy-ui/duo-backend/internal/models"
)

var rewardMarkers = []string{"cashback", "bonus", "кешбэк", "кэшбэк", "кешбек", "бонус"}

// Transactions normalizes model-produced transactions before they reach a
// client or the ledger: entries without a positive amount or that record
// bonuses or cashback are dropped, invalid times are removed, categories
// outside the allowed list become UNKNOWN and the type defaults to expense.
// When categories is empty any non-blank category is accepted.
func Transactions(items []any, categories []string) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		src, ok := item.(map[string]any)
		if !ok {
			continue
		}
		tx, ok := Transaction(src, categories)
		if ok {
			out = append(out, tx)
		}
	}
	return out
}

// Transaction normalizes one entry and reports whether it should be kept.
// The input map is not modified.
func Transaction(src map[string]any, categories []string) (map[string]any, bool) {
	amount, ok := Amount(src["amount"])
	if !ok {
		return nil, false
	}

	tx := make(map[string]any, len(src))
	for k, v := range src {
		tx[k] = v
	}

	desc, _ := tx["description"].(string)
	desc = strings.TrimSpace(desc)
	category, _ := tx["category"].(string)
	if isReward(desc) || isReward(category) {
		return nil, false
	}
	tx["description"] = desc
	tx["amount"] = amount.InexactFloat64()
	tx["category"] = normalizeCategory(category, categories)

	if t, ok := NormalizeTime(tx["time"]); ok {
		tx["time"] = t
	} else {
		delete(tx, "time")
	}

	if typ, _ := tx["type"].(string); typ != models.TypeIncome {
		tx["type"] = models.TypeExpense
	} else {
		delete(tx, "priority")
	}
	if p, ok := tx["priority"]; ok {
		if c := Choice(p, []string{models.PriorityMustHave, models.PriorityNiceToHave}); c != nil {
			tx["priority"] = *c
		} else {
			delete(tx, "priority")
		}
	}

	return tx, true
}

func normalizeCategory(category string, allowed []string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return models.CategoryUnknown
	}
	if len(allowed) == 0 {
		return category
	}
	if match := Choice(category, allowed); match != nil {
		return *match
	}
	return models.CategoryUnknown
}

func isReward(s string) bool {
	lower := strings.ToLower(s)
	for _, m := range rewardMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
