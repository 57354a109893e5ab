// Package extract pulls structured data out of free-form model output and
// normalizes the fields the ledger relies on. Every function is pure.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
)

var (
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
	arrayPattern  = regexp.MustCompile(`(?s)\[.*\]`)
)

// emptyPhrases are what models say instead of returning an empty array.
var emptyPhrases = []string{
	"no transactions",
	"no transaction found",
	"no purchases",
	"nothing found",
	"транзакций нет",
	"нет транзакций",
	"транзакции не найдены",
	"транзакций не найдено",
	"ничего не найдено",
	"не обнаружено",
}

// Object decodes the widest {...} span in raw.
func Object(raw string) (map[string]any, error) {
	span := objectPattern.FindString(raw)
	if span == "" {
		return nil, errs.NewMalformedOutputError(raw)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		return nil, errs.NewMalformedOutputError(raw)
	}
	return out, nil
}

// Array decodes the widest [...] span in raw.
func Array(raw string) ([]any, error) {
	span := arrayPattern.FindString(raw)
	if span == "" {
		return nil, errs.NewMalformedOutputError(raw)
	}
	var out []any
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		return nil, errs.NewMalformedOutputError(raw)
	}
	return out, nil
}

// ArrayOrEmpty is Array, except that output with no array which says nothing
// was found yields an empty slice instead of an error.
func ArrayOrEmpty(raw string) ([]any, error) {
	if !arrayPattern.MatchString(raw) && SaysNothingFound(raw) {
		return []any{}, nil
	}
	return Array(raw)
}

func SaysNothingFound(raw string) bool {
	lower := strings.ToLower(raw)
	for _, phrase := range emptyPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
