package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	timePattern   = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})$`)
	amountCleaner = regexp.MustCompile(`[^0-9.,\-]`)
)

// NormalizeTime accepts H:MM or HH:MM (one or two minute digits) with hour in
// [0,24) and minute in [0,60) and returns it as HH:MM. Anything else reports
// false and the field should be dropped.
func NormalizeTime(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	m := timePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour >= 24 || minute >= 60 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// Amount reads a positive money amount from a number or a string such as
// "1 234,50" and rounds it to two places.
func Amount(v any) (decimal.Decimal, bool) {
	var d decimal.Decimal
	switch n := v.(type) {
	case float64:
		d = decimal.NewFromFloat(n)
	case int:
		d = decimal.NewFromInt(int64(n))
	case int64:
		d = decimal.NewFromInt(n)
	case json.Number:
		parsed, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, false
		}
		d = parsed
	case string:
		parsed, ok := parseAmountString(n)
		if !ok {
			return decimal.Zero, false
		}
		d = parsed
	default:
		return decimal.Zero, false
	}

	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

func parseAmountString(s string) (decimal.Decimal, bool) {
	s = normalizeSeparators(amountCleaner.ReplaceAllString(s, ""))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// normalizeSeparators rewrites s so the decimal point, if any, is a single '.'.
// With both '.' and ',' present the last one is the decimal point. A single
// separator kind counts as grouping when it repeats or is followed by exactly
// three digits.
func normalizeSeparators(s string) string {
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	if dot < 0 && comma < 0 {
		return s
	}

	point, group := ".", ","
	last := dot
	if comma > dot {
		point, group, last = ",", ".", comma
	}

	if dot < 0 || comma < 0 {
		if strings.Count(s, point) > 1 || len(s)-last-1 == 3 {
			return strings.ReplaceAll(s, point, "")
		}
	}
	return strings.ReplaceAll(s[:last], group, "") + "." + s[last+1:]
}

// Choice returns the allowed value matching v case-insensitively, or nil.
func Choice(v any, allowed []string) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, a := range allowed {
		if strings.EqualFold(a, s) {
			match := a
			return &match
		}
	}
	return nil
}
