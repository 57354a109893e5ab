// Package ledger holds the pure list operations applied to a family's
// transaction array. The array is kept newest-first: every import is
// prepended, so position doubles as recency.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
	"github.com/surenmigorskiy-ui/duo-backend/internal/models"
)

// Entry is one stored transaction. Unknown keys are preserved.
type Entry = map[string]any

const (
	keyID              = "id"
	keyDate            = "date"
	keyPriority        = "priority"
	keyImportTimestamp = "_importTimestamp"

	bulkPrefix = "bulk-"
)

// RequiredFields must be present and non-null on every imported entry.
var RequiredFields = []string{"description", "amount", "category", "date", "user", "type"}

// PrepareImport validates a batch and tags every entry with ts. Entries keep a
// client-supplied id; the rest get bulk-{ts}-{index}-{suffix}. The input maps
// are not modified.
func PrepareImport(batch []Entry, ts int64, suffix func() string) ([]Entry, error) {
	if len(batch) == 0 {
		return nil, errs.NewValidationError("transactions must be a non-empty array")
	}
	for i, tx := range batch {
		for _, field := range RequiredFields {
			if v, ok := tx[field]; !ok || v == nil {
				return nil, errs.NewValidationError(fmt.Sprintf("transaction %d is missing required field: %s", i+1, field))
			}
		}
	}

	out := make([]Entry, len(batch))
	for i, tx := range batch {
		e := make(Entry, len(tx)+2)
		for k, v := range tx {
			e[k] = v
		}
		if id := e[keyID]; id == nil || id == "" {
			e[keyID] = fmt.Sprintf("%s%d-%d-%s", bulkPrefix, ts, i, suffix())
		}
		if p, _ := e[keyPriority].(string); p == "" {
			e[keyPriority] = models.PriorityNiceToHave
		}
		e[keyDate] = normalizeDate(e[keyDate])
		e[keyImportTimestamp] = ts
		out[i] = e
	}
	return out, nil
}

// Prepend puts batch in front of existing.
func Prepend(existing, batch []Entry) []Entry {
	out := make([]Entry, 0, len(batch)+len(existing))
	out = append(out, batch...)
	return append(out, existing...)
}

// RemoveImport drops every entry of the import tagged ts, matched by
// _importTimestamp or by a bulk-{ts}- id prefix.
func RemoveImport(entries []Entry, ts int64) ([]Entry, int) {
	prefix := fmt.Sprintf("%s%d-", bulkPrefix, ts)
	return filter(entries, func(e Entry) bool {
		if v, ok := toInt64(e[keyImportTimestamp]); ok && v == ts {
			return true
		}
		id, _ := e[keyID].(string)
		return strings.HasPrefix(id, prefix)
	})
}

// RemoveAllImports drops every entry that came from any bulk import.
func RemoveAllImports(entries []Entry) ([]Entry, int) {
	return filter(entries, func(e Entry) bool {
		if _, ok := toInt64(e[keyImportTimestamp]); ok {
			return true
		}
		id, _ := e[keyID].(string)
		return strings.HasPrefix(id, bulkPrefix)
	})
}

// RemoveYear drops entries dated in year. Undated entries and dates that do
// not parse are kept.
func RemoveYear(entries []Entry, year int) ([]Entry, int) {
	return filter(entries, func(e Entry) bool {
		t, ok := parseDate(e[keyDate])
		return ok && t.Year() == year
	})
}

func filter(entries []Entry, drop func(Entry) bool) ([]Entry, int) {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !drop(e) {
			kept = append(kept, e)
		}
	}
	return kept, len(entries) - len(kept)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

func parseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		if ms, ok := toInt64(v); ok {
			return time.UnixMilli(ms).UTC(), true
		}
		return time.Time{}, false
	}
}

// normalizeDate renders non-string dates (epoch millis, timestamps) as
// RFC 3339 in UTC; strings pass through.
func normalizeDate(v any) any {
	if s, ok := v.(string); ok {
		return s
	}
	if t, ok := parseDate(v); ok {
		return t.UTC().Format("2006-01-02T15:04:05.000Z")
	}
	return v
}
