// Package patterns mines a family's recent transactions for the values and
// descriptions it uses most, so prompts can steer the model toward them.
//
// Ties in every ranking go to the value seen first, i.e. the most recent one,
// since histories are newest-first.
package patterns

import (
	"strings"
	"unicode/utf8"

	"github.com/surenmigorskiy-ui/duo-backend/internal/models"
)

const (
	// Window is how many of the most recent records are mined.
	Window = 50
	// HistoryThreshold is the count a whole-window top value must exceed.
	HistoryThreshold = 2
	// SimilarThreshold is the count a top value among similar records must exceed.
	SimilarThreshold = 1
	// SimilarLimit caps the similar records considered.
	SimilarLimit = 20

	MaxExemplarGroups       = 15
	MaxExemplarDescriptions = 5
)

type Field string

const (
	FieldCategory      Field = "category"
	FieldSubCategory   Field = "subCategory"
	FieldUser          Field = "user"
	FieldPaymentMethod Field = "paymentMethodId"
	FieldPriority      Field = "priority"
)

// Fields is the order fields are ranked and rendered in.
var Fields = []Field{FieldCategory, FieldSubCategory, FieldUser, FieldPaymentMethod, FieldPriority}

type Ranked struct {
	Value string
	Count int
}

// Exemplar lists the descriptions a household used for one
// (category, subCategory) pair.
type Exemplar struct {
	Category     string
	SubCategory  string
	Descriptions []string
	MostFrequent Ranked
}

type Summary struct {
	// Top holds whole-window values whose count exceeds HistoryThreshold.
	Top map[Field]Ranked
	// Similar holds values among records matching the hint whose count
	// exceeds SimilarThreshold.
	Similar   map[Field]Ranked
	Exemplars []Exemplar
}

// Mine summarizes history (newest first). It returns nil when history is empty
// or nothing in it is significant.
func Mine(history []models.Transaction, hint string) *Summary {
	if len(history) == 0 {
		return nil
	}
	window := history[:min(len(history), Window)]

	s := &Summary{
		Top:       rank(window, HistoryThreshold),
		Similar:   Similar(history, hint),
		Exemplars: exemplars(window),
	}
	if len(s.Top) == 0 && len(s.Similar) == 0 && len(s.Exemplars) == 0 {
		return nil
	}
	return s
}

// Similar ranks fields over the first SimilarLimit records whose description
// contains any keyword of hint. Keywords are hint words longer than two
// characters, matched case-insensitively.
func Similar(history []models.Transaction, hint string) map[Field]Ranked {
	keywords := Keywords(hint)
	if len(keywords) == 0 {
		return nil
	}

	var matched []models.Transaction
	for _, tx := range history {
		if len(matched) == SimilarLimit {
			break
		}
		desc := strings.ToLower(tx.Description)
		for _, kw := range keywords {
			if strings.Contains(desc, kw) {
				matched = append(matched, tx)
				break
			}
		}
	}
	return rank(matched, SimilarThreshold)
}

func Keywords(hint string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(hint)) {
		if utf8.RuneCountInString(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}

func rank(txs []models.Transaction, threshold int) map[Field]Ranked {
	out := make(map[Field]Ranked)
	for _, f := range Fields {
		var t tally
		for _, tx := range txs {
			t.add(value(tx, f))
		}
		if top, ok := t.top(); ok && top.Count > threshold {
			out[f] = top
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func exemplars(window []models.Transaction) []Exemplar {
	type key struct{ category, subCategory string }
	type group struct {
		key   key
		seen  map[string]bool
		descs []string
		freq  tally
	}

	var groups []*group
	index := make(map[key]*group)
	for _, tx := range window {
		desc := strings.TrimSpace(tx.Description)
		if tx.Category == "" || tx.Category == models.CategoryUnknown || desc == "" {
			continue
		}
		k := key{tx.Category, tx.SubCategory}
		g, ok := index[k]
		if !ok {
			if len(groups) == MaxExemplarGroups {
				continue
			}
			g = &group{key: k, seen: make(map[string]bool)}
			index[k] = g
			groups = append(groups, g)
		}
		g.freq.add(desc)
		if !g.seen[desc] && len(g.descs) < MaxExemplarDescriptions {
			g.seen[desc] = true
			g.descs = append(g.descs, desc)
		}
	}

	out := make([]Exemplar, 0, len(groups))
	for _, g := range groups {
		top, _ := g.freq.top()
		out = append(out, Exemplar{
			Category:     g.key.category,
			SubCategory:  g.key.subCategory,
			Descriptions: g.descs,
			MostFrequent: top,
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func value(tx models.Transaction, f Field) string {
	switch f {
	case FieldCategory:
		return tx.Category
	case FieldSubCategory:
		return tx.SubCategory
	case FieldUser:
		return tx.User
	case FieldPaymentMethod:
		return tx.PaymentMethodID
	case FieldPriority:
		return tx.Priority
	default:
		return ""
	}
}

// tally counts values and remembers first-seen order for tie-breaks.
type tally struct {
	order  []string
	counts map[string]int
}

func (t *tally) add(v string) {
	if v == "" {
		return
	}
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, ok := t.counts[v]; !ok {
		t.order = append(t.order, v)
	}
	t.counts[v]++
}

func (t *tally) top() (Ranked, bool) {
	var best Ranked
	for _, v := range t.order {
		if c := t.counts[v]; c > best.Count {
			best = Ranked{Value: v, Count: c}
		}
	}
	return best, best.Count > 0
}
