package patterns

import (
	"fmt"
	"strings"
)

var fieldLabels = map[Field]string{
	FieldCategory:      "category",
	FieldSubCategory:   "subcategory",
	FieldUser:          "user",
	FieldPaymentMethod: "payment method",
	FieldPriority:      "priority",
}

// Guidance renders the summary as prompt sentences, one per line. A nil
// summary renders as "".
func (s *Summary) Guidance() string {
	if s == nil {
		return ""
	}
	var lines []string

	for _, f := range Fields {
		if r, ok := s.Top[f]; ok {
			lines = append(lines, fmt.Sprintf("The %s %q was used %d times in recent transactions.", fieldLabels[f], r.Value, r.Count))
		}
	}
	for _, f := range Fields {
		if r, ok := s.Similar[f]; ok {
			lines = append(lines, fmt.Sprintf("Transactions with a similar description used the %s %q %d times.", fieldLabels[f], r.Value, r.Count))
		}
	}

	if len(s.Exemplars) > 0 {
		lines = append(lines, "The household already names its purchases as follows. When a new transaction matches one of these, reuse the existing description verbatim instead of inventing a new one.")
		for _, e := range s.Exemplars {
			quoted := make([]string, len(e.Descriptions))
			for i, d := range e.Descriptions {
				quoted[i] = fmt.Sprintf("%q", d)
			}
			target := fmt.Sprintf("%q", e.Category)
			if e.SubCategory != "" {
				target = fmt.Sprintf("%q / %q", e.Category, e.SubCategory)
			}
			lines = append(lines, fmt.Sprintf("- %s: %s (most frequent: %q)", target, strings.Join(quoted, ", "), e.MostFrequent.Value))
		}
	}

	return strings.Join(lines, "\n")
}
