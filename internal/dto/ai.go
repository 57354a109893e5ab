package dto

import (
	"encoding/json"
	"strings"
)

// Option is a selectable value sent by the frontend either as a bare string
// or as an object with id, name and owner.
type Option struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Owner string `json:"owner,omitempty"`
}

func (o *Option) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*o = Option{Name: s}
		return nil
	}
	type plain Option
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*o = Option(p)
	return nil
}

// Names returns the option names, skipping blanks.
func Names(opts []Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		if o.Name != "" {
			out = append(out, o.Name)
		}
	}
	return out
}

// ParseOptions reads a multipart list field: a JSON array of strings or
// objects, or a comma-separated list.
func ParseOptions(raw string) []Option {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var opts []Option
		if err := json.Unmarshal([]byte(raw), &opts); err == nil {
			return opts
		}
	}
	var opts []Option
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			opts = append(opts, Option{Name: item})
		}
	}
	return opts
}

type MediaInput struct {
	Data       []byte
	MIMEType   string
	Categories []Option
	Users      []Option
}

type TransactionsResponse struct {
	Transactions []map[string]any `json:"transactions"`
}

type FinancialAdviceRequest struct {
	Transactions []map[string]any `json:"transactions"`
	Budget       any              `json:"budget"`
}

type ChartAdviceRequest struct {
	ChartType  string           `json:"chartType"`
	ChartTitle string           `json:"chartTitle"`
	Data       []map[string]any `json:"data"`
}

type AdviceResponse struct {
	Advice *string `json:"advice"`
}

type AutofillRequest struct {
	Description        string           `json:"description"`
	TransactionType    string           `json:"transactionType"`
	Categories         []Option         `json:"categories"`
	SubCategories      []Option         `json:"subCategories"`
	Users              []Option         `json:"users"`
	PaymentMethods     []Option         `json:"paymentMethods"`
	RecentTransactions []map[string]any `json:"recentTransactions"`
}

// AutofillSuggestion always serializes every field; unknown values are null.
type AutofillSuggestion struct {
	Category        *string  `json:"category"`
	SubCategory     *string  `json:"subCategory"`
	User            *string  `json:"user"`
	Priority        *string  `json:"priority"`
	PaymentMethodID *string  `json:"paymentMethodId"`
	Amount          *float64 `json:"amount"`
}
