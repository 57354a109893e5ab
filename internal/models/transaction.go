package models

const (
	TypeExpense = "expense"
	TypeIncome  = "income"

	PriorityMustHave   = "must-have"
	PriorityNiceToHave = "nice-to-have"

	// CategoryUnknown marks a transaction whose category could not be matched.
	CategoryUnknown = "UNKNOWN"

	UserShared = "shared"
)

// Transaction is the typed view of one ledger entry. Entries are persisted as
// maps so fields owned by the frontend survive; this struct carries only the
// fields the backend reads.
type Transaction struct {
	ID              string  `firestore:"id" json:"id"`
	Description     string  `firestore:"description" json:"description"`
	Amount          float64 `firestore:"amount" json:"amount"`
	Category        string  `firestore:"category" json:"category"`
	SubCategory     string  `firestore:"subCategory,omitempty" json:"subCategory,omitempty"`
	Date            string  `firestore:"date" json:"date"`
	Time            string  `firestore:"time,omitempty" json:"time,omitempty"`
	User            string  `firestore:"user" json:"user"`
	Type            string  `firestore:"type" json:"type"`
	Priority        string  `firestore:"priority,omitempty" json:"priority,omitempty"`
	PaymentMethodID string  `firestore:"paymentMethodId,omitempty" json:"paymentMethodId,omitempty"`
	ImportTimestamp int64   `firestore:"_importTimestamp,omitempty" json:"_importTimestamp,omitempty"`
}
