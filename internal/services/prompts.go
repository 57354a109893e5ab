package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/surenmigorskiy-ui/duo-backend/internal/dto"
	"github.com/surenmigorskiy-ui/duo-backend/internal/models"
)

const chartPointLimit = 10

const transactionSchema = `{"description": string, "amount": number, "category": string, "date": "YYYY-MM-DD", "time": "HH:MM", "type": "expense" | "income", "priority": "must-have" | "nice-to-have"}`

func receiptPrompt(language, today string, categories []string, guidance string) string {
	var b strings.Builder
	b.WriteString("You are reading a photo of a purchase receipt.\n")
	b.WriteString("Return a single JSON object and nothing else, in this shape:\n")
	b.WriteString(transactionSchema + "\n")
	b.WriteString("amount is the final total paid. Omit time when it is not printed. ")
	fmt.Fprintf(&b, "If the date is not printed use %s.\n", today)
	writeCategories(&b, categories)
	fmt.Fprintf(&b, "Write the description in %s: a short name of the store or purchase.\n", language)
	writeGuidance(&b, guidance)
	return b.String()
}

func bulkReceiptPrompt(language, today string, categories []string, guidance string) string {
	var b strings.Builder
	b.WriteString("The image lists several transactions, for example a bank statement or a long receipt.\n")
	b.WriteString("Return a JSON array with one object per transaction and nothing else. Each object has this shape:\n")
	b.WriteString(transactionSchema + "\n")
	b.WriteString("Skip cashback, bonus and reward lines. ")
	fmt.Fprintf(&b, "When a date is missing use %s. If the image holds no transactions return [].\n", today)
	writeCategories(&b, categories)
	fmt.Fprintf(&b, "Write descriptions in %s.\n", language)
	writeGuidance(&b, guidance)
	return b.String()
}

func audioPrompt(language, today string, categories, users []string, guidance string) string {
	var b strings.Builder
	b.WriteString("The audio is a household member dictating one or more transactions.\n")
	b.WriteString("Return a JSON array with one object per transaction and nothing else. Each object has this shape:\n")
	b.WriteString(`{"description": string, "amount": number, "category": string, "user": string, "date": "YYYY-MM-DD", "time": "HH:MM", "type": "expense" | "income", "priority": "must-have" | "nice-to-have"}` + "\n")
	fmt.Fprintf(&b, "Today is %s; resolve words like \"yesterday\" against it. If nothing in the audio is a transaction return [].\n", today)
	writeCategories(&b, categories)
	if len(users) > 0 {
		fmt.Fprintf(&b, "user must be one of: %s, or %q when the purchase is for everyone.\n", strings.Join(users, ", "), models.UserShared)
	}
	fmt.Fprintf(&b, "Write descriptions in %s.\n", language)
	writeGuidance(&b, guidance)
	return b.String()
}

func financialAdvicePrompt(language string, transactions []map[string]any, categories []string, budget any) string {
	var b strings.Builder
	b.WriteString("You are a family finance advisor. Review the household's recent transactions and give short, practical advice: where money goes, what looks unusual and what could be cut.\n")
	if len(categories) > 0 {
		fmt.Fprintf(&b, "Categories in use: %s.\n", strings.Join(categories, ", "))
	}
	fmt.Fprintf(&b, "Transactions (JSON):\n%s\n", compactJSON(transactions))
	if budget != nil {
		fmt.Fprintf(&b, "Budget (JSON):\n%s\n", compactJSON(budget))
	}
	fmt.Fprintf(&b, "Answer in %s, in at most five bullet points.\n", language)
	return b.String()
}

func chartAdvicePrompt(language string, req dto.ChartAdviceRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A user is looking at a %s chart titled %q.\n", req.ChartType, req.ChartTitle)
	b.WriteString("Data points:\n")
	for i, point := range req.Data {
		if i == chartPointLimit {
			fmt.Fprintf(&b, "(and %d more)\n", len(req.Data)-chartPointLimit)
			break
		}
		fmt.Fprintf(&b, "%v: %v\n", point["name"], point["value"])
	}
	fmt.Fprintf(&b, "In %s, give one or two sentences of insight about this chart.\n", language)
	return b.String()
}

func autofillPrompt(req dto.AutofillRequest, guidance string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A user is entering a %s transaction described as %q.\n", transactionType(req.TransactionType), strings.TrimSpace(req.Description))
	b.WriteString("Suggest values for the remaining fields.\n")
	writeCategories(&b, dto.Names(req.Categories))
	if names := dto.Names(req.SubCategories); len(names) > 0 {
		fmt.Fprintf(&b, "Subcategories: %s.\n", strings.Join(names, ", "))
	}
	if names := dto.Names(req.Users); len(names) > 0 {
		fmt.Fprintf(&b, "Users: %s, or %q.\n", strings.Join(names, ", "), models.UserShared)
	}
	if len(req.PaymentMethods) > 0 {
		methods := make([]string, 0, len(req.PaymentMethods))
		for _, pm := range req.PaymentMethods {
			label := pm.Name
			if pm.Owner != "" {
				label = fmt.Sprintf("%s (%s)", pm.Name, pm.Owner)
			}
			methods = append(methods, fmt.Sprintf("%s [id: %s]", label, optionID(pm)))
		}
		fmt.Fprintf(&b, "Payment methods: %s.\n", strings.Join(methods, "; "))
	}
	if req.TransactionType != models.TypeIncome {
		fmt.Fprintf(&b, "Priorities: %s, %s.\n", models.PriorityMustHave, models.PriorityNiceToHave)
	}
	writeGuidance(&b, guidance)
	b.WriteString(`Return only a JSON object: {"category": string|null, "subCategory": string|null, "user": string|null, "priority": string|null, "paymentMethodId": string|null, "amount": number|null}. Use null when unsure. amount is only set when the description states it.` + "\n")
	return b.String()
}

func writeCategories(b *strings.Builder, categories []string) {
	if len(categories) == 0 {
		return
	}
	fmt.Fprintf(b, "category must be one of: %s. Use %q when none fits.\n", strings.Join(categories, ", "), models.CategoryUnknown)
}

func writeGuidance(b *strings.Builder, guidance string) {
	if guidance == "" {
		return
	}
	b.WriteString("What this household usually does:\n")
	b.WriteString(guidance)
	b.WriteString("\n")
}

func transactionType(t string) string {
	if t == models.TypeIncome {
		return models.TypeIncome
	}
	return models.TypeExpense
}

func optionID(o dto.Option) string {
	if o.ID != "" {
		return o.ID
	}
	return o.Name
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}
