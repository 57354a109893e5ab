package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/surenmigorskiy-ui/duo-backend/internal/dto"
	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
	"github.com/surenmigorskiy-ui/duo-backend/internal/extract"
	"github.com/surenmigorskiy-ui/duo-backend/internal/ledger"
	"github.com/surenmigorskiy-ui/duo-backend/internal/llm"
	"github.com/surenmigorskiy-ui/duo-backend/internal/models"
	"github.com/surenmigorskiy-ui/duo-backend/internal/patterns"
	"github.com/surenmigorskiy-ui/duo-backend/pkg/helpers"
	"github.com/surenmigorskiy-ui/duo-backend/pkg/logger"
)

const (
	adviceWindow        = 50
	minAutofillHintRune = 2
)

type textGenerator interface {
	Generate(ctx context.Context, req llm.Request) (llm.Result, error)
}

type ledgerReader interface {
	Get(ctx context.Context, familyID string) (map[string]any, error)
}

type receiptArchiver interface {
	Save(ctx context.Context, familyID string, data []byte, contentType string) (string, error)
}

type aiService struct {
	gen      textGenerator
	families ledgerReader
	archive  receiptArchiver
	language string
	clockNow func() time.Time
}

func NewAIService(gen textGenerator, families ledgerReader, language string) *aiService {
	return &aiService{
		gen:      gen,
		families: families,
		language: language,
		clockNow: time.Now,
	}
}

// WithReceiptArchive keeps a copy of every parsed receipt image.
func (s *aiService) WithReceiptArchive(archive receiptArchiver) *aiService {
	s.archive = archive
	return s
}

func (s *aiService) ParseReceipt(ctx context.Context, familyID string, in dto.MediaInput) (map[string]any, error) {
	if len(in.Data) == 0 {
		return nil, errs.NewValidationError("image is required")
	}
	log := logger.FromContext(ctx)
	categories := dto.Names(in.Categories)
	summary := patterns.Mine(s.history(ctx, familyID), "")

	res, err := s.gen.Generate(ctx, llm.Request{
		Prompt:   receiptPrompt(s.language, s.today(), categories, summary.Guidance()),
		Image:    in.Data,
		MIMEType: in.MIMEType,
	})
	if err != nil {
		return nil, err
	}

	obj, err := extract.Object(res.Text)
	if err != nil {
		log.Warn("receipt output held no object", "provider", res.Provider, "model", res.Model)
		return nil, err
	}
	tx, ok := extract.Transaction(obj, categories)
	if !ok {
		return nil, errs.NewMalformedOutputError(res.Text)
	}
	if d, _ := tx["date"].(string); strings.TrimSpace(d) == "" {
		tx["date"] = s.today()
	}

	s.archiveReceipt(ctx, familyID, in)
	log.Info("receipt parsed", "provider", res.Provider, "model", res.Model)
	return tx, nil
}

func (s *aiService) ParseBulkReceipt(ctx context.Context, familyID string, in dto.MediaInput) (dto.TransactionsResponse, error) {
	if len(in.Data) == 0 {
		return dto.TransactionsResponse{}, errs.NewValidationError("image is required")
	}
	log := logger.FromContext(ctx)
	categories := dto.Names(in.Categories)
	summary := patterns.Mine(s.history(ctx, familyID), "")

	res, err := s.gen.Generate(ctx, llm.Request{
		Prompt:   bulkReceiptPrompt(s.language, s.today(), categories, summary.Guidance()),
		Image:    in.Data,
		MIMEType: in.MIMEType,
	})
	if err != nil {
		return dto.TransactionsResponse{}, err
	}

	items, err := extract.ArrayOrEmpty(res.Text)
	if err != nil {
		return dto.TransactionsResponse{}, err
	}
	txs := extract.Transactions(items, categories)
	s.fillDates(txs)

	s.archiveReceipt(ctx, familyID, in)
	log.Info("bulk receipt parsed", "provider", res.Provider, "model", res.Model, "found", len(items), "kept", len(txs))
	return dto.TransactionsResponse{Transactions: txs}, nil
}

func (s *aiService) ParseAudio(ctx context.Context, familyID string, in dto.MediaInput) (dto.TransactionsResponse, error) {
	if len(in.Data) == 0 {
		return dto.TransactionsResponse{}, errs.NewValidationError("audio is required")
	}
	log := logger.FromContext(ctx)
	categories := dto.Names(in.Categories)
	users := dto.Names(in.Users)
	summary := patterns.Mine(s.history(ctx, familyID), "")

	res, err := s.gen.Generate(ctx, llm.Request{
		Prompt:   audioPrompt(s.language, s.today(), categories, users, summary.Guidance()),
		Audio:    in.Data,
		MIMEType: in.MIMEType,
	})
	if err != nil {
		return dto.TransactionsResponse{}, err
	}

	items, err := extract.ArrayOrEmpty(res.Text)
	if err != nil {
		return dto.TransactionsResponse{}, err
	}
	txs := extract.Transactions(items, categories)
	s.fillDates(txs)
	if len(users) > 0 {
		allowed := append(users, models.UserShared)
		for _, tx := range txs {
			tx["user"] = helpers.ValueOr(extract.Choice(tx["user"], allowed), models.UserShared)
		}
	}

	log.Info("audio parsed", "provider", res.Provider, "model", res.Model, "found", len(items), "kept", len(txs))
	return dto.TransactionsResponse{Transactions: txs}, nil
}

func (s *aiService) FinancialAdvice(ctx context.Context, req dto.FinancialAdviceRequest) (dto.AdviceResponse, error) {
	if len(req.Transactions) == 0 {
		return dto.AdviceResponse{}, errs.NewValidationError("transactions are required")
	}
	recent := req.Transactions
	if len(recent) > adviceWindow {
		recent = recent[len(recent)-adviceWindow:]
	}

	res, err := s.gen.Generate(ctx, llm.Request{
		Prompt: financialAdvicePrompt(s.language, recent, distinctCategories(req.Transactions), req.Budget),
	})
	if err != nil {
		return dto.AdviceResponse{}, err
	}

	logger.FromContext(ctx).Info("financial advice generated", "provider", res.Provider, "model", res.Model)
	return dto.AdviceResponse{Advice: helpers.NonEmpty(res.Text)}, nil
}

// ChartAdvice returns a null advice when generation fails; only a missing
// provider configuration is reported.
func (s *aiService) ChartAdvice(ctx context.Context, req dto.ChartAdviceRequest) (dto.AdviceResponse, error) {
	if len(req.Data) == 0 {
		return dto.AdviceResponse{}, errs.NewValidationError("chart data is required")
	}
	log := logger.FromContext(ctx)

	res, err := s.gen.Generate(ctx, llm.Request{Prompt: chartAdvicePrompt(s.language, req)})
	if err != nil {
		if isUnconfigured(err) {
			return dto.AdviceResponse{}, err
		}
		log.Warn("chart advice unavailable", "error", err)
		return dto.AdviceResponse{}, nil
	}

	log.Info("chart advice generated", "provider", res.Provider, "model", res.Model)
	return dto.AdviceResponse{Advice: helpers.NonEmpty(res.Text)}, nil
}

// Autofill suggests the remaining fields for a transaction being typed. Any
// failure other than a missing provider configuration yields an all-null
// suggestion.
func (s *aiService) Autofill(ctx context.Context, familyID string, req dto.AutofillRequest) (dto.AutofillSuggestion, error) {
	hint := strings.TrimSpace(req.Description)
	if utf8.RuneCountInString(hint) < minAutofillHintRune {
		return dto.AutofillSuggestion{}, nil
	}
	log := logger.FromContext(ctx)

	var history []models.Transaction
	if len(req.RecentTransactions) > 0 {
		history = ledger.Decode(req.RecentTransactions)
	} else {
		history = s.history(ctx, familyID)
	}
	summary := patterns.Mine(history, hint)

	res, err := s.gen.Generate(ctx, llm.Request{Prompt: autofillPrompt(req, summary.Guidance())})
	if err != nil {
		if isUnconfigured(err) {
			return dto.AutofillSuggestion{}, err
		}
		log.Warn("autofill unavailable", "error", err)
		return dto.AutofillSuggestion{}, nil
	}

	obj, err := extract.Object(res.Text)
	if err != nil {
		log.Warn("autofill output held no object", "provider", res.Provider, "model", res.Model)
		return dto.AutofillSuggestion{}, nil
	}

	log.Debug("autofill generated", "provider", res.Provider, "model", res.Model)
	return sanitizeSuggestion(obj, req), nil
}

// history is the family ledger decoded for mining. Mining is best effort, so
// a failed read only loses the guidance.
func (s *aiService) history(ctx context.Context, familyID string) []models.Transaction {
	if familyID == "" {
		return nil
	}
	doc, err := s.families.Get(ctx, familyID)
	if err != nil {
		logger.FromContext(ctx).Warn("ledger unavailable for pattern mining", "error", err)
		return nil
	}
	return ledger.Decode(ledger.Entries(doc))
}

func (s *aiService) archiveReceipt(ctx context.Context, familyID string, in dto.MediaInput) {
	if s.archive == nil {
		return
	}
	log := logger.FromContext(ctx)
	name, err := s.archive.Save(ctx, familyID, in.Data, in.MIMEType)
	if err != nil {
		log.Warn("failed to archive receipt", "error", err)
		return
	}
	log.Debug("receipt archived", "object", name)
}

func (s *aiService) today() string {
	return s.clockNow().Format("2006-01-02")
}

func (s *aiService) fillDates(txs []map[string]any) {
	for _, tx := range txs {
		if d, _ := tx["date"].(string); strings.TrimSpace(d) == "" {
			tx["date"] = s.today()
		}
	}
}

func sanitizeSuggestion(obj map[string]any, req dto.AutofillRequest) dto.AutofillSuggestion {
	var out dto.AutofillSuggestion
	out.Category = pick(obj["category"], dto.Names(req.Categories))
	out.SubCategory = pick(obj["subCategory"], dto.Names(req.SubCategories))

	users := dto.Names(req.Users)
	if len(users) > 0 {
		users = append(users, models.UserShared)
	}
	out.User = pick(obj["user"], users)

	if req.TransactionType != models.TypeIncome {
		out.Priority = extract.Choice(obj["priority"], []string{models.PriorityMustHave, models.PriorityNiceToHave})
	}

	ids := make([]string, 0, len(req.PaymentMethods))
	for _, pm := range req.PaymentMethods {
		ids = append(ids, optionID(pm))
	}
	out.PaymentMethodID = extract.Choice(obj["paymentMethodId"], ids)

	if amount, ok := extract.Amount(obj["amount"]); ok {
		out.Amount = helpers.Ptr(amount.InexactFloat64())
	}
	return out
}

// pick accepts any non-blank string when allowed is empty.
func pick(v any, allowed []string) *string {
	if len(allowed) == 0 {
		s, _ := v.(string)
		return helpers.NonEmpty(s)
	}
	return extract.Choice(v, allowed)
}

func distinctCategories(txs []map[string]any) []string {
	seen := map[string]bool{}
	var out []string
	for _, tx := range txs {
		c, _ := tx["category"].(string)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func isUnconfigured(err error) bool {
	var unconfigured *errs.ProviderUnconfiguredError
	return errors.As(err, &unconfigured)
}
