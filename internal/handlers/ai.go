package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/surenmigorskiy-ui/duo-backend/internal/dto"
	"github.com/surenmigorskiy-ui/duo-backend/internal/middleware"
	"github.com/surenmigorskiy-ui/duo-backend/internal/response"
)

type aiService interface {
	ParseReceipt(ctx context.Context, familyID string, in dto.MediaInput) (map[string]any, error)
	ParseBulkReceipt(ctx context.Context, familyID string, in dto.MediaInput) (dto.TransactionsResponse, error)
	ParseAudio(ctx context.Context, familyID string, in dto.MediaInput) (dto.TransactionsResponse, error)
	FinancialAdvice(ctx context.Context, req dto.FinancialAdviceRequest) (dto.AdviceResponse, error)
	ChartAdvice(ctx context.Context, req dto.ChartAdviceRequest) (dto.AdviceResponse, error)
	Autofill(ctx context.Context, familyID string, req dto.AutofillRequest) (dto.AutofillSuggestion, error)
}

type aiHandlers struct {
	ResponseHandler response.ResponseHandler
	AISvc           aiService
}

func NewAIHandlers(deps *Deps) *aiHandlers {
	return &aiHandlers{
		ResponseHandler: deps.ResponseHandler,
		AISvc:           deps.AISvc,
	}
}

func (h *aiHandlers) AIRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/parse-receipt", h.ParseReceipt)
	r.Post("/parse-bulk-receipt", h.ParseBulkReceipt)
	r.Post("/parse-audio", h.ParseAudio)
	r.Post("/financial-advice", h.FinancialAdvice)
	r.Post("/chart-advice", h.ChartAdvice)
	r.Post("/autofill", h.Autofill)
	return r
}

func (h *aiHandlers) ParseReceipt(w http.ResponseWriter, r *http.Request) {
	in, err := mediaInput(r, "image")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	tx, err := h.AISvc.ParseReceipt(r.Context(), middleware.FamilyID(r.Context()), in)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tx)
}

func (h *aiHandlers) ParseBulkReceipt(w http.ResponseWriter, r *http.Request) {
	in, err := mediaInput(r, "image")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.AISvc.ParseBulkReceipt(r.Context(), middleware.FamilyID(r.Context()), in)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *aiHandlers) ParseAudio(w http.ResponseWriter, r *http.Request) {
	in, err := mediaInput(r, "audio")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.AISvc.ParseAudio(r.Context(), middleware.FamilyID(r.Context()), in)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *aiHandlers) FinancialAdvice(w http.ResponseWriter, r *http.Request) {
	var body dto.FinancialAdviceRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.AISvc.FinancialAdvice(r.Context(), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *aiHandlers) ChartAdvice(w http.ResponseWriter, r *http.Request) {
	var body dto.ChartAdviceRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.AISvc.ChartAdvice(r.Context(), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *aiHandlers) Autofill(w http.ResponseWriter, r *http.Request) {
	var body dto.AutofillRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.AISvc.Autofill(r.Context(), middleware.FamilyID(r.Context()), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func mediaInput(r *http.Request, field string) (dto.MediaInput, error) {
	data, contentType, err := formFile(r, field)
	if err != nil {
		return dto.MediaInput{}, err
	}
	return dto.MediaInput{
		Data:       data,
		MIMEType:   contentType,
		Categories: dto.ParseOptions(r.FormValue("categories")),
		Users:      dto.ParseOptions(r.FormValue("users")),
	}, nil
}
