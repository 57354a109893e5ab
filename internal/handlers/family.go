package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/surenmigorskiy-ui/duo-backend/internal/dto"
	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
	"github.com/surenmigorskiy-ui/duo-backend/internal/ledger"
	"github.com/surenmigorskiy-ui/duo-backend/internal/middleware"
	"github.com/surenmigorskiy-ui/duo-backend/internal/models"
	"github.com/surenmigorskiy-ui/duo-backend/internal/response"
)

type familyService interface {
	Members(ctx context.Context, familyID string) ([]models.User, error)
	Data(ctx context.Context, familyID string) (map[string]any, error)
	SaveData(ctx context.Context, familyID string, data map[string]any) error
	ResetData(ctx context.Context, familyID string) error
	CreateInvitation(ctx context.Context, familyID string) (models.Invitation, error)
	Join(ctx context.Context, userID, code string) (dto.JoinResponse, error)
	BulkAdd(ctx context.Context, familyID string, batch []ledger.Entry) (dto.BulkAddResponse, error)
	RollbackImport(ctx context.Context, familyID string, ts int64) (dto.RemoveResponse, error)
	DeleteYear(ctx context.Context, familyID string, year int) (dto.RemoveResponse, error)
}

type familyHandlers struct {
	ResponseHandler response.ResponseHandler
	FamilySvc       familyService
}

func NewFamilyHandlers(deps *Deps) *familyHandlers {
	return &familyHandlers{
		ResponseHandler: deps.ResponseHandler,
		FamilySvc:       deps.FamilySvc,
	}
}

func (h *familyHandlers) FamilyRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/members", h.Members)
	r.Route("/data", func(r chi.Router) {
		r.Get("/", h.Data)
		r.Put("/", h.SaveData)
		r.Delete("/", h.ResetData)
	})
	r.Post("/invitation", h.CreateInvitation)
	r.Post("/join", h.Join)
	r.Route("/transactions", func(r chi.Router) {
		r.Post("/bulk", h.BulkAdd)
		r.Delete("/bulk/{importTimestamp}", h.RollbackImport)
		r.Delete("/by-year/{year}", h.DeleteYear)
	})
	return r
}

func (h *familyHandlers) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.FamilySvc.Members(r.Context(), middleware.FamilyID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, members)
}

func (h *familyHandlers) Data(w http.ResponseWriter, r *http.Request) {
	data, err := h.FamilySvc.Data(r.Context(), middleware.FamilyID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, data)
}

func (h *familyHandlers) SaveData(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	if err := h.FamilySvc.SaveData(r.Context(), middleware.FamilyID(r.Context()), body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.MessageResponse{Success: true, Message: "data saved"})
}

func (h *familyHandlers) ResetData(w http.ResponseWriter, r *http.Request) {
	if err := h.FamilySvc.ResetData(r.Context(), middleware.FamilyID(r.Context())); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.MessageResponse{Success: true, Message: "data reset"})
}

func (h *familyHandlers) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	inv, err := h.FamilySvc.CreateInvitation(r.Context(), middleware.FamilyID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, inv)
}

func (h *familyHandlers) Join(w http.ResponseWriter, r *http.Request) {
	var body dto.JoinRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.FamilySvc.Join(r.Context(), middleware.UserID(r.Context()), body.InviteCode)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *familyHandlers) BulkAdd(w http.ResponseWriter, r *http.Request) {
	var body dto.BulkAddRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.FamilySvc.BulkAdd(r.Context(), middleware.FamilyID(r.Context()), body.Transactions)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *familyHandlers) RollbackImport(w http.ResponseWriter, r *http.Request) {
	ts, err := strconv.ParseInt(chi.URLParam(r, "importTimestamp"), 10, 64)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("importTimestamp must be an integer"))
		return
	}

	resp, err := h.FamilySvc.RollbackImport(r.Context(), middleware.FamilyID(r.Context()), ts)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *familyHandlers) DeleteYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("year must be a positive integer"))
		return
	}

	resp, err := h.FamilySvc.DeleteYear(r.Context(), middleware.FamilyID(r.Context()), year)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}
