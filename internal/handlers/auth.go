package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/surenmigorskiy-ui/duo-backend/internal/dto"
	"github.com/surenmigorskiy-ui/duo-backend/internal/response"
)

type authService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error)
}

type authHandlers struct {
	ResponseHandler response.ResponseHandler
	AuthSvc         authService
}

func NewAuthHandlers(deps *Deps) *authHandlers {
	return &authHandlers{
		ResponseHandler: deps.ResponseHandler,
		AuthSvc:         deps.AuthSvc,
	}
}

func (h *authHandlers) AuthRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	return r
}

func (h *authHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var body dto.RegisterRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.AuthSvc.Register(r.Context(), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, resp)
}

func (h *authHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var body dto.LoginRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.AuthSvc.Login(r.Context(), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}
