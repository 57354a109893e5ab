package handlers

import (
	"log/slog"

	"github.com/surenmigorskiy-ui/duo-backend/internal/middleware"
	"github.com/surenmigorskiy-ui/duo-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Middleware      *middleware.Middleware
	AuthSvc         authService
	FamilySvc       familyService
	AISvc           aiService
}
