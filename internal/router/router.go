package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/surenmigorskiy-ui/duo-backend/internal/handlers"
	"github.com/surenmigorskiy-ui/duo-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	lm := middleware.NewLoggerMiddleware(deps.Log)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(lm.LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	ah := handlers.NewAuthHandlers(deps)
	fh := handlers.NewFamilyHandlers(deps)
	aih := handlers.NewAIHandlers(deps)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		deps.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Mount("/api/auth", ah.AuthRoutes())

	r.Group(func(r chi.Router) {
		r.Use(deps.Middleware.Authenticate)
		r.Mount("/api/family", fh.FamilyRoutes())
		r.Mount("/api/ai", aih.AIRoutes())
	})
	return r
}
