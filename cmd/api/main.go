package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/surenmigorskiy-ui/duo-backend/internal/auth"
	"github.com/surenmigorskiy-ui/duo-backend/internal/bootstrap"
	"github.com/surenmigorskiy-ui/duo-backend/internal/config"
	"github.com/surenmigorskiy-ui/duo-backend/internal/handlers"
	"github.com/surenmigorskiy-ui/duo-backend/internal/middleware"
	"github.com/surenmigorskiy-ui/duo-backend/internal/response"
	"github.com/surenmigorskiy-ui/duo-backend/internal/router"
	"github.com/surenmigorskiy-ui/duo-backend/internal/services"
	"github.com/surenmigorskiy-ui/duo-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg, err := config.New()
	exitOnError("config failed", err, slog.Default())
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	jwtSecret, _ := cfg.JWTSecret.Get()
	tokens := auth.NewTokens(jwtSecret, cfg.JWTTTL)
	generator := bs.Generator(cfg)
	if !generator.Configured() {
		bs.Log.Warn("no AI provider configured; AI endpoints will fail")
	}

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	fstore := store.NewFamilyStore(bs.Firestore)

	// services
	authserv := services.NewAuthService(ustore, fstore, tokens)
	famserv := services.NewFamilyService(fstore, ustore, tokens, cfg.FrontendURL)
	aiserv := services.NewAIService(generator, fstore, cfg.ResponseLanguage)
	if bs.Storage != nil {
		aiserv.WithReceiptArchive(store.NewReceiptArchive(bs.Storage, cfg.ReceiptBucket))
	}

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Middleware = middleware.NewMiddleware(tokens, rh)
	deps.AuthSvc = authserv
	deps.FamilySvc = famserv
	deps.AISvc = aiserv

	// router
	r := router.NewRouter(deps)
	bs.Log.Info("server listening", "port", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
