package app

import (
	httpMW "github.com/holtzen/flatdocs-backend/internal/http/middleware"
	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
	Gate *httpMW.AccessGate
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
		Gate: httpMW.NewAccessGate(log),
	}
}
