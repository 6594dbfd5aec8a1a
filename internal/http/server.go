package http

import (
	"github.com/gin-gonic/gin"

	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
)

// Server owns the configured gin engine and the listen loop.
type Server struct {
	Engine *gin.Engine
	log    *logger.Logger
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{
		Engine: NewRouter(cfg),
		log:    cfg.Log.With("component", "HTTPServer"),
	}
}

func (s *Server) Run(address string) error {
	s.log.Info("Listening", "address", address)
	return s.Engine.Run(address)
}
