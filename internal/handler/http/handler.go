package http

import (
	"modelhub/internal/logger"
	"modelhub/internal/service"
)

// Handler owns the HTTP route handlers and their shared collaborators.
// uploadDir is the local directory served under /uploads/; it is empty when
// assets live in object storage and no local files exist to serve.
type Handler struct {
	services *service.Services

	uploadDir string

	logger *logger.Logger
}

func NewHandler(services *service.Services, uploadDir string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:  services,
		uploadDir: uploadDir,
		logger:    logger,
	}
}
