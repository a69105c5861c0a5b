package service

import (
	"context"
	"log/slog"

	"github.com/sakif/bloggers-platform/internal/repository"
)

// MaintenanceService wipes all data. It backs the testing route only.
type MaintenanceService struct {
	store  repository.Wiper
	logger *slog.Logger
}

func NewMaintenanceService(store repository.Wiper, logger *slog.Logger) *MaintenanceService {
	return &MaintenanceService{store: store, logger: logger}
}

func (s *MaintenanceService) DeleteAll(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return err
	}
	s.logger.Warn("all data deleted")
	return nil
}
