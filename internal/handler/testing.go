package handler

import (
	"context"
	"log/slog"
	"net/http"
)

// Wiper empties every table.
type Wiper interface {
	DeleteAll(ctx context.Context) error
}

// TestingHandler serves DELETE /testing/all-data. The router only mounts
// it when TESTING_ROUTES is set.
type TestingHandler struct {
	store  Wiper
	logger *slog.Logger
}

func NewTestingHandler(store Wiper, logger *slog.Logger) *TestingHandler {
	return &TestingHandler{store: store, logger: logger}
}

// HandleDeleteAll wipes all data.
//
// HTTP: DELETE /testing/all-data
func (h *TestingHandler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAll(r.Context()); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
