package api

import (
	"encoding/json"
	"errors"
	"github.com/bridgescan/wormhole-ingester/entities"
	"go.uber.org/zap"
	"net/http"
	"time"
)

type statusStore interface {
	GetLastProcessedDate() (time.Time, error)
}

type Handler struct {
	store  statusStore
	logger *zap.SugaredLogger
}

type HealthResponse struct {
	Status string `json:"status"`
}

type StatusResponse struct {
	LastProcessedDate string `json:"lastProcessedDate"`
}

func NewHandler(store statusStore, logger *zap.SugaredLogger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) GetHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, HealthResponse{Status: "UP"})
}

// GetStatus returns the last processed date. The date is empty if no day was processed yet.
func (h *Handler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	var response StatusResponse

	date, err := h.store.GetLastProcessedDate()
	switch {
	case errors.Is(err, entities.ErrStoreEntityNotFound):
	case err != nil:
		h.logger.Errorw("Error getting last processed date", "error", err)
		http.Error(w, "Error getting last processed date", http.StatusInternalServerError)
		return
	default:
		response.LastProcessedDate = date.Format(time.DateOnly)
	}

	h.writeJSON(w, response)
}

func (h *Handler) writeJSON(w http.ResponseWriter, response any) {
	w.Header().Add("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		h.logger.Errorw("Error encoding response", "error", err)
		http.Error(w, "Error encoding response", http.StatusInternalServerError)
		return
	}
}
