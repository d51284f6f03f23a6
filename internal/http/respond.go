package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/catalog"
	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/checkout"
	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Retry bool   `json:"retry,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleCoreError maps a pipeline error onto an HTTP status plus the
// machine-readable kind and retry affordance from the error taxonomy.
func handleCoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrSuperseded) {
		// A newer query won; this response carries nothing to display.
		respondError(w, http.StatusConflict, "superseded", err.Error())
		return
	}

	msg := checkout.Describe(err)

	var status int
	switch msg.Kind {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindServerRejection:
		status = http.StatusUnprocessableEntity
	case domain.KindAlreadySubmitting:
		status = http.StatusConflict
	case domain.KindTimeout:
		status = http.StatusGatewayTimeout
	case domain.KindTransport, domain.KindReceipt:
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	respondJSON(w, status, ErrorResponse{
		Error: msg.Message,
		Code:  string(msg.Kind),
		Retry: msg.Retry,
	})
}
