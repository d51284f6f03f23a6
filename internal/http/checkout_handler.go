package http

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/checkout"
	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/journal"
	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/receipt"
)

type CheckoutHandler struct {
	sessions *Sessions
	journal  *journal.Journal // optional
}

func NewCheckoutHandler(sessions *Sessions, jnl *journal.Journal) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, journal: jnl}
}

type CheckoutResponseDTO struct {
	OrderID      int64                 `json:"orderId"`
	TotalAmount  int64                 `json:"totalAmount"`
	CreatedAt    time.Time             `json:"createdAt"`
	ReceiptReady bool                  `json:"receiptReady"`
	ReceiptError *checkout.UserMessage `json:"receiptError,omitempty"`
}

// Checkout runs the full submit-then-receipt flow for the session. A failed
// receipt fetch does not fail the request; the committed order is reported
// together with the receipt error so the client can re-fetch later.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctrl := h.sessions.Get(sessionKeyFromContext(r.Context()))

	res, err := ctrl.Checkout(r.Context())
	if err != nil {
		handleCoreError(w, err)
		return
	}

	resp := CheckoutResponseDTO{
		OrderID:      res.Order.ID,
		TotalAmount:  res.Order.TotalAmount,
		CreatedAt:    res.Order.CreatedAt,
		ReceiptReady: res.Receipt != nil,
	}
	if res.ReceiptErr != nil {
		msg := checkout.Describe(res.ReceiptErr)
		resp.ReceiptError = &msg
	}

	respondJSON(w, http.StatusCreated, resp)
}

// DownloadReceipt streams the staged receipt and releases it after a complete
// transfer. The handle serves one download; a second request gets 410.
func (h *CheckoutHandler) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	ctrl := h.sessions.Get(sessionKeyFromContext(r.Context()))

	handle := ctrl.ReceiptHandle()
	if handle == nil {
		respondError(w, http.StatusNotFound, "no_receipt", "no receipt is staged for this session")
		return
	}

	body, err := handle.Open()
	if err != nil {
		switch {
		case errors.Is(err, receipt.ErrConsumed):
			respondError(w, http.StatusGone, "receipt_consumed", "the receipt was already downloaded")
		case errors.Is(err, receipt.ErrReleased):
			respondError(w, http.StatusGone, "receipt_released", "the receipt is no longer available")
		default:
			respondError(w, http.StatusInternalServerError, "receipt_open_failed", "failed to open the receipt")
		}
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("receipt-%d.pdf", handle.OrderID())))
	w.Header().Set("Content-Length", strconv.FormatInt(handle.Size(), 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		// The response is already committed; nothing more can be sent.
		log.Printf("receipt download for order %d aborted: %v", handle.OrderID(), err)
		return
	}

	ctrl.DismissReceipt()
}

func (h *CheckoutHandler) DismissReceipt(w http.ResponseWriter, r *http.Request) {
	ctrl := h.sessions.Get(sessionKeyFromContext(r.Context()))
	ctrl.DismissReceipt()
	w.WriteHeader(http.StatusNoContent)
}

type OrderHistoryResponseDTO struct {
	Orders []journal.Entry `json:"orders"`
}

func (h *CheckoutHandler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		respondError(w, http.StatusNotFound, "journal_disabled", "order history is not enabled")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 200")
			return
		}
		limit = parsed
	}

	entries, err := h.journal.History(r.Context(), limit)
	if err != nil {
		log.Printf("failed to read order history: %v", err)
		respondError(w, http.StatusInternalServerError, "history_failed", "failed to read order history")
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}

	respondJSON(w, http.StatusOK, OrderHistoryResponseDTO{Orders: entries})
}

// EndSession tears down the caller's session: cancels in-flight catalog work
// and releases any staged receipt.
func (h *CheckoutHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(sessionKeyFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}
