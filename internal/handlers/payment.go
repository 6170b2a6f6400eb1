package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/baratonrides/gobackend/internal/services"
)

type PaymentHandler struct {
	service *services.PaymentService
	auth    *Auth
}

func NewPaymentHandler(service *services.PaymentService, auth *Auth) *PaymentHandler {
	return &PaymentHandler{service: service, auth: auth}
}

// InitiatePayment starts an STK push for a ride, food order, package
// delivery or errand the caller owns.
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var params services.InitiatePaymentParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.InitiatePayment(r.Context(), userID, params)
	if err != nil {
		log.Printf("Payment initiation failed for user %s: %v", userID, err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"checkoutRequestId": result.CheckoutRequestID,
		"customerMessage":   result.CustomerMessage,
	})
}

// CheckStatus is polled by the client UI while the payment sheet is open.
func (h *PaymentHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	checkoutRequestID := mux.Vars(r)["checkoutRequestID"]
	result, err := h.service.CheckPaymentStatus(r.Context(), userID, checkoutRequestID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ListTransactions returns the caller's payment history.
func (h *PaymentHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.UserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	txns, err := h.service.ListUserTransactions(r.Context(), userID)
	if err != nil {
		log.Printf("Failed to fetch transactions for user %s: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	respondJSON(w, http.StatusOK, txns)
}
