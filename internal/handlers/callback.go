package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/baratonrides/gobackend/internal/mpesa"
	"github.com/baratonrides/gobackend/internal/services"
)

// CallbackHandler is the webhook surface the gateway posts results to. The
// payment service here is constructed with the service-level store handle;
// no user session exists when the gateway calls back.
type CallbackHandler struct {
	service *services.PaymentService
}

func NewCallbackHandler(service *services.PaymentService) *CallbackHandler {
	return &CallbackHandler{service: service}
}

type callbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

// STKCallback acknowledges every delivery so the gateway does not keep
// retrying over transient internal errors; only a missing service
// configuration is reported as a 5xx.
func (h *CallbackHandler) STKCallback(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		respondJSON(w, http.StatusInternalServerError, callbackAck{ResultCode: 1, ResultDesc: "Server not configured for callbacks"})
		return
	}

	var envelope mpesa.CallbackEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		log.Printf("Invalid M-Pesa callback payload: %v", err)
		respondJSON(w, http.StatusOK, callbackAck{ResultCode: 1, ResultDesc: "Invalid callback payload"})
		return
	}

	cb := envelope.Body.STKCallback
	log.Printf("M-Pesa callback received: checkout=%s result=%d desc=%q", cb.CheckoutRequestID, cb.ResultCode, cb.ResultDesc)

	if err := h.service.HandleCallback(r.Context(), cb); err != nil {
		log.Printf("M-Pesa callback processing failed for %s: %v", cb.CheckoutRequestID, err)
		respondJSON(w, http.StatusOK, callbackAck{ResultCode: 1, ResultDesc: "Internal server error"})
		return
	}

	respondJSON(w, http.StatusOK, callbackAck{ResultCode: 0, ResultDesc: "Callback received successfully"})
}
