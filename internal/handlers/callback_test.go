package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/baratonrides/gobackend/internal/models"
	"github.com/baratonrides/gobackend/internal/mpesa"
	"github.com/baratonrides/gobackend/internal/services"
	"github.com/baratonrides/gobackend/internal/store"
)

func TestSTKCallbackEndToEnd(t *testing.T) {
	st := store.NewMemory()
	gw := mpesa.NewMockClient()
	svc := services.NewPaymentService(st, gw)
	ctx := context.Background()

	err := st.Insert(ctx, "rides", models.Ride{
		ID:             "R1",
		UserID:         "u1",
		BookingCode:    "BR-TEST1234",
		PickupLocation: "Library",
		Destination:    "Main Gate",
		RideType:       models.RideTypeCar,
		Fare:           220,
		TotalAmount:    220,
		PaymentMethod:  models.PaymentMethodMpesa,
		Status:         models.StatusPending,
		PaymentStatus:  models.PaymentPending,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	})
	if err != nil {
		t.Fatalf("seed ride: %v", err)
	}

	res, err := svc.InitiatePayment(ctx, "u1", services.InitiatePaymentParams{
		PhoneNumber: "0712000000",
		Amount:      220,
		Type:        models.PaymentTypeRide,
		ReferenceID: "R1",
		Description: "Campus ride",
	})
	if err != nil {
		t.Fatalf("initiate payment: %v", err)
	}

	body := fmt.Sprintf(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": %q,
				"ResultCode": 0,
				"ResultDesc": "The service request is processed successfully.",
				"CallbackMetadata": {
					"Item": [
						{"Name": "Amount", "Value": 220.00},
						{"Name": "MpesaReceiptNumber", "Value": "QAK123XYZ"},
						{"Name": "TransactionDate", "Value": 20250901123456},
						{"Name": "PhoneNumber", "Value": 254712000000}
					]
				}
			}
		}
	}`, res.CheckoutRequestID)

	h := NewCallbackHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/api/mpesa/callback", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.STKCallback(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var ack callbackAck
	if err := json.NewDecoder(rec.Body).Decode(&ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack.ResultCode != 0 {
		t.Errorf("ack ResultCode = %d, want 0", ack.ResultCode)
	}

	var txn models.MpesaTransaction
	if err := st.FindOne(ctx, "mpesa_transactions", bson.M{"checkout_request_id": res.CheckoutRequestID}, &txn); err != nil {
		t.Fatalf("find transaction: %v", err)
	}
	if txn.Status != models.TransactionCompleted {
		t.Errorf("transaction status = %q, want completed", txn.Status)
	}
	if txn.MpesaReceiptNumber != "QAK123XYZ" {
		t.Errorf("receipt = %q", txn.MpesaReceiptNumber)
	}

	var ride models.Ride
	if err := st.FindOne(ctx, "rides", bson.M{"_id": "R1"}, &ride); err != nil {
		t.Fatalf("find ride: %v", err)
	}
	if ride.PaymentStatus != models.PaymentPaid {
		t.Errorf("ride payment status = %q, want paid", ride.PaymentStatus)
	}
	if ride.MpesaReceipt != "QAK123XYZ" {
		t.Errorf("ride receipt = %q", ride.MpesaReceipt)
	}
}

func TestSTKCallbackMalformedPayloadStillAcked(t *testing.T) {
	svc := services.NewPaymentService(store.NewMemory(), mpesa.NewMockClient())
	h := NewCallbackHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/mpesa/callback", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.STKCallback(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 so the gateway stops retrying", rec.Code)
	}
	var ack callbackAck
	if err := json.NewDecoder(rec.Body).Decode(&ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack.ResultCode != 1 {
		t.Errorf("ack ResultCode = %d, want 1", ack.ResultCode)
	}
}

func TestSTKCallbackNilServiceIsServerError(t *testing.T) {
	h := NewCallbackHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/mpesa/callback", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.STKCallback(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
