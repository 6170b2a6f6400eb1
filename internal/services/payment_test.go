package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/baratonrides/gobackend/internal/models"
	"github.com/baratonrides/gobackend/internal/mpesa"
	"github.com/baratonrides/gobackend/internal/store"
)

func newPaymentFixture(t *testing.T) (*PaymentService, *store.Memory, *mpesa.MockClient) {
	t.Helper()
	st := store.NewMemory()
	gw := mpesa.NewMockClient()
	return NewPaymentService(st, gw), st, gw
}

func seedRide(t *testing.T, st *store.Memory, id string) {
	t.Helper()
	err := st.Insert(context.Background(), "rides", models.Ride{
		ID:             id,
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
}

func initiateRidePayment(t *testing.T, svc *PaymentService, referenceID string) *InitiatePaymentResult {
	t.Helper()
	res, err := svc.InitiatePayment(context.Background(), "u1", InitiatePaymentParams{
		PhoneNumber: "0712000000",
		Amount:      220,
		Type:        models.PaymentTypeRide,
		ReferenceID: referenceID,
		Description: "Campus ride",
	})
	if err != nil {
		t.Fatalf("initiate payment: %v", err)
	}
	return res
}

func TestInitiatePaymentValidation(t *testing.T) {
	cases := []struct {
		name   string
		params InitiatePaymentParams
	}{
		{"zero amount", InitiatePaymentParams{PhoneNumber: "0712000000", Amount: 0, Type: models.PaymentTypeRide, ReferenceID: "R1"}},
		{"negative amount", InitiatePaymentParams{PhoneNumber: "0712000000", Amount: -50, Type: models.PaymentTypeRide, ReferenceID: "R1"}},
		{"blank reference", InitiatePaymentParams{PhoneNumber: "0712000000", Amount: 100, Type: models.PaymentTypeRide, ReferenceID: "   "}},
		{"blank phone", InitiatePaymentParams{PhoneNumber: "", Amount: 100, Type: models.PaymentTypeRide, ReferenceID: "R1"}},
		{"unknown type", InitiatePaymentParams{PhoneNumber: "0712000000", Amount: 100, Type: "subscription", ReferenceID: "R1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, gw := newPaymentFixture(t)
			if _, err := svc.InitiatePayment(context.Background(), "u1", tc.params); err == nil {
				t.Fatal("expected an error")
			}
			if len(gw.PushCalls) != 0 {
				t.Errorf("validation failure reached the gateway: %d calls", len(gw.PushCalls))
			}
		})
	}
}

func TestInitiatePaymentRecordsPendingTransaction(t *testing.T) {
	svc, st, gw := newPaymentFixture(t)
	seedRide(t, st, "R1")

	res := initiateRidePayment(t, svc, "R1")
	if res.CheckoutRequestID == "" {
		t.Fatal("expected a checkout request id")
	}

	if len(gw.PushCalls) != 1 {
		t.Fatalf("expected 1 push, got %d", len(gw.PushCalls))
	}
	if gw.PushCalls[0].PhoneNumber != "254712000000" {
		t.Errorf("phone not normalized before push: %q", gw.PushCalls[0].PhoneNumber)
	}

	var txn models.MpesaTransaction
	err := st.FindOne(context.Background(), "mpesa_transactions",
		bson.M{"checkout_request_id": res.CheckoutRequestID}, &txn)
	if err != nil {
		t.Fatalf("transaction not stored: %v", err)
	}
	if txn.Status != models.TransactionPending {
		t.Errorf("status = %q, want pending", txn.Status)
	}
	if txn.UserID != "u1" || txn.ReferenceID != "R1" || txn.PaymentType != models.PaymentTypeRide {
		t.Errorf("transaction fields wrong: %+v", txn)
	}
}

func TestInitiatePaymentRejectsDuplicatePending(t *testing.T) {
	svc, st, gw := newPaymentFixture(t)
	seedRide(t, st, "R1")
	initiateRidePayment(t, svc, "R1")

	_, err := svc.InitiatePayment(context.Background(), "u1", InitiatePaymentParams{
		PhoneNumber: "0712000000",
		Amount:      220,
		Type:        models.PaymentTypeRide,
		ReferenceID: "R1",
	})
	if err == nil {
		t.Fatal("expected second initiation to be rejected while the first is pending")
	}
	if len(gw.PushCalls) != 1 {
		t.Errorf("second attempt reached the gateway: %d calls", len(gw.PushCalls))
	}
}

func TestCheckPaymentStatusReturnsCachedTerminal(t *testing.T) {
	svc, st, gw := newPaymentFixture(t)
	seedRide(t, st, "R1")
	res := initiateRidePayment(t, svc, "R1")

	// Resolve via callback first.
	err := svc.HandleCallback(context.Background(), mpesa.STKCallback{
		CheckoutRequestID: res.CheckoutRequestID,
		ResultCode:        0,
		ResultDesc:        "The service request is processed successfully.",
		CallbackMetadata: &mpesa.CallbackMetadata{Item: []mpesa.CallbackItem{
			{Name: "MpesaReceiptNumber", Value: "QAK123XYZ"},
		}},
	})
	if err != nil {
		t.Fatalf("callback: %v", err)
	}

	status, err := svc.CheckPaymentStatus(context.Background(), "u1", res.CheckoutRequestID)
	if err != nil {
		t.Fatalf("check status: %v", err)
	}
	if status.Status != models.TransactionCompleted {
		t.Errorf("status = %q, want completed", status.Status)
	}
	if status.Receipt != "QAK123XYZ" {
		t.Errorf("receipt = %q", status.Receipt)
	}
	if len(gw.QueryCalls) != 0 {
		t.Errorf("resolved transaction was re-queried %d times", len(gw.QueryCalls))
	}
}

func TestCheckPaymentStatusResultCodeMapping(t *testing.T) {
	cases := []struct {
		name       string
		resultCode string
		want       models.TransactionStatus
	}{
		{"success", "0", models.TransactionCompleted},
		{"awaiting user", "1", models.TransactionPending},
		{"cancelled by user", "1032", models.TransactionCancelled},
		{"insufficient funds", "2001", models.TransactionFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, st, gw := newPaymentFixture(t)
			seedRide(t, st, "R1")
			res := initiateRidePayment(t, svc, "R1")

			gw.QueryResponse = mpesa.STKQueryResponse{
				ResponseCode: "0",
				ResultCode:   tc.resultCode,
				ResultDesc:   tc.name,
			}

			status, err := svc.CheckPaymentStatus(context.Background(), "u1", res.CheckoutRequestID)
			if err != nil {
				t.Fatalf("check status: %v", err)
			}
			if status.Status != tc.want {
				t.Errorf("status = %q, want %q", status.Status, tc.want)
			}
		})
	}
}

func TestCheckPaymentStatusCancelledLeavesRideUntouched(t *testing.T) {
	svc, st, gw := newPaymentFixture(t)
	seedRide(t, st, "R1")
	res := initiateRidePayment(t, svc, "R1")

	gw.QueryResponse = mpesa.STKQueryResponse{ResultCode: "1032", ResultDesc: "Request cancelled by user"}

	status, err := svc.CheckPaymentStatus(context.Background(), "u1", res.CheckoutRequestID)
	if err != nil {
		t.Fatalf("check status: %v", err)
	}
	if status.Status != models.TransactionCancelled {
		t.Fatalf("status = %q", status.Status)
	}
	if status.Message != "Payment was cancelled" {
		t.Errorf("message = %q", status.Message)
	}

	var ride models.Ride
	if err := st.FindOne(context.Background(), "rides", bson.M{"_id": "R1"}, &ride); err != nil {
		t.Fatalf("find ride: %v", err)
	}
	if ride.PaymentStatus != models.PaymentPending {
		t.Errorf("cancellation changed ride payment status to %q", ride.PaymentStatus)
	}

	// The user can retry immediately.
	if _, err := svc.InitiatePayment(context.Background(), "u1", InitiatePaymentParams{
		PhoneNumber: "0712000000",
		Amount:      220,
		Type:        models.PaymentTypeRide,
		ReferenceID: "R1",
	}); err != nil {
		t.Errorf("retry after cancellation rejected: %v", err)
	}
}

func TestCheckPaymentStatusGatewayFailureIsPending(t *testing.T) {
	svc, st, gw := newPaymentFixture(t)
	seedRide(t, st, "R1")
	res := initiateRidePayment(t, svc, "R1")

	gw.QueryErr = &mpesa.GatewayError{Message: "timeout"}

	status, err := svc.CheckPaymentStatus(context.Background(), "u1", res.CheckoutRequestID)
	if err != nil {
		t.Fatalf("a gateway failure must not surface as an error: %v", err)
	}
	if status.Status != models.TransactionPending {
		t.Errorf("status = %q, want pending", status.Status)
	}
}

func TestHandleCallbackCompletesPaymentAndRide(t *testing.T) {
	svc, st, _ := newPaymentFixture(t)
	seedRide(t, st, "R1")
	res := initiateRidePayment(t, svc, "R1")

	err := svc.HandleCallback(context.Background(), mpesa.STKCallback{
		MerchantRequestID: "29115-34620561-1",
		CheckoutRequestID: res.CheckoutRequestID,
		ResultCode:        0,
		ResultDesc:        "The service request is processed successfully.",
		CallbackMetadata: &mpesa.CallbackMetadata{Item: []mpesa.CallbackItem{
			{Name: "Amount", Value: float64(220)},
			{Name: "MpesaReceiptNumber", Value: "QAK123XYZ"},
			{Name: "TransactionDate", Value: float64(20250901123456)},
			{Name: "PhoneNumber", Value: float64(254712000000)},
		}},
	})
	if err != nil {
		t.Fatalf("callback: %v", err)
	}

	var txn models.MpesaTransaction
	if err := st.FindOne(context.Background(), "mpesa_transactions",
		bson.M{"checkout_request_id": res.CheckoutRequestID}, &txn); err != nil {
		t.Fatalf("find transaction: %v", err)
	}
	if txn.Status != models.TransactionCompleted {
		t.Errorf("transaction status = %q", txn.Status)
	}
	if txn.MpesaReceiptNumber != "QAK123XYZ" {
		t.Errorf("receipt = %q", txn.MpesaReceiptNumber)
	}
	if txn.TransactionDate != "20250901123456" {
		t.Errorf("transaction date = %q", txn.TransactionDate)
	}

	var ride models.Ride
	if err := st.FindOne(context.Background(), "rides", bson.M{"_id": "R1"}, &ride); err != nil {
		t.Fatalf("find ride: %v", err)
	}
	if ride.PaymentStatus != models.PaymentPaid {
		t.Errorf("ride payment status = %q, want paid", ride.PaymentStatus)
	}
	if ride.MpesaReceipt != "QAK123XYZ" {
		t.Errorf("ride receipt = %q", ride.MpesaReceipt)
	}
	if ride.Status != models.StatusPending {
		t.Errorf("payment settlement changed the ride workflow status to %q", ride.Status)
	}
}

func TestHandleCallbackDuplicateIsIgnored(t *testing.T) {
	svc, st, _ := newPaymentFixture(t)
	seedRide(t, st, "R1")
	res := initiateRidePayment(t, svc, "R1")

	success := mpesa.STKCallback{
		CheckoutRequestID: res.CheckoutRequestID,
		ResultCode:        0,
		ResultDesc:        "The service request is processed successfully.",
		CallbackMetadata: &mpesa.CallbackMetadata{Item: []mpesa.CallbackItem{
			{Name: "MpesaReceiptNumber", Value: "QAK123XYZ"},
		}},
	}
	if err := svc.HandleCallback(context.Background(), success); err != nil {
		t.Fatalf("first callback: %v", err)
	}

	// Redelivery, and a contradictory late failure, both change nothing.
	if err := svc.HandleCallback(context.Background(), success); err != nil {
		t.Fatalf("duplicate callback: %v", err)
	}
	late := success
	late.ResultCode = 1037
	late.ResultDesc = "DS timeout"
	late.CallbackMetadata = nil
	if err := svc.HandleCallback(context.Background(), late); err != nil {
		t.Fatalf("late failure callback: %v", err)
	}

	var txn models.MpesaTransaction
	if err := st.FindOne(context.Background(), "mpesa_transactions",
		bson.M{"checkout_request_id": res.CheckoutRequestID}, &txn); err != nil {
		t.Fatalf("find transaction: %v", err)
	}
	if txn.Status != models.TransactionCompleted {
		t.Errorf("transaction status = %q after duplicates", txn.Status)
	}
}

func TestHandleCallbackNonTerminalIsNoOp(t *testing.T) {
	svc, st, _ := newPaymentFixture(t)
	seedRide(t, st, "R1")
	res := initiateRidePayment(t, svc, "R1")

	err := svc.HandleCallback(context.Background(), mpesa.STKCallback{
		CheckoutRequestID: res.CheckoutRequestID,
		ResultCode:        1,
		ResultDesc:        "The transaction is being processed",
	})
	if err != nil {
		t.Fatalf("callback: %v", err)
	}

	var txn models.MpesaTransaction
	if err := st.FindOne(context.Background(), "mpesa_transactions",
		bson.M{"checkout_request_id": res.CheckoutRequestID}, &txn); err != nil {
		t.Fatalf("find transaction: %v", err)
	}
	if txn.Status != models.TransactionPending {
		t.Errorf("non-terminal result resolved the transaction to %q", txn.Status)
	}
}

func TestHandleCallbackMissingCheckoutID(t *testing.T) {
	svc, _, _ := newPaymentFixture(t)
	if err := svc.HandleCallback(context.Background(), mpesa.STKCallback{ResultCode: 0}); err == nil {
		t.Fatal("expected an error for a callback without a CheckoutRequestID")
	}
}

func TestListUserTransactionsNewestFirst(t *testing.T) {
	svc, st, _ := newPaymentFixture(t)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, checkout := range []string{"ws_CO_1", "ws_CO_2", "ws_CO_3"} {
		err := st.Insert(context.Background(), "mpesa_transactions", models.MpesaTransaction{
			UserID:            "u1",
			CheckoutRequestID: checkout,
			Amount:            100,
			PaymentType:       models.PaymentTypeRide,
			ReferenceID:       "R1",
			Status:            models.TransactionPending,
			CreatedAt:         base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:         base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	err := st.Insert(context.Background(), "mpesa_transactions", models.MpesaTransaction{
		UserID:            "u2",
		CheckoutRequestID: "ws_CO_OTHER",
		Status:            models.TransactionPending,
		CreatedAt:         base,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	txns, err := svc.ListUserTransactions(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txns) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txns))
	}
	if txns[0].CheckoutRequestID != "ws_CO_3" {
		t.Errorf("newest first expected, got %q", txns[0].CheckoutRequestID)
	}
}
