package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/baratonrides/gobackend/internal/models"
	"github.com/baratonrides/gobackend/internal/mpesa"
	"github.com/baratonrides/gobackend/internal/store"
)

const transactionsCollection = "mpesa_transactions"

// PaymentService initiates STK pushes and reconciles their outcomes. Both
// the client-driven status poll and the gateway webhook converge on the same
// result-code mapping, and a terminal outcome is written at most once.
type PaymentService struct {
	store   store.Store
	gateway mpesa.Client
}

func NewPaymentService(st store.Store, gateway mpesa.Client) *PaymentService {
	return &PaymentService{store: st, gateway: gateway}
}

type InitiatePaymentParams struct {
	PhoneNumber string             `json:"phoneNumber"`
	Amount      float64            `json:"amount"`
	Type        models.PaymentType `json:"type"`
	ReferenceID string             `json:"referenceId"`
	Description string             `json:"description"`
}

type InitiatePaymentResult struct {
	CheckoutRequestID string `json:"checkoutRequestId"`
	CustomerMessage   string `json:"customerMessage"`
}

// InitiatePayment validates the request, pushes the payment prompt to the
// payer's phone, and records a pending transaction. Validation failures make
// no gateway call.
func (s *PaymentService) InitiatePayment(ctx context.Context, userID string, p InitiatePaymentParams) (*InitiatePaymentResult, error) {
	if math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) || p.Amount <= 0 {
		return nil, errors.New("invalid payment amount")
	}
	referenceID := strings.TrimSpace(p.ReferenceID)
	if referenceID == "" {
		return nil, errors.New("invalid payment reference")
	}
	if strings.TrimSpace(p.PhoneNumber) == "" {
		return nil, errors.New("phone number is required")
	}
	if _, err := p.Type.Collection(); err != nil {
		return nil, err
	}

	// Reject a retry while an earlier push for the same record is still
	// awaiting the payer, so a quick double-tap cannot double-charge.
	active, err := s.store.Count(ctx, transactionsCollection, bson.M{
		"payment_type": p.Type,
		"reference_id": referenceID,
		"status":       models.TransactionPending,
	})
	if err != nil {
		log.Printf("Failed to check for pending transactions on %s/%s: %v", p.Type, referenceID, err)
	} else if active > 0 {
		return nil, errors.New("a payment for this record is already in progress")
	}

	phone := mpesa.FormatPhoneNumber(p.PhoneNumber)
	resp, err := s.gateway.InitiateSTKPush(ctx, mpesa.STKPushRequest{
		PhoneNumber:      phone,
		Amount:           p.Amount,
		AccountReference: referenceID,
		TransactionDesc:  p.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("could not initiate payment: %w", err)
	}
	if !resp.Accepted() {
		if resp.ResponseDescription != "" {
			return nil, errors.New(resp.ResponseDescription)
		}
		return nil, errors.New("payment initiation failed")
	}

	now := time.Now()
	txn := models.MpesaTransaction{
		ID:                uuid.NewString(),
		UserID:            userID,
		CheckoutRequestID: resp.CheckoutRequestID,
		MerchantRequestID: resp.MerchantRequestID,
		PhoneNumber:       phone,
		Amount:            p.Amount,
		PaymentType:       p.Type,
		ReferenceID:       referenceID,
		Status:            models.TransactionPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.Insert(ctx, transactionsCollection, txn); err != nil {
		// The prompt already reached the payer's phone; report success and
		// let the record be reconciled from the gateway side later.
		log.Printf("Failed to save transaction record for %s: %v", resp.CheckoutRequestID, err)
	}

	return &InitiatePaymentResult{
		CheckoutRequestID: resp.CheckoutRequestID,
		CustomerMessage:   resp.CustomerMessage,
	}, nil
}

type PaymentStatusResult struct {
	Status  models.TransactionStatus `json:"status"`
	Message string                   `json:"message,omitempty"`
	Receipt string                   `json:"receipt,omitempty"`
}

// CheckPaymentStatus is the pull path. A transaction already resolved is
// answered from the store without calling the gateway; an inability to
// determine the status is reported as pending, never as an error.
func (s *PaymentService) CheckPaymentStatus(ctx context.Context, userID, checkoutRequestID string) (*PaymentStatusResult, error) {
	if strings.TrimSpace(checkoutRequestID) == "" {
		return nil, errors.New("invalid checkout request ID")
	}

	var txn models.MpesaTransaction
	err := s.store.FindOne(ctx, transactionsCollection, bson.M{
		"checkout_request_id": checkoutRequestID,
		"user_id":             userID,
	}, &txn)
	switch {
	case err == nil:
		if txn.Status == models.TransactionCompleted || txn.Status == models.TransactionFailed {
			return &PaymentStatusResult{
				Status:  txn.Status,
				Message: txn.ResultDesc,
				Receipt: txn.MpesaReceiptNumber,
			}, nil
		}
	case errors.Is(err, store.ErrNotFound):
		// No local record; still worth asking the gateway.
	default:
		log.Printf("Transaction lookup failed for %s: %v", checkoutRequestID, err)
		return &PaymentStatusResult{Status: models.TransactionPending}, nil
	}

	qr, err := s.gateway.QuerySTKPushStatus(ctx, checkoutRequestID)
	if err != nil {
		log.Printf("Status query failed for %s: %v", checkoutRequestID, err)
		return &PaymentStatusResult{Status: models.TransactionPending}, nil
	}

	code, convErr := strconv.Atoi(qr.ResultCode)
	if convErr != nil {
		log.Printf("Unparseable result code %q for %s", qr.ResultCode, checkoutRequestID)
		return &PaymentStatusResult{Status: models.TransactionPending}, nil
	}

	outcome, terminal := resolveOutcome(code)
	if !terminal {
		return &PaymentStatusResult{Status: models.TransactionPending}, nil
	}

	if err := s.applyResult(ctx, checkoutRequestID, outcome, code, qr.ResultDesc, "", ""); err != nil {
		log.Printf("Failed to apply result for %s: %v", checkoutRequestID, err)
	}

	result := &PaymentStatusResult{Status: outcome}
	switch outcome {
	case models.TransactionCancelled:
		result.Message = "Payment was cancelled"
	case models.TransactionFailed:
		result.Message = qr.ResultDesc
	}
	return result, nil
}

// HandleCallback is the push path: the gateway's webhook delivery, applied
// with the same result-code mapping as polling.
func (s *PaymentService) HandleCallback(ctx context.Context, cb mpesa.STKCallback) error {
	if strings.TrimSpace(cb.CheckoutRequestID) == "" {
		return errors.New("callback missing CheckoutRequestID")
	}

	outcome, terminal := resolveOutcome(cb.ResultCode)
	if !terminal {
		log.Printf("Callback for %s still awaiting user (result %d), nothing to record", cb.CheckoutRequestID, cb.ResultCode)
		return nil
	}

	var receipt, transactionDate string
	if outcome == models.TransactionCompleted {
		receipt, transactionDate = cb.ReceiptAndDate()
	}
	return s.applyResult(ctx, cb.CheckoutRequestID, outcome, cb.ResultCode, cb.ResultDesc, receipt, transactionDate)
}

// resolveOutcome maps a gateway result code to a transaction outcome. The
// bool reports whether the code is terminal.
func resolveOutcome(resultCode int) (models.TransactionStatus, bool) {
	switch resultCode {
	case 0:
		return models.TransactionCompleted, true
	case 1032:
		return models.TransactionCancelled, true
	case 1:
		return models.TransactionPending, false
	default:
		return models.TransactionFailed, true
	}
}

// applyResult records a terminal outcome exactly once. The update is
// conditional on the transaction still being pending, so a duplicate
// notification matches nothing and the business record is not touched twice.
func (s *PaymentService) applyResult(ctx context.Context, checkoutRequestID string, outcome models.TransactionStatus, resultCode int, resultDesc, receipt, transactionDate string) error {
	set := bson.M{
		"status":      outcome,
		"result_code": resultCode,
		"result_desc": resultDesc,
		"updated_at":  time.Now(),
	}
	if receipt != "" {
		set["mpesa_receipt_number"] = receipt
	}
	if transactionDate != "" {
		set["transaction_date"] = transactionDate
	}

	matched, err := s.store.UpdateOne(ctx, transactionsCollection, bson.M{
		"checkout_request_id": checkoutRequestID,
		"status":              models.TransactionPending,
	}, set)
	if err != nil {
		return fmt.Errorf("update transaction %s: %w", checkoutRequestID, err)
	}
	if matched == 0 {
		log.Printf("Transaction %s already resolved, ignoring duplicate result %d", checkoutRequestID, resultCode)
		return nil
	}

	log.Printf("Transaction %s resolved: status=%s result=%d", checkoutRequestID, outcome, resultCode)

	var businessStatus models.PaymentStatus
	switch outcome {
	case models.TransactionCompleted:
		businessStatus = models.PaymentPaid
	case models.TransactionFailed:
		businessStatus = models.PaymentFailed
	default:
		// Cancellation leaves the business record untouched so the user can
		// retry the payment.
		return nil
	}

	var txn models.MpesaTransaction
	if err := s.store.FindOne(ctx, transactionsCollection, bson.M{"checkout_request_id": checkoutRequestID}, &txn); err != nil {
		log.Printf("Could not load transaction %s for business update: %v", checkoutRequestID, err)
		return nil
	}
	s.updateRelatedRecord(ctx, txn.PaymentType, txn.ReferenceID, businessStatus, receipt)
	return nil
}

// updateRelatedRecord sets the payment side of the business record. The
// record's own workflow status is never touched here.
func (s *PaymentService) updateRelatedRecord(ctx context.Context, paymentType models.PaymentType, referenceID string, status models.PaymentStatus, receipt string) {
	collection, err := paymentType.Collection()
	if err != nil {
		log.Printf("Cannot update business record for %s: %v", referenceID, err)
		return
	}

	set := bson.M{
		"payment_status": status,
		"updated_at":     time.Now(),
	}
	if receipt != "" {
		set["mpesa_receipt"] = receipt
	}
	if _, err := s.store.UpdateOne(ctx, collection, bson.M{"_id": referenceID}, set); err != nil {
		log.Printf("Failed to update %s %s payment status: %v", collection, referenceID, err)
	}
}

// ListUserTransactions returns the user's payment history, newest first.
func (s *PaymentService) ListUserTransactions(ctx context.Context, userID string) ([]models.MpesaTransaction, error) {
	var txns []models.MpesaTransaction
	err := s.store.Find(ctx, transactionsCollection, bson.M{"user_id": userID}, bson.D{{Key: "created_at", Value: -1}}, &txns)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return txns, nil
}
