package models

import (
	"fmt"
	"time"
)

// PaymentType identifies which kind of business record a payment settles.
type PaymentType string

const (
	PaymentTypeRide            PaymentType = "ride"
	PaymentTypeFoodOrder       PaymentType = "food_order"
	PaymentTypePackageDelivery PaymentType = "package_delivery"
	PaymentTypeErrand          PaymentType = "errand"
)

// Collection maps a payment type to the collection holding its business
// record. Unknown types are an error, not a silent no-op.
func (t PaymentType) Collection() (string, error) {
	switch t {
	case PaymentTypeRide:
		return "rides", nil
	case PaymentTypeFoodOrder:
		return "food_orders", nil
	case PaymentTypePackageDelivery:
		return "package_deliveries", nil
	case PaymentTypeErrand:
		return "errands", nil
	default:
		return "", fmt.Errorf("unknown payment type %q", string(t))
	}
}

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// Terminal reports whether no further status transition is allowed.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionCompleted || s == TransactionFailed || s == TransactionCancelled
}

// MpesaTransaction is one STK push attempt. Created pending by the payment
// service when the gateway accepts the push, resolved exactly once by the
// reconciliation paths, and never deleted.
type MpesaTransaction struct {
	ID                 string            `bson:"_id,omitempty" json:"id"`
	UserID             string            `bson:"user_id" json:"user_id"`
	CheckoutRequestID  string            `bson:"checkout_request_id" json:"checkout_request_id"`
	MerchantRequestID  string            `bson:"merchant_request_id" json:"merchant_request_id"`
	PhoneNumber        string            `bson:"phone_number" json:"phone_number"`
	Amount             float64           `bson:"amount" json:"amount"`
	PaymentType        PaymentType       `bson:"payment_type" json:"payment_type"`
	ReferenceID        string            `bson:"reference_id" json:"reference_id"`
	Status             TransactionStatus `bson:"status" json:"status"`
	ResultCode         *int              `bson:"result_code,omitempty" json:"result_code,omitempty"`
	ResultDesc         string            `bson:"result_desc,omitempty" json:"result_desc,omitempty"`
	MpesaReceiptNumber string            `bson:"mpesa_receipt_number,omitempty" json:"mpesa_receipt_number,omitempty"`
	TransactionDate    string            `bson:"transaction_date,omitempty" json:"transaction_date,omitempty"`
	CreatedAt          time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time         `bson:"updated_at" json:"updated_at"`
}
