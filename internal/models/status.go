package models

// PaymentStatus is the payment side of a business record, owned by the
// payment reconciliation paths. It is independent of the record's own
// workflow status.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
)

// RecordStatus is the workflow status of a ride, order, delivery or errand.
type RecordStatus string

const (
	StatusPending   RecordStatus = "pending"
	StatusAccepted  RecordStatus = "accepted"
	StatusCompleted RecordStatus = "completed"
	StatusCancelled RecordStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodMpesa PaymentMethod = "mpesa"
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodCash  PaymentMethod = "cash"
)

// Valid reports whether the payment method is one the app accepts.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodMpesa || m == PaymentMethodCard || m == PaymentMethodCash
}
