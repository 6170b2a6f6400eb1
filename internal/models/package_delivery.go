package models

import "time"

type PackageDelivery struct {
	ID               string        `bson:"_id,omitempty" json:"id"`
	UserID           string        `bson:"user_id" json:"user_id"`
	PickupLocation   string        `bson:"pickup_location" json:"pickup_location"`
	DeliveryLocation string        `bson:"delivery_location" json:"delivery_location"`
	PackageName      string        `bson:"package_name" json:"package_name"`
	PackageSize      string        `bson:"package_size" json:"package_size"`
	RecipientName    string        `bson:"recipient_name" json:"recipient_name"`
	RecipientPhone   string        `bson:"recipient_phone" json:"recipient_phone"`
	DeliveryNotes    string        `bson:"delivery_notes,omitempty" json:"delivery_notes,omitempty"`
	DeliveryTime     string        `bson:"delivery_time" json:"delivery_time"`
	Fee              float64       `bson:"fee" json:"fee"`
	TotalAmount      float64       `bson:"total_amount" json:"total_amount"`
	PaymentMethod    PaymentMethod `bson:"payment_method" json:"payment_method"`
	Status           RecordStatus  `bson:"status" json:"status"`
	PaymentStatus    PaymentStatus `bson:"payment_status" json:"payment_status"`
	MpesaReceipt     string        `bson:"mpesa_receipt,omitempty" json:"mpesa_receipt,omitempty"`
	CreatedAt        time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `bson:"updated_at" json:"updated_at"`
}
