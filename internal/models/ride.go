package models

import "time"

type RideType string

const (
	RideTypeCar  RideType = "car"
	RideTypeBike RideType = "bike"
)

// Ride is a campus ride booking. Fare and TotalAmount are in KES.
type Ride struct {
	ID             string        `bson:"_id,omitempty" json:"id"`
	UserID         string        `bson:"user_id" json:"user_id"`
	BookingCode    string        `bson:"booking_code" json:"booking_code"`
	PickupLocation string        `bson:"pickup_location" json:"pickup_location"`
	Destination    string        `bson:"destination" json:"destination"`
	RideType       RideType      `bson:"ride_type" json:"ride_type"`
	Fare           float64       `bson:"fare" json:"fare"`
	TotalAmount    float64       `bson:"total_amount" json:"total_amount"`
	PaymentMethod  PaymentMethod `bson:"payment_method" json:"payment_method"`
	Status         RecordStatus  `bson:"status" json:"status"`
	PaymentStatus  PaymentStatus `bson:"payment_status" json:"payment_status"`
	MpesaReceipt   string        `bson:"mpesa_receipt,omitempty" json:"mpesa_receipt,omitempty"`
	CreatedAt      time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at" json:"updated_at"`
}
