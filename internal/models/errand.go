package models

import "time"

type ErrandUrgency string

const (
	UrgencyASAP      ErrandUrgency = "asap"
	UrgencyScheduled ErrandUrgency = "scheduled"
)

type Errand struct {
	ID              string        `bson:"_id,omitempty" json:"id"`
	UserID          string        `bson:"user_id" json:"user_id"`
	ErrandType      string        `bson:"errand_type" json:"errand_type"`
	UserLocation    string        `bson:"user_location" json:"user_location"`
	ErrandLocation  string        `bson:"errand_location" json:"errand_location"`
	Description     string        `bson:"description" json:"description"`
	AdditionalNotes string        `bson:"additional_notes,omitempty" json:"additional_notes,omitempty"`
	Urgency         ErrandUrgency `bson:"urgency" json:"urgency"`
	ScheduledTime   string        `bson:"scheduled_time,omitempty" json:"scheduled_time,omitempty"`
	Fee             float64       `bson:"fee" json:"fee"`
	PaymentMethod   PaymentMethod `bson:"payment_method" json:"payment_method"`
	Status          RecordStatus  `bson:"status" json:"status"`
	PaymentStatus   PaymentStatus `bson:"payment_status" json:"payment_status"`
	MpesaReceipt    string        `bson:"mpesa_receipt,omitempty" json:"mpesa_receipt,omitempty"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updated_at"`
}
