package models

import "time"

// OrderItem is one line of a food order as captured from the menu.
type OrderItem struct {
	ID       string  `bson:"id" json:"id"`
	Name     string  `bson:"name" json:"name"`
	Price    float64 `bson:"price" json:"price"`
	Quantity int     `bson:"quantity" json:"quantity"`
}

type FoodOrder struct {
	ID              string        `bson:"_id,omitempty" json:"id"`
	UserID          string        `bson:"user_id" json:"user_id"`
	RestaurantID    string        `bson:"restaurant_id" json:"restaurant_id"`
	Items           []OrderItem   `bson:"items" json:"items"`
	DeliveryAddress string        `bson:"delivery_address" json:"delivery_address"`
	DeliveryFee     float64       `bson:"delivery_fee" json:"delivery_fee"`
	TotalAmount     float64       `bson:"total_amount" json:"total_amount"`
	PaymentMethod   PaymentMethod `bson:"payment_method" json:"payment_method"`
	Status          RecordStatus  `bson:"status" json:"status"`
	PaymentStatus   PaymentStatus `bson:"payment_status" json:"payment_status"`
	MpesaReceipt    string        `bson:"mpesa_receipt,omitempty" json:"mpesa_receipt,omitempty"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updated_at"`
}
