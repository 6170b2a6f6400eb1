package models

import "time"

// Notification is an in-app message. An empty TargetUserID means broadcast.
type Notification struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Title        string    `bson:"title" json:"title"`
	Body         string    `bson:"body" json:"body"`
	TargetUserID string    `bson:"target_user_id" json:"target_user_id,omitempty"`
	CreatedBy    string    `bson:"created_by" json:"created_by"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// NotificationRead marks a notification as read by one user.
type NotificationRead struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	NotificationID string    `bson:"notification_id" json:"notification_id"`
	ReadAt         time.Time `bson:"read_at" json:"read_at"`
}
