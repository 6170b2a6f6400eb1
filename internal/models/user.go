package models

import "time"

// User model
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	FullName  string    `bson:"fullname" json:"fullname"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone" json:"phone"`
	HPassword string    `bson:"password" json:"-"`
	IsAdmin   bool      `bson:"is_admin" json:"is_admin"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
