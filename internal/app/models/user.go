package models

import (
	"time"
)

// User is a dashboard account. Email is unique and stored lower-cased.
type User struct {
	ID                 string    `json:"id" db:"id" bson:"_id"`
	Name               string    `json:"name" db:"name" bson:"name"`
	Email              string    `json:"email" db:"email" bson:"email"`
	Contact            string    `json:"contact" db:"contact" bson:"contact"`
	PasswordHash       string    `json:"-" db:"password_hash" bson:"passwordHash"`
	SecurityQuestion   string    `json:"securityQuestion" db:"security_question" bson:"securityQuestion"`
	SecurityAnswerHash string    `json:"-" db:"security_answer_hash" bson:"securityAnswerHash"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}
