package domain

import "time"

// Feedback is free-form, append-only course feedback.
type Feedback struct {
	ID          string    `json:"id"`
	ClassID     string    `json:"class_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Rating      int       `json:"rating"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
