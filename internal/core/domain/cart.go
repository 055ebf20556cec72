package domain

import "time"

// CartEntry is an unpaid intent by a user to enroll in a class.
type CartEntry struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	ClassID        string    `json:"class_id"`
	Title          string    `json:"title"`
	Price          float64   `json:"price"`
	Image          string    `json:"image"`
	InstructorName string    `json:"instructor_name"`
	CreatedAt      time.Time `json:"created_at"`
}
