package domain

import "time"

// Enrollment snapshots the public class fields at purchase time.
// At most one exists per (ClassID, Email).
type Enrollment struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	ClassID         string    `json:"class_id"`
	Title           string    `json:"title"`
	Price           float64   `json:"price"`
	InstructorName  string    `json:"instructor_name"`
	Image           string    `json:"image"`
	AssignmentCount int       `json:"assignment_count"`
	EnrolledAt      time.Time `json:"enrolled_at"`
}

// NewEnrollment builds the snapshot of class c for the given payer.
func NewEnrollment(c *Class, email string, at time.Time) *Enrollment {
	return &Enrollment{
		Email:           email,
		ClassID:         c.ID,
		Title:           c.Title,
		Price:           c.Price,
		InstructorName:  c.InstructorName,
		Image:           c.Image,
		AssignmentCount: c.AssignmentCount,
		EnrolledAt:      at,
	}
}
