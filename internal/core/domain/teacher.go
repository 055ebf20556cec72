package domain

import "time"

// TeacherApplication is a request by a user to become an instructor.
type TeacherApplication struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Image      string           `json:"image,omitempty"`
	Title      string           `json:"title"`
	Experience string           `json:"experience"`
	Category   string           `json:"category"`
	Status     ModerationStatus `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
}
