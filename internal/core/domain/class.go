package domain

import "time"

// RecommendThreshold is the minimum enrollment count for a class to be recommended.
const RecommendThreshold = 2

// Class is a purchasable course offered by an instructor.
type Class struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Price           float64          `json:"price"`
	Description     string           `json:"description"`
	Image           string           `json:"image"`
	InstructorName  string           `json:"instructor_name"`
	InstructorEmail string           `json:"instructor_email"`
	Status          ModerationStatus `json:"status"`
	EnrollmentCount int              `json:"enrollment_count"`
	AssignmentCount int              `json:"assignment_count"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ClassPatch holds the only fields an instructor may overwrite after creation.
type ClassPatch struct {
	Title       string
	Price       float64
	Description string
	Image       string
}
