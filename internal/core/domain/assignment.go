package domain

import "time"

// Assignment belongs to exactly one class.
type Assignment struct {
	ID              string    `json:"id"`
	ClassID         string    `json:"class_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Deadline        time.Time `json:"deadline"`
	SubmissionCount int       `json:"submission_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// Submission is a student's answer to an assignment, keyed by (assignment, email).
type Submission struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	ClassID      string    `json:"class_id"`
	Email        string    `json:"email"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}
