package ports

import (
	"context"

	"github.com/learncraft/learncraft-api/internal/core/domain"
)

// UserRepository persists marketplace accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns all users, optionally filtered by a case-insensitive name/email match.
	List(ctx context.Context, search string) ([]*domain.User, error)
	SetRole(ctx context.Context, id, role string) error
}

// ClassFilter carries the query options for listing classes. Zero values mean no filter.
type ClassFilter struct {
	Status          domain.ModerationStatus
	InstructorEmail string
	TitleSearch     string // case-insensitive substring
	MinEnrollment   int
	SortBy          string // "price" or "enrollment_count"
	SortDesc        bool
	Limit           int64
}

// ClassRepository persists classes and their counters.
type ClassRepository interface {
	Create(ctx context.Context, c *domain.Class) (*domain.Class, error)
	FindByID(ctx context.Context, id string) (*domain.Class, error)
	List(ctx context.Context, filter ClassFilter) ([]*domain.Class, error)
	Update(ctx context.Context, id string, patch domain.ClassPatch) error
	SetStatus(ctx context.Context, id string, status domain.ModerationStatus) error
	// IncrementEnrollment and IncrementAssignment return domain.ErrClassNotFound
	// when no class matched the id.
	IncrementEnrollment(ctx context.Context, id string) error
	IncrementAssignment(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// TeacherRepository persists teacher applications.
type TeacherRepository interface {
	Create(ctx context.Context, app *domain.TeacherApplication) (*domain.TeacherApplication, error)
	FindByEmail(ctx context.Context, email string) (*domain.TeacherApplication, error)
	List(ctx context.Context) ([]*domain.TeacherApplication, error)
	SetStatus(ctx context.Context, id string, status domain.ModerationStatus) error
}

// AssignmentRepository persists assignments and their submission counters.
type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error)
	FindByID(ctx context.Context, id string) (*domain.Assignment, error)
	// List returns all assignments, or only those of classID when non-empty.
	List(ctx context.Context, classID string) ([]*domain.Assignment, error)
	IncrementSubmission(ctx context.Context, id string) error
}

// SubmissionRepository persists student submissions.
type SubmissionRepository interface {
	// Create returns domain.ErrDuplicateSubmission when (assignment, email) already exists.
	Create(ctx context.Context, s *domain.Submission) (*domain.Submission, error)
	FindByAssignmentAndEmail(ctx context.Context, assignmentID, email string) (*domain.Submission, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
}

// CartRepository persists cart entries.
type CartRepository interface {
	Create(ctx context.Context, entry *domain.CartEntry) (*domain.CartEntry, error)
	ListByEmail(ctx context.Context, email string) ([]*domain.CartEntry, error)
	// Delete removes the entry only when it belongs to email.
	Delete(ctx context.Context, id, email string) error
	// DeleteMany removes the entries of email whose id is in ids and reports
	// how many were removed. Other users' entries are never touched.
	DeleteMany(ctx context.Context, email string, ids []string) (int64, error)
}

// EnrollmentRepository persists enrollment snapshots.
type EnrollmentRepository interface {
	// Create returns domain.ErrAlreadyEnrolled when (class, email) already exists.
	Create(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error)
	FindByClassAndEmail(ctx context.Context, classID, email string) (*domain.Enrollment, error)
	ListByEmail(ctx context.Context, email string) ([]*domain.Enrollment, error)
}

// PaymentRepository is append-only.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	ListByEmail(ctx context.Context, email string) ([]*domain.Payment, error)
}

// FeedbackRepository is append-only.
type FeedbackRepository interface {
	Create(ctx context.Context, f *domain.Feedback) (*domain.Feedback, error)
	// List returns feedback newest first, optionally scoped to classID.
	List(ctx context.Context, classID string) ([]*domain.Feedback, error)
}

// TxRunner executes fn in a multi-document transaction when the store supports
// it, or directly otherwise. Repositories called with the ctx handed to fn
// take part in the transaction.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// Transactional reports whether fn runs atomically.
	Transactional() bool
}
