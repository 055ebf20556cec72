package ports

import (
	"context"
	"time"

	"github.com/learncraft/learncraft-api/internal/core/domain"
)

// CreateUserInput is sent on first sign-in.
type CreateUserInput struct {
	Email    string
	Name     string
	PhotoURL string
}

// UserService manages accounts and role promotion.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	ListUsers(ctx context.Context, search string) ([]*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	PromoteToAdmin(ctx context.Context, id string) error
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// CreateClassInput carries what an instructor submits for a new class.
type CreateClassInput struct {
	Title           string
	Price           float64
	Description     string
	Image           string
	InstructorName  string
	InstructorEmail string
}

// CatalogService manages the class lifecycle and catalog queries.
type CatalogService interface {
	CreateClass(ctx context.Context, in CreateClassInput) (*domain.Class, error)
	// EditClass and DeleteClass return domain.ErrNotOwner unless caller is the instructor.
	EditClass(ctx context.Context, id, caller string, patch domain.ClassPatch) error
	Moderate(ctx context.Context, id string, decision domain.Decision) error
	ListClasses(ctx context.Context, instructorEmail string) ([]*domain.Class, error)
	GetClass(ctx context.Context, id string) (*domain.Class, error)
	// ListApproved sorts by price when sort is "asc" or "desc".
	ListApproved(ctx context.Context, sort string) ([]*domain.Class, error)
	Search(ctx context.Context, term string) ([]*domain.Class, error)
	Recommend(ctx context.Context) ([]*domain.Class, error)
	Popular(ctx context.Context, limit int) ([]*domain.Class, error)
	DeleteClass(ctx context.Context, id, caller string) error
}

// ApplyTeacherInput is a teacher application as submitted.
type ApplyTeacherInput struct {
	Name       string
	Email      string
	Image      string
	Title      string
	Experience string
	Category   string
}

// TeacherService manages teacher applications.
type TeacherService interface {
	Apply(ctx context.Context, in ApplyTeacherInput) (*domain.TeacherApplication, error)
	List(ctx context.Context) ([]*domain.TeacherApplication, error)
	GetByEmail(ctx context.Context, email string) (*domain.TeacherApplication, error)
	Moderate(ctx context.Context, id string, decision domain.Decision) error
}

// PostAssignmentInput is an assignment created by the class owner. Caller
// must be the class's instructor.
type PostAssignmentInput struct {
	Caller      string
	ClassID     string
	Title       string
	Description string
	Deadline    time.Time
}

// SubmissionInput is a student's answer.
type SubmissionInput struct {
	AssignmentID string
	Email        string
	Content      string
}

// AssignmentService tracks assignments and submissions.
type AssignmentService interface {
	PostAssignment(ctx context.Context, in PostAssignmentInput) (*domain.Assignment, error)
	ListAssignments(ctx context.Context, classID string) ([]*domain.Assignment, error)
	RecordSubmission(ctx context.Context, in SubmissionInput) (*domain.Submission, error)
	FindSubmission(ctx context.Context, assignmentID, email string) (*domain.Submission, error)
	CountSubmissionsByUser(ctx context.Context, email string) (int64, error)
}

// AddCartInput references the class the user intends to buy.
type AddCartInput struct {
	Email          string
	ClassID        string
	Title          string
	Price          float64
	Image          string
	InstructorName string
}

// CartService manages cart entries.
type CartService interface {
	AddToCart(ctx context.Context, in AddCartInput) (*domain.CartEntry, error)
	ListCart(ctx context.Context, email string) ([]*domain.CartEntry, error)
	RemoveFromCart(ctx context.Context, id, email string) error
}

// EnrollmentService exposes enrollment history.
type EnrollmentService interface {
	ListEnrollments(ctx context.Context, email string) ([]*domain.Enrollment, error)
}

// PaymentIntentInput asks the processor for a client secret.
type PaymentIntentInput struct {
	Price          float64
	IdempotencyKey string
}

// PaymentService is the pass-through to the payment processor plus payment history.
type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, in PaymentIntentInput) (string, error)
	ListPayments(ctx context.Context, email string) ([]*domain.Payment, error)
}

// FeedbackInput is free-form course feedback.
type FeedbackInput struct {
	ClassID     string
	Email       string
	Name        string
	Rating      int
	Description string
}

// FeedbackService records and lists feedback.
type FeedbackService interface {
	AddFeedback(ctx context.Context, in FeedbackInput) (*domain.Feedback, error)
	ListFeedback(ctx context.Context, classID string) ([]*domain.Feedback, error)
}
