package handler

import (
	"context"

	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

type stubAuthService struct {
	token     string
	issuedFor string
}

func (s *stubAuthService) IssueToken(email string) (string, error) {
	s.issuedFor = email
	return s.token, nil
}

func (s *stubAuthService) Authenticate(string) (*ports.Principal, error) {
	return nil, domain.ErrInvalidToken
}

func (s *stubAuthService) RequireAdmin(context.Context, *ports.Principal) error {
	return domain.ErrNotAdmin
}

type stubUserService struct {
	admins map[string]bool
	asked  string
}

func (s *stubUserService) CreateUser(_ context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return &domain.User{ID: "user-1", Email: in.Email, Name: in.Name}, nil
}

func (s *stubUserService) ListUsers(context.Context, string) ([]*domain.User, error) {
	return nil, nil
}

func (s *stubUserService) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) PromoteToAdmin(context.Context, string) error { return nil }

func (s *stubUserService) IsAdmin(_ context.Context, email string) (bool, error) {
	s.asked = email
	return s.admins[email], nil
}

type stubCatalogService struct {
	created      ports.CreateClassInput
	popularLimit int
	moderated    map[string]domain.Decision
	moderateErr  error
	caller       string
}

func (s *stubCatalogService) CreateClass(_ context.Context, in ports.CreateClassInput) (*domain.Class, error) {
	s.created = in
	return &domain.Class{ID: "class-1", Title: in.Title, Price: in.Price, InstructorEmail: in.InstructorEmail, Status: domain.StatusPending}, nil
}

func (s *stubCatalogService) EditClass(_ context.Context, _, caller string, _ domain.ClassPatch) error {
	s.caller = caller
	return nil
}

func (s *stubCatalogService) Moderate(_ context.Context, id string, d domain.Decision) error {
	if s.moderateErr != nil {
		return s.moderateErr
	}
	if s.moderated == nil {
		s.moderated = make(map[string]domain.Decision)
	}
	s.moderated[id] = d
	return nil
}

func (s *stubCatalogService) ListClasses(context.Context, string) ([]*domain.Class, error) {
	return nil, nil
}

func (s *stubCatalogService) GetClass(context.Context, string) (*domain.Class, error) {
	return nil, domain.ErrClassNotFound
}

func (s *stubCatalogService) ListApproved(context.Context, string) ([]*domain.Class, error) {
	return nil, nil
}

func (s *stubCatalogService) Search(context.Context, string) ([]*domain.Class, error) {
	return nil, nil
}

func (s *stubCatalogService) Recommend(context.Context) ([]*domain.Class, error) {
	return nil, nil
}

func (s *stubCatalogService) Popular(_ context.Context, limit int) ([]*domain.Class, error) {
	s.popularLimit = limit
	return []*domain.Class{}, nil
}

func (s *stubCatalogService) DeleteClass(_ context.Context, _, caller string) error {
	s.caller = caller
	return nil
}

type stubCheckoutService struct {
	got    ports.CheckoutInput
	result *ports.CheckoutResult
	err    error
}

func (s *stubCheckoutService) Checkout(_ context.Context, in ports.CheckoutInput) (*ports.CheckoutResult, error) {
	s.got = in
	return s.result, s.err
}

type stubPaymentService struct {
	intent ports.PaymentIntentInput
	secret string
	err    error
}

func (s *stubPaymentService) CreatePaymentIntent(_ context.Context, in ports.PaymentIntentInput) (string, error) {
	s.intent = in
	return s.secret, s.err
}

func (s *stubPaymentService) ListPayments(_ context.Context, email string) ([]*domain.Payment, error) {
	return []*domain.Payment{}, nil
}

type stubEnrollmentService struct{}

func (stubEnrollmentService) ListEnrollments(context.Context, string) ([]*domain.Enrollment, error) {
	return []*domain.Enrollment{}, nil
}

type stubCartService struct {
	added   ports.AddCartInput
	removed [2]string
}

func (s *stubCartService) AddToCart(_ context.Context, in ports.AddCartInput) (*domain.CartEntry, error) {
	s.added = in
	return &domain.CartEntry{ID: "cart-1", Email: in.Email, ClassID: in.ClassID}, nil
}

func (s *stubCartService) ListCart(context.Context, string) ([]*domain.CartEntry, error) {
	return []*domain.CartEntry{}, nil
}

func (s *stubCartService) RemoveFromCart(_ context.Context, id, email string) error {
	s.removed = [2]string{id, email}
	return nil
}

type stubAssignmentService struct {
	posted     ports.PostAssignmentInput
	submission ports.SubmissionInput
	lookup     [2]string
	count      int64
}

func (s *stubAssignmentService) PostAssignment(_ context.Context, in ports.PostAssignmentInput) (*domain.Assignment, error) {
	s.posted = in
	return &domain.Assignment{ID: "asg-1", ClassID: in.ClassID, Title: in.Title}, nil
}

func (s *stubAssignmentService) ListAssignments(context.Context, string) ([]*domain.Assignment, error) {
	return []*domain.Assignment{}, nil
}

func (s *stubAssignmentService) RecordSubmission(_ context.Context, in ports.SubmissionInput) (*domain.Submission, error) {
	s.submission = in
	return &domain.Submission{ID: "sub-1", AssignmentID: in.AssignmentID, Email: in.Email}, nil
}

func (s *stubAssignmentService) FindSubmission(_ context.Context, assignmentID, email string) (*domain.Submission, error) {
	s.lookup = [2]string{assignmentID, email}
	return &domain.Submission{ID: "sub-1", AssignmentID: assignmentID, Email: email}, nil
}

func (s *stubAssignmentService) CountSubmissionsByUser(context.Context, string) (int64, error) {
	return s.count, nil
}
