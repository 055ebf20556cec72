package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

var errStoreDown = errors.New("store unavailable")

// ---------------------------------------------------------------------------
// In-memory stub repositories mirroring the Mongo semantics the services rely on.
// ---------------------------------------------------------------------------

type idSeq struct {
	mu sync.Mutex
	n  int
}

func (s *idSeq) next(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", prefix, s.n)
}

type stubUserRepo struct {
	ids     idSeq
	byEmail map[string]*domain.User
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, domain.ErrUserExists
	}
	clone := *u
	clone.ID = r.ids.next("user")
	r.byEmail[clone.Email] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) List(_ context.Context, search string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.byEmail {
		if search != "" && !strings.Contains(strings.ToLower(u.Name+" "+u.Email), strings.ToLower(search)) {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) SetRole(_ context.Context, id, role string) error {
	for _, u := range r.byEmail {
		if u.ID == id {
			u.Role = role
			return nil
		}
	}
	return domain.ErrUserNotFound
}

type stubClassRepo struct {
	ids        idSeq
	byID       map[string]*domain.Class
	lastFilter ports.ClassFilter
	incErr     error
}

func newStubClassRepo() *stubClassRepo {
	return &stubClassRepo{byID: make(map[string]*domain.Class)}
}

func (r *stubClassRepo) seed(c domain.Class) *domain.Class {
	if c.ID == "" {
		c.ID = r.ids.next("class")
	}
	r.byID[c.ID] = &c
	return &c
}

func (r *stubClassRepo) Create(_ context.Context, c *domain.Class) (*domain.Class, error) {
	clone := *c
	clone.ID = r.ids.next("class")
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubClassRepo) FindByID(_ context.Context, id string) (*domain.Class, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrClassNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubClassRepo) List(_ context.Context, f ports.ClassFilter) ([]*domain.Class, error) {
	r.lastFilter = f
	var out []*domain.Class
	for _, c := range r.byID {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.InstructorEmail != "" && c.InstructorEmail != f.InstructorEmail {
			continue
		}
		if f.TitleSearch != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(f.TitleSearch)) {
			continue
		}
		if c.EnrollmentCount < f.MinEnrollment {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubClassRepo) Update(_ context.Context, id string, p domain.ClassPatch) error {
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrClassNotFound
	}
	c.Title, c.Price, c.Description, c.Image = p.Title, p.Price, p.Description, p.Image
	return nil
}

func (r *stubClassRepo) SetStatus(_ context.Context, id string, status domain.ModerationStatus) error {
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrClassNotFound
	}
	c.Status = status
	return nil
}

func (r *stubClassRepo) IncrementEnrollment(_ context.Context, id string) error {
	if r.incErr != nil {
		return r.incErr
	}
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrClassNotFound
	}
	c.EnrollmentCount++
	return nil
}

func (r *stubClassRepo) IncrementAssignment(_ context.Context, id string) error {
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrClassNotFound
	}
	c.AssignmentCount++
	return nil
}

func (r *stubClassRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrClassNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubEnrollmentRepo struct {
	ids  idSeq
	rows []*domain.Enrollment

	// hideFromLookup makes FindByClassAndEmail miss, simulating a concurrent
	// checkout that inserted between pre-check and insert.
	hideFromLookup bool
	findErr        error
}

func (r *stubEnrollmentRepo) Create(_ context.Context, e *domain.Enrollment) (*domain.Enrollment, error) {
	for _, row := range r.rows {
		if row.ClassID == e.ClassID && row.Email == e.Email {
			return nil, domain.ErrAlreadyEnrolled
		}
	}
	clone := *e
	clone.ID = r.ids.next("enrollment")
	r.rows = append(r.rows, &clone)
	out := clone
	return &out, nil
}

func (r *stubEnrollmentRepo) FindByClassAndEmail(_ context.Context, classID, email string) (*domain.Enrollment, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.hideFromLookup {
		return nil, domain.ErrEnrollmentNotFound
	}
	for _, row := range r.rows {
		if row.ClassID == classID && row.Email == email {
			clone := *row
			return &clone, nil
		}
	}
	return nil, domain.ErrEnrollmentNotFound
}

func (r *stubEnrollmentRepo) ListByEmail(_ context.Context, email string) ([]*domain.Enrollment, error) {
	var out []*domain.Enrollment
	for _, row := range r.rows {
		if row.Email == email {
			clone := *row
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubEnrollmentRepo) countFor(classID, email string) int {
	n := 0
	for _, row := range r.rows {
		if row.ClassID == classID && row.Email == email {
			n++
		}
	}
	return n
}

type stubPaymentRepo struct {
	ids       idSeq
	rows      []*domain.Payment
	createErr error
}

func (r *stubPaymentRepo) Create(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *p
	clone.ID = r.ids.next("payment")
	r.rows = append(r.rows, &clone)
	out := clone
	return &out, nil
}

func (r *stubPaymentRepo) ListByEmail(_ context.Context, email string) ([]*domain.Payment, error) {
	var out []*domain.Payment
	for _, row := range r.rows {
		if row.Email == email {
			out = append(out, row)
		}
	}
	return out, nil
}

type stubCartRepo struct {
	ids       idSeq
	byID      map[string]*domain.CartEntry
	deleteErr error
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{byID: make(map[string]*domain.CartEntry)}
}

func (r *stubCartRepo) Create(_ context.Context, e *domain.CartEntry) (*domain.CartEntry, error) {
	clone := *e
	clone.ID = r.ids.next("cart")
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCartRepo) ListByEmail(_ context.Context, email string) ([]*domain.CartEntry, error) {
	var out []*domain.CartEntry
	for _, e := range r.byID {
		if e.Email == email {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubCartRepo) Delete(_ context.Context, id, email string) error {
	if e, ok := r.byID[id]; !ok || e.Email != email {
		return domain.ErrCartEntryNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubCartRepo) DeleteMany(_ context.Context, email string, ids []string) (int64, error) {
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	var n int64
	for _, id := range ids {
		if e, ok := r.byID[id]; ok && e.Email == email {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

type stubAssignmentRepo struct {
	ids  idSeq
	byID map[string]*domain.Assignment
}

func newStubAssignmentRepo() *stubAssignmentRepo {
	return &stubAssignmentRepo{byID: make(map[string]*domain.Assignment)}
}

func (r *stubAssignmentRepo) Create(_ context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	clone := *a
	clone.ID = r.ids.next("assignment")
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAssignmentRepo) FindByID(_ context.Context, id string) (*domain.Assignment, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAssignmentNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAssignmentRepo) List(_ context.Context, classID string) ([]*domain.Assignment, error) {
	var out []*domain.Assignment
	for _, a := range r.byID {
		if classID == "" || a.ClassID == classID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubAssignmentRepo) IncrementSubmission(_ context.Context, id string) error {
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrAssignmentNotFound
	}
	a.SubmissionCount++
	return nil
}

type stubSubmissionRepo struct {
	ids  idSeq
	rows []*domain.Submission
}

func (r *stubSubmissionRepo) Create(_ context.Context, s *domain.Submission) (*domain.Submission, error) {
	for _, row := range r.rows {
		if row.AssignmentID == s.AssignmentID && row.Email == s.Email {
			return nil, domain.ErrDuplicateSubmission
		}
	}
	clone := *s
	clone.ID = r.ids.next("submission")
	r.rows = append(r.rows, &clone)
	out := clone
	return &out, nil
}

func (r *stubSubmissionRepo) FindByAssignmentAndEmail(_ context.Context, assignmentID, email string) (*domain.Submission, error) {
	for _, row := range r.rows {
		if row.AssignmentID == assignmentID && row.Email == email {
			clone := *row
			return &clone, nil
		}
	}
	return nil, domain.ErrSubmissionNotFound
}

func (r *stubSubmissionRepo) CountByEmail(_ context.Context, email string) (int64, error) {
	var n int64
	for _, row := range r.rows {
		if row.Email == email {
			n++
		}
	}
	return n, nil
}

// stubTx runs fn directly. With atomic set it snapshots the stub stores and
// restores them when fn fails, like an aborted transaction.
type stubTx struct {
	atomic      bool
	classes     *stubClassRepo
	enrollments *stubEnrollmentRepo
	payments    *stubPaymentRepo
}

func (t *stubTx) Transactional() bool { return t.atomic }

func (t *stubTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.atomic {
		return fn(ctx)
	}

	classes := make(map[string]domain.Class, len(t.classes.byID))
	for id, c := range t.classes.byID {
		classes[id] = *c
	}
	enrollments := append([]*domain.Enrollment(nil), t.enrollments.rows...)
	payments := append([]*domain.Payment(nil), t.payments.rows...)

	if err := fn(ctx); err != nil {
		for id, c := range classes {
			restored := c
			t.classes.byID[id] = &restored
		}
		t.enrollments.rows = enrollments
		t.payments.rows = payments
		return err
	}
	return nil
}

type stubLocker struct {
	busy       bool
	err        error
	acquired   int
	released   int
	lastKey    string
	lastToken  string
	releaseErr error
}

func (l *stubLocker) Acquire(_ context.Context, classID, email string) (string, bool, error) {
	l.lastKey = classID + ":" + email
	if l.err != nil {
		return "", false, l.err
	}
	if l.busy {
		return "", false, nil
	}
	l.acquired++
	l.lastToken = "token-" + classID
	return l.lastToken, true, nil
}

func (l *stubLocker) Release(_ context.Context, classID, email, token string) error {
	l.released++
	return l.releaseErr
}

type stubProcessor struct {
	secret  string
	err     error
	lastReq ports.PaymentIntentRequest
}

func (p *stubProcessor) CreateIntent(_ context.Context, req ports.PaymentIntentRequest) (string, error) {
	p.lastReq = req
	return p.secret, p.err
}
