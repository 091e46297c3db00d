package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/db"
	"github.com/emre/akademix/internal/pkg/apperrors"
)

// fakeTransactor runs the function directly; the fakes below keep their own
// state so a nil pgx.Tx is fine.
type fakeTransactor struct {
	calls int
}

var _ db.Transactor = (*fakeTransactor)(nil)

func (t *fakeTransactor) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	t.calls++
	return fn(ctx, nil)
}

type fakeEnquiryRepo struct {
	nextID    int64
	enquiries map[int64]*models.Enquiry
}

func newFakeEnquiryRepo() *fakeEnquiryRepo {
	return &fakeEnquiryRepo{enquiries: make(map[int64]*models.Enquiry)}
}

func (r *fakeEnquiryRepo) CreateTx(_ context.Context, _ pgx.Tx, e *models.Enquiry) error {
	r.nextID++
	e.ID = r.nextID
	e.CreatedAt = time.Now()
	copied := *e
	r.enquiries[e.ID] = &copied
	return nil
}

func (r *fakeEnquiryRepo) GetByID(_ context.Context, id int64) (*models.Enquiry, error) {
	e, ok := r.enquiries[id]
	if !ok {
		return nil, apperrors.ErrEnquiryNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEnquiryRepo) GetByIDForUpdate(ctx context.Context, _ pgx.Tx, id int64) (*models.Enquiry, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeEnquiryRepo) UpdateStatusTx(_ context.Context, _ pgx.Tx, id int64, status models.EnquiryStatus) error {
	e, ok := r.enquiries[id]
	if !ok {
		return apperrors.ErrEnquiryNotFound
	}
	e.Status = status
	return nil
}

func (r *fakeEnquiryRepo) GetAll(_ context.Context, _ uint64, _ int) ([]*models.Enquiry, error) {
	var out []*models.Enquiry
	for _, e := range r.enquiries {
		copied := *e
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeEnquiryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.enquiries)), nil
}

type fakeStudentRepo struct {
	nextID   int64
	students map[int64]*models.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[int64]*models.Student)}
}

func (r *fakeStudentRepo) CreateTx(_ context.Context, _ pgx.Tx, s *models.Student) error {
	if s.EnquiryID != nil {
		for _, existing := range r.students {
			if existing.EnquiryID != nil && *existing.EnquiryID == *s.EnquiryID {
				return apperrors.ErrEnquiryAlreadyAdmitted
			}
		}
	}
	r.nextID++
	s.ID = r.nextID
	copied := *s
	r.students[s.ID] = &copied
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id int64) (*models.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeStudentRepo) GetAll(_ context.Context, _ uint64, _ int) ([]*models.Student, error) {
	var out []*models.Student
	for _, s := range r.students {
		copied := *s
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeStudentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.students)), nil
}

type fakeFeeRepo struct {
	nextID        int64
	nextPaymentID int64
	fees          map[int64]*models.Fee
	payments      map[int64][]*models.Payment
}

func newFakeFeeRepo() *fakeFeeRepo {
	return &fakeFeeRepo{
		fees:     make(map[int64]*models.Fee),
		payments: make(map[int64][]*models.Payment),
	}
}

func (r *fakeFeeRepo) CreateTx(_ context.Context, _ pgx.Tx, f *models.Fee) error {
	r.nextID++
	f.ID = r.nextID
	f.CreatedAt = time.Now()
	copied := *f
	r.fees[f.ID] = &copied
	return nil
}

func (r *fakeFeeRepo) GetByID(_ context.Context, id int64) (*models.Fee, error) {
	f, ok := r.fees[id]
	if !ok {
		return nil, apperrors.ErrFeeNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *fakeFeeRepo) GetByIDForUpdate(ctx context.Context, _ pgx.Tx, id int64) (*models.Fee, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeFeeRepo) GetByStudentID(_ context.Context, studentID int64) (*models.Fee, error) {
	for _, f := range r.fees {
		if f.StudentID == studentID {
			copied := *f
			return &copied, nil
		}
	}
	return nil, apperrors.ErrFeeNotFound
}

func (r *fakeFeeRepo) InsertPaymentTx(_ context.Context, _ pgx.Tx, p *models.Payment) error {
	if _, ok := r.fees[p.FeeID]; !ok {
		return apperrors.ErrFeeNotFound
	}
	r.nextPaymentID++
	p.ID = r.nextPaymentID
	p.CreatedAt = time.Now()
	copied := *p
	r.payments[p.FeeID] = append(r.payments[p.FeeID], &copied)
	return nil
}

func (r *fakeFeeRepo) SumPayments(_ context.Context, feeID int64) (float64, error) {
	var sum float64
	for _, p := range r.payments[feeID] {
		sum += p.Amount
	}
	return sum, nil
}

func (r *fakeFeeRepo) SumPaymentsTx(ctx context.Context, _ pgx.Tx, feeID int64) (float64, error) {
	return r.SumPayments(ctx, feeID)
}

func (r *fakeFeeRepo) UpdateStatusTx(_ context.Context, _ pgx.Tx, feeID int64, status models.FeeStatus) error {
	f, ok := r.fees[feeID]
	if !ok {
		return apperrors.ErrFeeNotFound
	}
	f.Status = status
	return nil
}

func (r *fakeFeeRepo) GetPayments(_ context.Context, feeID int64) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range r.payments[feeID] {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeFeeRepo) LastPaymentDate(_ context.Context, feeID int64) (time.Time, bool, error) {
	payments := r.payments[feeID]
	if len(payments) == 0 {
		return time.Time{}, false, nil
	}
	last := payments[0].PaymentDate
	for _, p := range payments[1:] {
		if p.PaymentDate.After(last) {
			last = p.PaymentDate
		}
	}
	return last, true, nil
}

func (r *fakeFeeRepo) GetAll(_ context.Context, _ uint64, _ int) ([]*models.Fee, error) {
	var out []*models.Fee
	for _, f := range r.fees {
		copied := *f
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeFeeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.fees)), nil
}

func (r *fakeFeeRepo) AggregateTotals(ctx context.Context) (float64, float64, int64, int64, error) {
	var collected, total float64
	var pending, paid int64
	for id, f := range r.fees {
		sum, _ := r.SumPayments(ctx, id)
		collected += sum
		total += f.TotalAmount
		if f.Status == models.FeePaid {
			paid++
		} else {
			pending++
		}
	}
	return collected, total, pending, paid, nil
}

type fakeAuditRepo struct {
	nextID  int64
	entries []*models.AuditLog
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{}
}

func (r *fakeAuditRepo) CreateTx(_ context.Context, _ pgx.Tx, e *models.AuditLog) error {
	r.nextID++
	e.ID = r.nextID
	e.CreatedAt = time.Now()
	copied := *e
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *fakeAuditRepo) ListRecent(_ context.Context, _ uint64, limit int) ([]*models.AuditLog, error) {
	var out []*models.AuditLog
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		copied := *r.entries[i]
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeAuditRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.entries)), nil
}

// actionsRecorded returns the recorded action names in order.
func (r *fakeAuditRepo) actionsRecorded() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeUserRepo struct {
	nextID   int64
	users    map[int64]*models.User
	staffIDs map[int64]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User), staffIDs: make(map[int64]bool)}
}

func (r *fakeUserRepo) CreateTx(_ context.Context, _ pgx.Tx, u *models.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return apperrors.ErrUsernameExists
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) CreateStaffProfileTx(_ context.Context, _ pgx.Tx, p *models.StaffProfile) error {
	r.staffIDs[p.UserID] = true
	p.ID = p.UserID
	return nil
}

func (r *fakeUserRepo) CreateReceptionistProfileTx(_ context.Context, _ pgx.Tx, p *models.ReceptionistProfile) error {
	p.ID = p.UserID
	return nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) GetAll(_ context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) UpdateTx(_ context.Context, _ pgx.Tx, u *models.User) error {
	stored, ok := r.users[u.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	stored.Username = u.Username
	stored.Password = u.Password
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) DeleteTx(_ context.Context, _ pgx.Tx, id int64) error {
	if _, ok := r.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(r.users, id)
	delete(r.staffIDs, id)
	return nil
}

func (r *fakeUserRepo) SetActiveTx(_ context.Context, _ pgx.Tx, id int64, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id int64) error {
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

func (r *fakeUserRepo) StaffExists(_ context.Context, staffID int64) (bool, error) {
	return r.staffIDs[staffID], nil
}

func (r *fakeUserRepo) CountStaff(_ context.Context) (int64, error) {
	return int64(len(r.staffIDs)), nil
}

// failingAuditRepo rejects every write so callers can exercise the
// audit-failure path.
type failingAuditRepo struct{}

func (r *failingAuditRepo) CreateTx(_ context.Context, _ pgx.Tx, _ *models.AuditLog) error {
	return errors.New("audit insert failed")
}

func (r *failingAuditRepo) ListRecent(_ context.Context, _ uint64, _ int) ([]*models.AuditLog, error) {
	return nil, nil
}

func (r *failingAuditRepo) Count(_ context.Context) (int64, error) {
	return 0, nil
}

// snapshotter lets rollbackTransactor capture and restore a fake's state.
type snapshotter interface {
	snapshot() func()
}

// rollbackTransactor mirrors real transaction semantics over the in-memory
// fakes: when the function fails, every enrolled fake is restored to its
// state from before the call.
type rollbackTransactor struct {
	repos []snapshotter
	calls int
}

var _ db.Transactor = (*rollbackTransactor)(nil)

func (t *rollbackTransactor) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	t.calls++
	restores := make([]func(), len(t.repos))
	for i, r := range t.repos {
		restores[i] = r.snapshot()
	}
	if err := fn(ctx, nil); err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		return err
	}
	return nil
}

type fakeCourseRepo struct {
	nextID   int64
	courses  map[int64]*models.Course
	subjects map[int64]*models.Subject
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses:  make(map[int64]*models.Course),
		subjects: make(map[int64]*models.Subject),
	}
}

func (r *fakeCourseRepo) snapshot() func() {
	nextID := r.nextID
	courses := make(map[int64]*models.Course, len(r.courses))
	for id, c := range r.courses {
		copied := *c
		courses[id] = &copied
	}
	subjects := make(map[int64]*models.Subject, len(r.subjects))
	for id, s := range r.subjects {
		copied := *s
		subjects[id] = &copied
	}
	return func() {
		r.nextID = nextID
		r.courses = courses
		r.subjects = subjects
	}
}

func (r *fakeCourseRepo) CreateTx(_ context.Context, _ pgx.Tx, course *models.Course) error {
	for _, existing := range r.courses {
		if existing.Name == course.Name {
			return apperrors.ErrCourseAlreadyExists
		}
	}
	r.nextID++
	course.ID = r.nextID
	copied := *course
	r.courses[course.ID] = &copied
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id int64) (*models.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCourseRepo) GetAll(_ context.Context) ([]*models.Course, error) {
	out := make([]*models.Course, 0, len(r.courses))
	for _, c := range r.courses {
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCourseRepo) Rename(_ context.Context, _ pgx.Tx, id int64, name string) error {
	c, ok := r.courses[id]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	c.Name = name
	return nil
}

func (r *fakeCourseRepo) DeleteCascadeTx(_ context.Context, _ pgx.Tx, id int64) error {
	if _, ok := r.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(r.courses, id)
	for sid, s := range r.subjects {
		if s.CourseID == id {
			delete(r.subjects, sid)
		}
	}
	return nil
}

func (r *fakeCourseRepo) CreateSubjectTx(_ context.Context, _ pgx.Tx, subject *models.Subject) error {
	if _, ok := r.courses[subject.CourseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	r.nextID++
	subject.ID = r.nextID
	copied := *subject
	r.subjects[subject.ID] = &copied
	return nil
}

func (r *fakeCourseRepo) GetSubjectByID(_ context.Context, id int64) (*models.Subject, error) {
	s, ok := r.subjects[id]
	if !ok {
		return nil, apperrors.ErrSubjectNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeCourseRepo) GetSubjectsByCourseID(_ context.Context, courseID int64) ([]*models.Subject, error) {
	var out []*models.Subject
	for _, s := range r.subjects {
		if s.CourseID == courseID {
			copied := *s
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCourseRepo) RenameSubject(_ context.Context, _ pgx.Tx, id int64, name string) error {
	s, ok := r.subjects[id]
	if !ok {
		return apperrors.ErrSubjectNotFound
	}
	s.Name = name
	return nil
}

func (r *fakeCourseRepo) DeleteSubjectTx(_ context.Context, _ pgx.Tx, id int64) error {
	if _, ok := r.subjects[id]; !ok {
		return apperrors.ErrSubjectNotFound
	}
	delete(r.subjects, id)
	return nil
}

type fakeAppointmentRepo struct {
	nextID       int64
	appointments map[int64]*models.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[int64]*models.Appointment)}
}

func (r *fakeAppointmentRepo) snapshot() func() {
	nextID := r.nextID
	appointments := make(map[int64]*models.Appointment, len(r.appointments))
	for id, a := range r.appointments {
		copied := *a
		appointments[id] = &copied
	}
	return func() {
		r.nextID = nextID
		r.appointments = appointments
	}
}

func (r *fakeAppointmentRepo) CreateTx(_ context.Context, _ pgx.Tx, a *models.Appointment) error {
	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Now()
	copied := *a
	r.appointments[a.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) GetAll(_ context.Context, _ uint64, _ int) ([]*models.Appointment, error) {
	out := make([]*models.Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		copied := *a
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeAppointmentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.appointments)), nil
}
