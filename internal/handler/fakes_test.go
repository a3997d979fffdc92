package handler

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/auth"
	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/repository"
	"github.com/iliyamo/learning-platform/internal/service"
	"github.com/iliyamo/learning-platform/internal/utils"
)

// ----- request plumbing -----

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asActor(c echo.Context, id uint64, role string) {
	c.Set("actor", &auth.Context{UserID: id, Role: role})
}

// ----- users -----

type fakeUsers struct {
	byID   map[uint64]*model.User
	nextID uint64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uint64]*model.User{}, nextID: 1}
}

func (f *fakeUsers) add(u *model.User) *model.User {
	if u.ID == 0 {
		u.ID = f.nextID
		f.nextID++
	} else if u.ID >= f.nextID {
		f.nextID = u.ID + 1
	}
	f.byID[u.ID] = u
	return u
}

func (f *fakeUsers) Create(_ context.Context, email, password, role, name string, phone *string, cost int) (uint64, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	u := f.add(&model.User{Email: email, PasswordHash: hash, Role: role, Name: name, Phone: phone})
	return u.ID, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUsers) UpdateLastLogin(_ context.Context, id uint64, at time.Time) error {
	if u, ok := f.byID[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

// ----- courses and lessons -----

type fakeCourses struct {
	byID   map[uint64]*model.Course
	nextID uint64
}

func newFakeCourses() *fakeCourses {
	return &fakeCourses{byID: map[uint64]*model.Course{}, nextID: 1}
}

func (f *fakeCourses) add(c *model.Course) *model.Course {
	if c.ID == 0 {
		c.ID = f.nextID
		f.nextID++
	} else if c.ID >= f.nextID {
		f.nextID = c.ID + 1
	}
	f.byID[c.ID] = c
	return c
}

func (f *fakeCourses) Create(_ context.Context, c *model.Course) error {
	c.Active = true
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	f.add(c)
	return nil
}

func (f *fakeCourses) GetByID(_ context.Context, id uint64) (*model.Course, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrCourseNotFound
	}
	return c, nil
}

func (f *fakeCourses) ListActive(_ context.Context, level, query string) ([]*model.Course, error) {
	out := []*model.Course{}
	for _, c := range f.byID {
		if !c.Active {
			continue
		}
		if level != "" && c.Level != level {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(query)) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCourses) Update(_ context.Context, id uint64, title, description, level string) error {
	c, ok := f.byID[id]
	if !ok {
		return repository.ErrCourseNotFound
	}
	c.Title, c.Description, c.Level = title, description, level
	return nil
}

func (f *fakeCourses) SoftDelete(_ context.Context, id uint64) error {
	c, ok := f.byID[id]
	if !ok || !c.Active {
		return repository.ErrCourseNotFound
	}
	c.Active = false
	return nil
}

type fakeLessons struct {
	byID   map[uint64]*model.Lesson
	nextID uint64
}

func newFakeLessons() *fakeLessons {
	return &fakeLessons{byID: map[uint64]*model.Lesson{}, nextID: 1}
}

func (f *fakeLessons) add(l *model.Lesson) *model.Lesson {
	if l.ID == 0 {
		l.ID = f.nextID
		f.nextID++
	} else if l.ID >= f.nextID {
		f.nextID = l.ID + 1
	}
	f.byID[l.ID] = l
	return l
}

func (f *fakeLessons) Create(_ context.Context, l *model.Lesson) error {
	l.CreatedAt = time.Now().UTC()
	f.add(l)
	return nil
}

func (f *fakeLessons) GetByID(_ context.Context, id uint64) (*model.Lesson, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrLessonNotFound
	}
	return l, nil
}

func (f *fakeLessons) ListByCourse(_ context.Context, courseID uint64) ([]*model.Lesson, error) {
	out := []*model.Lesson{}
	for _, l := range f.byID {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	return out, nil
}

// ----- enrollments -----

type fakeEnrollments struct {
	rows   []*model.Enrollment
	nextID uint64
}

func newFakeEnrollments() *fakeEnrollments {
	return &fakeEnrollments{nextID: 1}
}

func (f *fakeEnrollments) Enroll(_ context.Context, userID, courseID uint64) (*model.Enrollment, error) {
	for _, e := range f.rows {
		if e.UserID == userID && e.CourseID == courseID && e.Status == model.EnrollmentActive {
			return nil, repository.ErrAlreadyEnrolled
		}
	}
	e := &model.Enrollment{ID: f.nextID, UserID: userID, CourseID: courseID, Status: model.EnrollmentActive, EnrolledAt: time.Now().UTC()}
	f.nextID++
	f.rows = append(f.rows, e)
	return e, nil
}

func (f *fakeEnrollments) HasActive(_ context.Context, userID, courseID uint64) (bool, error) {
	for _, e := range f.rows {
		if e.UserID == userID && e.CourseID == courseID && e.Status == model.EnrollmentActive {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollments) ListByUser(_ context.Context, userID uint64) ([]*model.Enrollment, error) {
	out := []*model.Enrollment{}
	for _, e := range f.rows {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ----- progress -----

// fakeProgress backs both the reconciler and the read endpoint.
type fakeProgress struct {
	records map[[2]uint64]*model.LessonProgress
	nextID  uint64
}

func newFakeProgress() *fakeProgress {
	return &fakeProgress{records: map[[2]uint64]*model.LessonProgress{}, nextID: 1}
}

func (f *fakeProgress) Get(_ context.Context, userID, lessonID uint64) (*model.LessonProgress, error) {
	rec, ok := f.records[[2]uint64{userID, lessonID}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeProgress) Insert(_ context.Context, rec *model.LessonProgress) error {
	k := [2]uint64{rec.UserID, rec.LessonID}
	if _, ok := f.records[k]; ok {
		return service.ErrProgressExists
	}
	rec.ID = f.nextID
	f.nextID++
	cp := *rec
	f.records[k] = &cp
	return nil
}

func (f *fakeProgress) UpdateVersioned(_ context.Context, rec *model.LessonProgress, expected uint32) (bool, error) {
	k := [2]uint64{rec.UserID, rec.LessonID}
	cur, ok := f.records[k]
	if !ok || cur.Version != expected {
		return false, nil
	}
	cp := *rec
	f.records[k] = &cp
	return true, nil
}

func (f *fakeProgress) ListByUser(_ context.Context, userID uint64) ([]*model.LessonProgress, error) {
	out := []*model.LessonProgress{}
	for _, rec := range f.records {
		if rec.UserID == userID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ----- chat -----

type fakeChats struct {
	rows   []*model.ChatMessage
	nextID uint64
}

func newFakeChats() *fakeChats { return &fakeChats{nextID: 1} }

func (f *fakeChats) Insert(_ context.Context, m *model.ChatMessage) error {
	m.ID = f.nextID
	f.nextID++
	m.CreatedAt = time.Now().UTC()
	f.rows = append(f.rows, m)
	return nil
}

func (f *fakeChats) ListDirect(_ context.Context, userID, otherID uint64) ([]*model.ChatMessage, error) {
	out := []*model.ChatMessage{}
	for _, m := range f.rows {
		if m.CourseID != nil || m.RecipientID == nil {
			continue
		}
		if (m.SenderID == userID && *m.RecipientID == otherID) ||
			(m.SenderID == otherID && *m.RecipientID == userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeChats) ListByCourse(_ context.Context, courseID uint64) ([]*model.ChatMessage, error) {
	out := []*model.ChatMessage{}
	for _, m := range f.rows {
		if m.CourseID != nil && *m.CourseID == courseID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeChats) ListForUser(_ context.Context, userID uint64) ([]*model.ChatMessage, error) {
	out := []*model.ChatMessage{}
	for _, m := range f.rows {
		if m.SenderID == userID || (m.RecipientID != nil && *m.RecipientID == userID) {
			out = append(out, m)
		}
	}
	return out, nil
}
