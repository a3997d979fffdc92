package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/queue"
	"github.com/iliyamo/learning-platform/internal/service"
)

type progressFixture struct {
	handler   *ProgressHandler
	lessons   *fakeLessons
	enrolls   *fakeEnrollments
	progress  *fakeProgress
	published []queue.LessonCompletedEvent
}

func newProgressFixture() *progressFixture {
	fx := &progressFixture{
		lessons:  newFakeLessons(),
		enrolls:  newFakeEnrollments(),
		progress: newFakeProgress(),
	}
	publish := func(_ context.Context, ev queue.LessonCompletedEvent) error {
		fx.published = append(fx.published, ev)
		return nil
	}
	fx.handler = NewProgressHandler(fx.lessons, fx.enrolls,
		service.NewProgressReconciler(fx.progress), fx.progress, publish)
	fx.lessons.add(&model.Lesson{ID: 3, CourseID: 1, Title: "Intro"})
	return fx
}

func TestProgressPostRequiresEnrollment(t *testing.T) {
	e := echo.New()
	fx := newProgressFixture()

	c, rec := newJSONContext(e, http.MethodPost, "/progress",
		`{"lesson_id":3,"course_id":1,"progress_percentage":40}`)
	asActor(c, 7, model.RoleStudent)
	require.NoError(t, fx.handler.Post(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProgressPostDeniesTeachers(t *testing.T) {
	e := echo.New()
	fx := newProgressFixture()

	c, rec := newJSONContext(e, http.MethodPost, "/progress",
		`{"lesson_id":3,"course_id":1,"progress_percentage":40}`)
	asActor(c, 2, model.RoleTeacher)
	require.NoError(t, fx.handler.Post(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProgressPostCreatesAndUpdates(t *testing.T) {
	e := echo.New()
	fx := newProgressFixture()
	_, err := fx.enrolls.Enroll(context.Background(), 7, 1)
	require.NoError(t, err)

	c, rec := newJSONContext(e, http.MethodPost, "/progress",
		`{"lesson_id":3,"course_id":1,"progress_percentage":40,"time_spent_seconds":120}`)
	asActor(c, 7, model.RoleStudent)
	require.NoError(t, fx.handler.Post(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newJSONContext(e, http.MethodPost, "/progress",
		`{"lesson_id":3,"course_id":1,"progress_percentage":90,"time_spent_seconds":60}`)
	asActor(c, 7, model.RoleStudent)
	require.NoError(t, fx.handler.Post(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Progress progressPart `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 90, body.Progress.ProgressPercentage)
	assert.Equal(t, int64(180), body.Progress.TimeSpentSeconds)
	assert.Empty(t, fx.published)
}

func TestProgressPostPublishesCompletionOnce(t *testing.T) {
	e := echo.New()
	fx := newProgressFixture()
	_, err := fx.enrolls.Enroll(context.Background(), 7, 1)
	require.NoError(t, err)

	body := `{"lesson_id":3,"course_id":1,"progress_percentage":100,"completed":true,"time_spent_seconds":30}`
	c, rec := newJSONContext(e, http.MethodPost, "/progress", body)
	asActor(c, 7, model.RoleStudent)
	require.NoError(t, fx.handler.Post(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, fx.published, 1)
	assert.Equal(t, uint64(7), fx.published[0].UserID)
	assert.Equal(t, uint64(3), fx.published[0].LessonID)

	// Repeating the completed report must not publish again.
	c, rec = newJSONContext(e, http.MethodPost, "/progress", body)
	asActor(c, 7, model.RoleStudent)
	require.NoError(t, fx.handler.Post(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, fx.published, 1)
}

func TestProgressPostUnknownLesson(t *testing.T) {
	e := echo.New()
	fx := newProgressFixture()

	c, rec := newJSONContext(e, http.MethodPost, "/progress",
		`{"lesson_id":99,"course_id":1,"progress_percentage":40}`)
	asActor(c, 7, model.RoleStudent)
	require.NoError(t, fx.handler.Post(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProgressPostLessonCourseMismatch(t *testing.T) {
	e := echo.New()
	fx := newProgressFixture()

	c, rec := newJSONContext(e, http.MethodPost, "/progress",
		`{"lesson_id":3,"course_id":2,"progress_percentage":40}`)
	asActor(c, 7, model.RoleStudent)
	require.NoError(t, fx.handler.Post(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProgressPostMissingIDs(t *testing.T) {
	e := echo.New()
	fx := newProgressFixture()

	c, rec := newJSONContext(e, http.MethodPost, "/progress", `{"progress_percentage":40}`)
	asActor(c, 7, model.RoleStudent)
	require.NoError(t, fx.handler.Post(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProgressGetSelf(t *testing.T) {
	e := echo.New()
	fx := newProgressFixture()
	_, err := fx.enrolls.Enroll(context.Background(), 7, 1)
	require.NoError(t, err)

	c, _ := newJSONContext(e, http.MethodPost, "/progress",
		`{"lesson_id":3,"course_id":1,"progress_percentage":40}`)
	asActor(c, 7, model.RoleStudent)
	require.NoError(t, fx.handler.Post(c))

	c, rec := newJSONContext(e, http.MethodGet, "/progress", "")
	asActor(c, 7, model.RoleStudent)
	require.NoError(t, fx.handler.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Progress []progressPart `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Progress, 1)
}

func TestProgressGetOtherStudentForbidden(t *testing.T) {
	e := echo.New()
	fx := newProgressFixture()

	c, rec := newJSONContext(e, http.MethodGet, "/progress?user_id=8", "")
	asActor(c, 7, model.RoleStudent)
	require.NoError(t, fx.handler.Get(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProgressGetOtherStudentAsTeacher(t *testing.T) {
	e := echo.New()
	fx := newProgressFixture()

	c, rec := newJSONContext(e, http.MethodGet, "/progress?user_id=7", "")
	asActor(c, 2, model.RoleTeacher)
	require.NoError(t, fx.handler.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
