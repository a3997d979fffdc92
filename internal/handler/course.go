package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/middleware"
	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/policy"
	"github.com/iliyamo/learning-platform/internal/repository"
)

// CourseStore is the persistence surface the course endpoints need.
// *repository.CourseRepo satisfies it.
type CourseStore interface {
	Create(ctx context.Context, c *model.Course) error
	GetByID(ctx context.Context, id uint64) (*model.Course, error)
	ListActive(ctx context.Context, level, query string) ([]*model.Course, error)
	Update(ctx context.Context, id uint64, title, description, level string) error
	SoftDelete(ctx context.Context, id uint64) error
}

// LessonStore is the persistence surface for lessons inside a course.
type LessonStore interface {
	Create(ctx context.Context, l *model.Lesson) error
	GetByID(ctx context.Context, id uint64) (*model.Lesson, error)
	ListByCourse(ctx context.Context, courseID uint64) ([]*model.Lesson, error)
}

// CourseHandler serves the course catalogue and lesson management.
type CourseHandler struct {
	Courses CourseStore
	Lessons LessonStore
}

func NewCourseHandler(courses CourseStore, lessons LessonStore) *CourseHandler {
	return &CourseHandler{Courses: courses, Lessons: lessons}
}

type courseReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       string `json:"level"`
}

type lessonReq struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Position uint32 `json:"position"`
}

func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// List handles GET /courses. Public; supports ?level= and ?q= filters.
func (h *CourseHandler) List(c echo.Context) error {
	level := strings.TrimSpace(c.QueryParam("level"))
	query := strings.TrimSpace(c.QueryParam("q"))
	courses, err := h.Courses.ListActive(c.Request().Context(), level, query)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"courses": toCourseParts(courses)})
}

// Get handles GET /courses/:id. Soft-deleted courses are not exposed here.
func (h *CourseHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	course, err := h.Courses.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if !course.Active {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"course": toCoursePart(course)})
}

// Create handles POST /courses. Teachers create courses they own; admins
// may create as well.
func (h *CourseHandler) Create(c echo.Context) error {
	actor := middleware.Actor(c)
	if !policy.Allowed(actor, policy.CreateCourse, policy.Resource{}) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	var req courseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Description == "" || req.Level == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/description/level required"})
	}
	course := &model.Course{OwnerID: actor.UserID, Title: req.Title, Description: req.Description, Level: req.Level}
	if err := h.Courses.Create(c.Request().Context(), course); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "course created", "course": toCoursePart(course)})
}

// Update handles PUT /courses/:id.
func (h *CourseHandler) Update(c echo.Context) error {
	actor := middleware.Actor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	course, err := h.Courses.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if !policy.Allowed(actor, policy.UpdateCourse, policy.Resource{OwnerID: course.OwnerID}) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	var req courseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Level == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/level required"})
	}
	if err := h.Courses.Update(c.Request().Context(), id, req.Title, req.Description, req.Level); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	updated, err := h.Courses.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"course": toCoursePart(updated)})
}

// Delete handles DELETE /courses/:id. Courses are soft-deleted so existing
// enrollments and progress keep their foreign rows.
func (h *CourseHandler) Delete(c echo.Context) error {
	actor := middleware.Actor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	course, err := h.Courses.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if !policy.Allowed(actor, policy.DeleteCourse, policy.Resource{OwnerID: course.OwnerID}) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Courses.SoftDelete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "course deleted"})
}

// CreateLesson handles POST /courses/:id/lessons.
func (h *CourseHandler) CreateLesson(c echo.Context) error {
	actor := middleware.Actor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	course, err := h.Courses.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if !policy.Allowed(actor, policy.CreateLesson, policy.Resource{OwnerID: course.OwnerID}) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	var req lessonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	lesson := &model.Lesson{CourseID: id, Title: req.Title, Content: req.Content, Position: req.Position}
	if err := h.Lessons.Create(c.Request().Context(), lesson); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "lesson created", "lesson": toLessonPart(lesson)})
}

// ListLessons handles GET /courses/:id/lessons. Public like the catalogue.
func (h *CourseHandler) ListLessons(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	course, err := h.Courses.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if !course.Active {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
	}
	lessons, err := h.Lessons.ListByCourse(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"lessons": toLessonParts(lessons)})
}
