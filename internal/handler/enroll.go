package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/middleware"
	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/policy"
	"github.com/iliyamo/learning-platform/internal/repository"
)

// EnrollmentStore is the persistence surface for enrollments.
type EnrollmentStore interface {
	Enroll(ctx context.Context, userID, courseID uint64) (*model.Enrollment, error)
	HasActive(ctx context.Context, userID, courseID uint64) (bool, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.Enrollment, error)
}

// EnrollHandler serves enrollment creation and listing.
type EnrollHandler struct {
	Courses     CourseStore
	Enrollments EnrollmentStore
}

func NewEnrollHandler(courses CourseStore, enrollments EnrollmentStore) *EnrollHandler {
	return &EnrollHandler{Courses: courses, Enrollments: enrollments}
}

// Enroll handles POST /courses/:id/enroll. Only students enroll, and only
// in courses that still exist and are active.
func (h *EnrollHandler) Enroll(c echo.Context) error {
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
	if !course.Active {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
	}
	if !policy.Allowed(actor, policy.EnrollInCourse, policy.Resource{}) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	enr, err := h.Enrollments.Enroll(c.Request().Context(), actor.UserID, id)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyEnrolled) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "already enrolled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "enrolled", "enrollment": toEnrollmentPart(enr)})
}

// List handles GET /enrollments, returning the caller's own enrollments.
func (h *EnrollHandler) List(c echo.Context) error {
	actor := middleware.Actor(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	enrs, err := h.Enrollments.ListByUser(c.Request().Context(), actor.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"enrollments": toEnrollmentParts(enrs)})
}
