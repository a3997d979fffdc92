package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/middleware"
	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/policy"
	"github.com/iliyamo/learning-platform/internal/queue"
	"github.com/iliyamo/learning-platform/internal/repository"
	"github.com/iliyamo/learning-platform/internal/service"
)

// ProgressReader lists stored progress records for the read endpoint. The
// write path goes through the reconciler instead of a raw store.
type ProgressReader interface {
	ListByUser(ctx context.Context, userID uint64) ([]*model.LessonProgress, error)
}

// CompletionPublisher emits an event when a lesson transitions to
// completed. Publishing is best-effort.
type CompletionPublisher func(ctx context.Context, ev queue.LessonCompletedEvent) error

// ProgressHandler serves lesson-progress reads and writes.
type ProgressHandler struct {
	Lessons     LessonStore
	Enrollments EnrollmentStore
	Reconciler  *service.ProgressReconciler
	Progress    ProgressReader
	Publish     CompletionPublisher
}

func NewProgressHandler(lessons LessonStore, enrollments EnrollmentStore, rec *service.ProgressReconciler, progress ProgressReader, publish CompletionPublisher) *ProgressHandler {
	return &ProgressHandler{Lessons: lessons, Enrollments: enrollments, Reconciler: rec, Progress: progress, Publish: publish}
}

type progressReq struct {
	LessonID           uint64 `json:"lesson_id"`
	CourseID           uint64 `json:"course_id"`
	ProgressPercentage int    `json:"progress_percentage"`
	TimeSpentSeconds   int64  `json:"time_spent_seconds"`
	Completed          bool   `json:"completed"`
}

// Post handles POST /progress. Percentage is overwritten, time spent is
// accumulated and completion is one-way; the reconciler owns those rules.
func (h *ProgressHandler) Post(c echo.Context) error {
	actor := middleware.Actor(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req progressReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.LessonID == 0 || req.CourseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lesson_id/course_id required"})
	}

	lesson, err := h.Lessons.GetByID(c.Request().Context(), req.LessonID)
	if err != nil {
		if errors.Is(err, repository.ErrLessonNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if lesson.CourseID != req.CourseID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lesson does not belong to course"})
	}

	enrolled, err := h.Enrollments.HasActive(c.Request().Context(), actor.UserID, req.CourseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if !policy.Allowed(actor, policy.WriteProgress, policy.Resource{ActiveEnrollment: enrolled}) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	rec, completedNow, err := h.Reconciler.Apply(c.Request().Context(), actor.UserID, service.ProgressUpdate{
		LessonID:         req.LessonID,
		CourseID:         req.CourseID,
		Percentage:       req.ProgressPercentage,
		TimeSpentSeconds: req.TimeSpentSeconds,
		Completed:        req.Completed,
	})
	if err != nil {
		if errors.Is(err, service.ErrContention) {
			c.Logger().Warnf("progress reconcile contention: user=%d lesson=%d", actor.UserID, req.LessonID)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	if completedNow && h.Publish != nil {
		// Best effort; a lost event never fails the request.
		_ = h.Publish(c.Request().Context(), queue.LessonCompletedEvent{
			UserID:           actor.UserID,
			CourseID:         rec.CourseID,
			LessonID:         rec.LessonID,
			TimeSpentSeconds: rec.TimeSpentSeconds,
			CompletedAt:      rec.CompletedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"progress": toProgressPart(rec)})
}

// Get handles GET /progress. Students see their own records; staff may
// pass ?user_id= to inspect another student's.
func (h *ProgressHandler) Get(c echo.Context) error {
	actor := middleware.Actor(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	target := actor.UserID
	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
		}
		target = id
	}
	if !policy.Allowed(actor, policy.ReadProgress, policy.Resource{TargetUserID: target}) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	recs, err := h.Progress.ListByUser(c.Request().Context(), target)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"progress": toProgressParts(recs)})
}
