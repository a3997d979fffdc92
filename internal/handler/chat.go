package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/auth"
	"github.com/iliyamo/learning-platform/internal/middleware"
	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/policy"
	"github.com/iliyamo/learning-platform/internal/repository"
)

// ChatStore is the persistence surface for chat messages.
type ChatStore interface {
	Insert(ctx context.Context, m *model.ChatMessage) error
	ListDirect(ctx context.Context, userID, otherID uint64) ([]*model.ChatMessage, error)
	ListByCourse(ctx context.Context, courseID uint64) ([]*model.ChatMessage, error)
	ListForUser(ctx context.Context, userID uint64) ([]*model.ChatMessage, error)
}

// ChatHandler serves direct and course-scoped messaging.
type ChatHandler struct {
	Chats       ChatStore
	Users       UserStore
	Courses     CourseStore
	Enrollments EnrollmentStore
}

func NewChatHandler(chats ChatStore, users UserStore, courses CourseStore, enrollments EnrollmentStore) *ChatHandler {
	return &ChatHandler{Chats: chats, Users: users, Courses: courses, Enrollments: enrollments}
}

type chatReq struct {
	RecipientID *uint64 `json:"recipient_id"`
	CourseID    *uint64 `json:"course_id"`
	Body        string  `json:"body"`
}

// courseAccess resolves the course and whether the actor may post in its
// room. Returns a nil course when it does not exist or is inactive.
func (h *ChatHandler) courseAccess(ctx context.Context, actor *auth.Context, courseID uint64) (*model.Course, bool, error) {
	course, err := h.Courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if !course.Active {
		return nil, false, nil
	}
	enrolled, err := h.Enrollments.HasActive(ctx, actor.UserID, courseID)
	if err != nil {
		return nil, false, err
	}
	ok := policy.Allowed(actor, policy.SendCourseMessage, policy.Resource{OwnerID: course.OwnerID, ActiveEnrollment: enrolled})
	return course, ok, nil
}

// Post handles POST /chat. Exactly one of recipient_id and course_id
// selects the conversation.
func (h *ChatHandler) Post(c echo.Context) error {
	actor := middleware.Actor(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body required"})
	}
	hasRecipient := req.RecipientID != nil && *req.RecipientID > 0
	hasCourse := req.CourseID != nil && *req.CourseID > 0
	if hasRecipient == hasCourse {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "exactly one of recipient_id or course_id required"})
	}

	ctx := c.Request().Context()
	if hasCourse {
		course, ok, err := h.courseAccess(ctx, actor, *req.CourseID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		if course == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		if !ok {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	} else {
		if _, err := h.Users.GetByID(ctx, *req.RecipientID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "recipient not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		if !policy.Allowed(actor, policy.SendDirectMessage, policy.Resource{TargetUserID: *req.RecipientID}) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}

	msg := &model.ChatMessage{SenderID: actor.UserID, RecipientID: req.RecipientID, CourseID: req.CourseID, Body: req.Body}
	if err := h.Chats.Insert(ctx, msg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "sent", "chat_message": toChatPart(msg)})
}

// Get handles GET /chat. ?course_id= returns a course room (membership
// required), ?recipient_id= a direct thread, neither lists everything
// involving the caller.
func (h *ChatHandler) Get(c echo.Context) error {
	actor := middleware.Actor(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	ctx := c.Request().Context()

	if raw := c.QueryParam("course_id"); raw != "" {
		courseID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || courseID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course_id"})
		}
		course, ok, err := h.courseAccess(ctx, actor, courseID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		if course == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		if !ok {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		msgs, err := h.Chats.ListByCourse(ctx, courseID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		return c.JSON(http.StatusOK, echo.Map{"chat_messages": toChatParts(msgs)})
	}

	if raw := c.QueryParam("recipient_id"); raw != "" {
		other, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || other == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid recipient_id"})
		}
		msgs, err := h.Chats.ListDirect(ctx, actor.UserID, other)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		return c.JSON(http.StatusOK, echo.Map{"chat_messages": toChatParts(msgs)})
	}

	msgs, err := h.Chats.ListForUser(ctx, actor.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"chat_messages": toChatParts(msgs)})
}
