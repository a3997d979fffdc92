// Package policy holds the role-based access rules as one pure decision
// function. Handlers gather the facts (who owns the course, whether the
// actor is actively enrolled) and ask for a verdict; the package touches
// neither HTTP nor the database, which keeps the permission matrix
// auditable and testable on its own.
package policy

import (
	"github.com/iliyamo/learning-platform/internal/auth"
	"github.com/iliyamo/learning-platform/internal/model"
)

// Action enumerates every guarded operation.
type Action int

const (
	CreateCourse Action = iota
	UpdateCourse
	DeleteCourse
	CreateLesson
	EnrollInCourse
	WriteProgress
	ReadProgress
	SendCourseMessage
	SendDirectMessage
)

// Resource carries the facts about the target that a decision depends on.
// Fields irrelevant to a given action are ignored.
type Resource struct {
	// OwnerID is the owning teacher of the course in scope.
	OwnerID uint64
	// TargetUserID is the user whose data is being read (progress lookups).
	TargetUserID uint64
	// ActiveEnrollment reports whether the actor holds an active enrollment
	// in the course in scope.
	ActiveEnrollment bool
}

// Allowed decides whether actor may perform action on the described
// resource. A nil actor (unauthenticated request) is denied every action
// listed here; public reads never reach the policy.
func Allowed(actor *auth.Context, action Action, res Resource) bool {
	if actor == nil {
		return false
	}
	admin := actor.Role == model.RoleAdmin
	teacher := actor.Role == model.RoleTeacher
	student := actor.Role == model.RoleStudent
	owns := teacher && res.OwnerID == actor.UserID

	switch action {
	case CreateCourse:
		return admin || teacher
	case UpdateCourse, DeleteCourse, CreateLesson:
		return admin || owns
	case EnrollInCourse:
		// Enrolling is the student's move; admins and teachers manage
		// courses, they do not consume them.
		return student
	case WriteProgress:
		return student && res.ActiveEnrollment
	case ReadProgress:
		if admin || teacher {
			return true
		}
		return student && res.TargetUserID == actor.UserID
	case SendCourseMessage:
		return admin || owns || (student && res.ActiveEnrollment)
	case SendDirectMessage:
		return true
	}
	return false
}
