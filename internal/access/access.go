// Package access decides whether an actor may perform an action on a job,
// application, or user record. Decisions are pure functions over already
// loaded entities; a denial is a false return, never an error. The caller
// translates false into an access-denied response.
package access

import (
	"time"

	"github.com/google/uuid"

	"jobkhoj-backend/internal/model"
)

// Actor is the authenticated entity initiating an action. A nil *Actor
// means an unauthenticated request.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// ActorFor builds an Actor from a loaded user record.
func ActorFor(u model.User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// Action is the closed set of operations the engine rules over.
type Action string

// Actions on jobs, applications, and users.
const (
	ActionCreateJob       Action = "job:create"
	ActionViewJob         Action = "job:view"
	ActionUpdateJob       Action = "job:update"
	ActionDeleteJob       Action = "job:delete"
	ActionChangeJobStatus Action = "job:status"

	ActionCreateApplication       Action = "application:create"
	ActionViewApplication         Action = "application:view"
	ActionUpdateApplicationStatus Action = "application:status"
	ActionAddApplicationNote      Action = "application:note"

	ActionViewUser   Action = "user:view"
	ActionUpdateUser Action = "user:update"
	ActionDeleteUser Action = "user:delete"
)

// Resource carries the entities an action targets. Application actions need
// both the application and its referenced job, because the two ownership
// relations live on different records.
type Resource struct {
	Job         *model.Job
	Application *model.Application
	User        *model.User
}

// CanPerform reports whether actor may perform action on the given
// resource. Rules are evaluated in precedence order; the admin rule wins
// before anything else is looked at. Unknown actions are denied.
func CanPerform(actor *Actor, action Action, res Resource) bool {
	if actor != nil && actor.Role == model.RoleAdmin {
		return true
	}

	switch action {
	case ActionCreateJob:
		return actor != nil && actor.Role == model.RoleEmployer

	case ActionViewJob:
		if res.Job == nil {
			return false
		}
		if res.Job.Status == model.JobStatusActive && !res.Job.Expired(time.Now()) {
			return true
		}
		return actor != nil && OwnsJob(*res.Job, actor.ID)

	case ActionUpdateJob, ActionDeleteJob, ActionChangeJobStatus:
		if actor == nil || res.Job == nil {
			return false
		}
		return OwnsJob(*res.Job, actor.ID)

	case ActionCreateApplication:
		// The duplicate-application precondition is checked separately by
		// the lifecycle guard; role is the only rule here.
		return actor != nil && actor.Role == model.RoleJobseeker

	case ActionViewApplication:
		if actor == nil || res.Application == nil || res.Job == nil {
			return false
		}
		return IsApplicant(*res.Application, actor.ID) ||
			IsJobOwner(*res.Application, *res.Job, actor.ID)

	case ActionUpdateApplicationStatus, ActionAddApplicationNote:
		// Never the applicant, even on their own application.
		if actor == nil || res.Application == nil || res.Job == nil {
			return false
		}
		return IsJobOwner(*res.Application, *res.Job, actor.ID)

	case ActionViewUser:
		// Everyone may view; non-privileged actors get the restricted
		// projection instead of a denial. See CanViewFullProfile.
		return res.User != nil

	case ActionUpdateUser:
		if actor == nil || res.User == nil {
			return false
		}
		return actor.ID == res.User.ID

	case ActionDeleteUser:
		// Admin only, already handled by the admin short-circuit.
		return false
	}

	return false
}

// CanViewFullProfile reports whether actor sees the complete user record.
// Callers that get false should serve user.Restricted() rather than deny.
func CanViewFullProfile(actor *Actor, user model.User) bool {
	if actor == nil {
		return false
	}
	return actor.Role == model.RoleAdmin || actor.ID == user.ID
}

// CanChangeRole reports whether actor may change the role field on target.
// Non-admin users cannot promote themselves, so this is admin-only.
func CanChangeRole(actor *Actor) bool {
	return actor != nil && actor.Role == model.RoleAdmin
}
