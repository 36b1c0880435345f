// Package authz decides, per operation and per row, whether the requesting
// identity may perform it. The predicate is a pure function of
// (actor, operation, row); actors are threaded in explicitly and never read
// from ambient request state.
package authz

import (
	"github.com/shadowkingaftab/connect-hire/internal/model"
)

// Operation identifies an action gated by the predicate
type Operation int

const (
	// OpCatalogRead covers domains, companies and active job listings
	OpCatalogRead Operation = iota
	// OpJobCreate covers posting a new job
	OpJobCreate
	// OpJobUpdate covers editing or (de)activating an existing job
	OpJobUpdate
	// OpJobDelete covers removing a job post
	OpJobDelete
	// OpApplicationCreate covers submitting an application
	OpApplicationCreate
	// OpApplicationRead covers reading an application row
	OpApplicationRead
	// OpApplicationSetStatus covers overwriting an application's status
	OpApplicationSetStatus
	// OpRoleWrite covers assigning a role to a user
	OpRoleWrite
)

// CanAccess reports whether actor may perform op on row. Rows are passed
// pre-loaded; the predicate itself never touches the database.
//
// Row types per operation: OpJobCreate/OpJobUpdate/OpJobDelete take model.Job;
// OpApplicationCreate takes model.Job (the target job with owner resolved),
// OpApplicationRead and OpApplicationSetStatus take model.Application with
// Job preloaded; OpRoleWrite takes model.User (the row being written).
func CanAccess(actor model.User, op Operation, row interface{}) bool {
	switch op {
	case OpCatalogRead:
		return true

	case OpJobCreate:
		return actor.Role == model.RoleEmployer

	case OpJobUpdate, OpJobDelete:
		job, ok := row.(model.Job)
		return ok && job.EmployerID == actor.ID

	case OpApplicationCreate:
		_, ok := row.(model.Job)
		return ok && actor.Role == model.RoleJobSeeker

	case OpApplicationRead:
		app, ok := row.(model.Application)
		if !ok {
			return false
		}
		return app.SeekerID == actor.ID || app.Job.EmployerID == actor.ID

	case OpApplicationSetStatus:
		app, ok := row.(model.Application)
		return ok && app.Job.EmployerID == actor.ID

	case OpRoleWrite:
		target, ok := row.(model.User)
		// only for yourself, only while unset
		return ok && target.ID == actor.ID && target.Role == ""
	}
	return false
}
