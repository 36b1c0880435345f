package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/shadowkingaftab/connect-hire/internal/model"
)

func seeker() model.User {
	return model.User{ID: uuid.New(), Role: model.RoleJobSeeker}
}

func employer() model.User {
	return model.User{ID: uuid.New(), Role: model.RoleEmployer}
}

func TestCatalogReadIsOpenToEveryone(t *testing.T) {
	assert.True(t, CanAccess(seeker(), OpCatalogRead, nil))
	assert.True(t, CanAccess(employer(), OpCatalogRead, nil))
	assert.True(t, CanAccess(model.User{}, OpCatalogRead, nil))
}

func TestJobCreateRequiresEmployerRole(t *testing.T) {
	assert.True(t, CanAccess(employer(), OpJobCreate, model.Job{}))
	assert.False(t, CanAccess(seeker(), OpJobCreate, model.Job{}))
	assert.False(t, CanAccess(model.User{}, OpJobCreate, model.Job{}))
}

func TestJobMutationRequiresOwnership(t *testing.T) {
	owner := employer()
	other := employer()
	job := model.Job{EmployerID: owner.ID}

	assert.True(t, CanAccess(owner, OpJobUpdate, job))
	assert.True(t, CanAccess(owner, OpJobDelete, job))

	// Another employer holding the right role is still not the owner
	assert.False(t, CanAccess(other, OpJobUpdate, job))
	assert.False(t, CanAccess(other, OpJobDelete, job))
}

func TestApplicationCreateRequiresSeekerRole(t *testing.T) {
	job := model.Job{EmployerID: uuid.New()}

	assert.True(t, CanAccess(seeker(), OpApplicationCreate, job))
	assert.False(t, CanAccess(employer(), OpApplicationCreate, job))
}

func TestApplicationReadIsApplicantOrJobOwner(t *testing.T) {
	applicant := seeker()
	owner := employer()
	app := model.Application{
		SeekerID: applicant.ID,
		Job:      model.Job{EmployerID: owner.ID},
	}

	assert.True(t, CanAccess(applicant, OpApplicationRead, app))
	assert.True(t, CanAccess(owner, OpApplicationRead, app))

	assert.False(t, CanAccess(seeker(), OpApplicationRead, app))
	assert.False(t, CanAccess(employer(), OpApplicationRead, app))
}

func TestStatusWriteIsOwnerOnly(t *testing.T) {
	applicant := seeker()
	owner := employer()
	app := model.Application{
		SeekerID: applicant.ID,
		Job:      model.Job{EmployerID: owner.ID},
	}

	assert.True(t, CanAccess(owner, OpApplicationSetStatus, app))

	// The applicant can read their own row but never write its status
	assert.False(t, CanAccess(applicant, OpApplicationSetStatus, app))
	assert.False(t, CanAccess(employer(), OpApplicationSetStatus, app))
}

func TestRoleWriteOnlyForSelfAndOnlyWhileUnset(t *testing.T) {
	actor := model.User{ID: uuid.New()}

	assert.True(t, CanAccess(actor, OpRoleWrite, model.User{ID: actor.ID}))

	withRole := model.User{ID: actor.ID, Role: model.RoleJobSeeker}
	assert.False(t, CanAccess(actor, OpRoleWrite, withRole))

	someoneElse := model.User{ID: uuid.New()}
	assert.False(t, CanAccess(actor, OpRoleWrite, someoneElse))
}

func TestWrongRowTypeDenies(t *testing.T) {
	assert.False(t, CanAccess(employer(), OpJobUpdate, "not a job"))
	assert.False(t, CanAccess(seeker(), OpApplicationRead, model.Job{}))
	assert.False(t, CanAccess(seeker(), Operation(99), model.Job{}))
}
