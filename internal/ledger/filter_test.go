package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shadowkingaftab/connect-hire/internal/model"
)

func uintPtr(v uint) *uint { return &v }

func statusPtr(s model.ApplicationStatus) *model.ApplicationStatus { return &s }

func sampleApps() []model.Application {
	return []model.Application{
		{ID: 1, Experience: 0, Status: model.StatusPending},
		{ID: 2, Experience: 3, Status: model.StatusShortlisted},
		{ID: 3, Experience: 5, Status: model.StatusRejected},
		{ID: 4, Experience: 8, Status: model.StatusShortlisted},
	}
}

func ids(apps []model.Application) []uint {
	out := make([]uint, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.ID)
	}
	return out
}

func TestEmptyFilterPassesEverything(t *testing.T) {
	apps := sampleApps()
	got := Filter{}.Apply(apps)
	assert.Equal(t, ids(apps), ids(got))
}

func TestExperienceBoundsAreInclusive(t *testing.T) {
	apps := sampleApps()

	got := Filter{MinExperience: uintPtr(3)}.Apply(apps)
	assert.Equal(t, []uint{2, 3, 4}, ids(got))

	got = Filter{MaxExperience: uintPtr(5)}.Apply(apps)
	assert.Equal(t, []uint{1, 2, 3}, ids(got))

	got = Filter{MinExperience: uintPtr(3), MaxExperience: uintPtr(5)}.Apply(apps)
	assert.Equal(t, []uint{2, 3}, ids(got))
}

func TestStatusFilterCombinesWithExperience(t *testing.T) {
	apps := sampleApps()

	got := Filter{Status: statusPtr(model.StatusShortlisted)}.Apply(apps)
	assert.Equal(t, []uint{2, 4}, ids(got))

	got = Filter{
		MinExperience: uintPtr(4),
		Status:        statusPtr(model.StatusShortlisted),
	}.Apply(apps)
	assert.Equal(t, []uint{4}, ids(got))
}

func TestFilterPreservesInputOrder(t *testing.T) {
	apps := []model.Application{
		{ID: 9, Experience: 2, Status: model.StatusPending},
		{ID: 1, Experience: 2, Status: model.StatusPending},
		{ID: 5, Experience: 2, Status: model.StatusPending},
	}
	got := Filter{MaxExperience: uintPtr(10)}.Apply(apps)
	assert.Equal(t, []uint{9, 1, 5}, ids(got))
}

func TestContradictoryBoundsYieldEmptyNotError(t *testing.T) {
	got := Filter{MinExperience: uintPtr(10), MaxExperience: uintPtr(2)}.Apply(sampleApps())
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
