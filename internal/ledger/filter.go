package ledger

import "github.com/shadowkingaftab/connect-hire/internal/model"

// Filter narrows an already-loaded application list by experience range and
// status. It is a pure, single-pass transformation: dashboards re-run it over
// the full result set whenever the user changes a knob.
type Filter struct {
	MinExperience *uint
	MaxExperience *uint
	Status        *model.ApplicationStatus
}

// Matches reports whether app passes the filter
func (f Filter) Matches(app model.Application) bool {
	if f.MinExperience != nil && app.Experience < *f.MinExperience {
		return false
	}
	if f.MaxExperience != nil && app.Experience > *f.MaxExperience {
		return false
	}
	if f.Status != nil && app.Status != *f.Status {
		return false
	}
	return true
}

// Apply returns the applications that pass the filter, preserving order
func (f Filter) Apply(apps []model.Application) []model.Application {
	out := make([]model.Application, 0, len(apps))
	for _, app := range apps {
		if f.Matches(app) {
			out = append(out, app)
		}
	}
	return out
}
