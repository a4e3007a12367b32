package bookability

import (
	"time"

	"github.com/meridianpsych/clinic-api/internal/model"
)

// The windowing predicates below treat every boundary as inclusive: a
// contract effective on D covers service date D, and one expiring on D
// still covers D. All comparisons are on calendar dates, never clock
// times.

// ContractCoversDate reports whether a contract makes its provider
// directly billable for a service on the given date. Status must be
// in_network, the date must fall inside the effective window, and the
// bookable_from date (when set) must have arrived. A contract that is
// effective but not yet bookable covers nothing.
func ContractCoversDate(c *model.Contract, d time.Time) bool {
	if c.Status != model.ContractStatusInNetwork {
		return false
	}
	d = dateOnly(d)
	if dateOnly(c.EffectiveDate).After(d) {
		return false
	}
	if c.ExpirationDate != nil && dateOnly(*c.ExpirationDate).Before(d) {
		return false
	}
	if c.BookableFromDate != nil && dateOnly(*c.BookableFromDate).After(d) {
		return false
	}
	return true
}

// SupervisionActiveOn reports whether a supervision relationship is in
// force on the given date. The is_active flag is an administrative kill
// switch checked alongside the date window.
func SupervisionActiveOn(s *model.Supervision, d time.Time) bool {
	if !s.IsActive {
		return false
	}
	d = dateOnly(d)
	if dateOnly(s.StartDate).After(d) {
		return false
	}
	if s.EndDate != nil && dateOnly(*s.EndDate).Before(d) {
		return false
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
