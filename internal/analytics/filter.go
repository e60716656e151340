package analytics

import (
	"errors"
	"fmt"
	"time"

	"order-analytics/internal/domain"
)

// All is the no-op value for the region and status filters.
const All = "all"

type DateRange string

const (
	DateRangeAll    DateRange = "all"
	DateRange7Days  DateRange = "7days"
	DateRange30Days DateRange = "30days"
)

func (r DateRange) days() int {
	switch r {
	case DateRange7Days:
		return 7
	case DateRange30Days:
		return 30
	}
	return 0
}

// ErrMalformedFilter is wrapped by every FilterError.
var ErrMalformedFilter = errors.New("malformed filter")

// FilterError names the filter field carrying an unrecognised value.
type FilterError struct {
	Field string
	Value string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("%s: unknown %s %q", ErrMalformedFilter, e.Field, e.Value)
}

func (e *FilterError) Unwrap() error {
	return ErrMalformedFilter
}

// FilterState is the set of narrowing criteria selected on the dashboard. Empty fields behave
// like "all".
type FilterState struct {
	Region    string    `json:"region" form:"region"`
	Status    string    `json:"status" form:"status"`
	DateRange DateRange `json:"dateRange" form:"dateRange"`
}

// DefaultFilters matches every order.
func DefaultFilters() FilterState {
	return FilterState{Region: All, Status: All, DateRange: DateRangeAll}
}

func (f FilterState) normalized() FilterState {
	if f.Region == "" {
		f.Region = All
	}
	if f.Status == "" {
		f.Status = All
	}
	if f.DateRange == "" {
		f.DateRange = DateRangeAll
	}
	return f
}

// Validate rejects enum values that would otherwise silently match nothing.
func (f FilterState) Validate() error {
	f = f.normalized()
	if f.Region != All && !domain.Region(f.Region).Valid() {
		return &FilterError{Field: "region", Value: f.Region}
	}
	if f.Status != All && !domain.OrderStatus(f.Status).Valid() {
		return &FilterError{Field: "status", Value: f.Status}
	}
	switch f.DateRange {
	case DateRangeAll, DateRange7Days, DateRange30Days:
	default:
		return &FilterError{Field: "dateRange", Value: string(f.DateRange)}
	}
	return nil
}

// DateWindow is an explicit date-picker range applied on top of FilterState.DateRange. Preset is
// set when the window was resolved from a named preset.
type DateWindow struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Preset Preset    `json:"preset,omitempty"`
}

func (w DateWindow) Validate() error {
	if w.End.Before(w.Start) {
		return &FilterError{Field: "dateWindow", Value: w.Start.Format(time.RFC3339) + ".." + w.End.Format(time.RFC3339)}
	}
	return nil
}

// Contains allows one day of slack on both sides of the window.
func (w DateWindow) Contains(t time.Time) bool {
	return t.After(w.Start.Add(-day)) && t.Before(w.End.Add(day))
}

type predicate func(domain.Order) bool

// ApplyFilters returns the orders passing every active predicate. Predicates are independent, so
// their evaluation order does not affect the result.
func ApplyFilters(orders []domain.Order, filters FilterState, window *DateWindow, now time.Time) ([]domain.Order, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	if window != nil {
		if err := window.Validate(); err != nil {
			return nil, err
		}
	}

	preds := buildPredicates(filters.normalized(), window, now)

	out := make([]domain.Order, 0, len(orders))
	for i := range orders {
		if matchesAll(orders[i], preds) {
			out = append(out, orders[i].Clone())
		}
	}
	return out, nil
}

func buildPredicates(f FilterState, window *DateWindow, now time.Time) []predicate {
	var preds []predicate

	if f.Region != All {
		region := domain.Region(f.Region)
		preds = append(preds, func(o domain.Order) bool { return o.Region == region })
	}
	if f.Status != All {
		status := domain.OrderStatus(f.Status)
		preds = append(preds, func(o domain.Order) bool { return o.Status == status })
	}
	if days := f.DateRange.days(); days > 0 {
		cutoff := now.Add(-time.Duration(days) * day)
		preds = append(preds, func(o domain.Order) bool { return !o.DateTime.Before(cutoff) })
	}
	if window != nil {
		w := *window
		preds = append(preds, func(o domain.Order) bool { return w.Contains(o.DateTime) })
	}

	return preds
}

func matchesAll(o domain.Order, preds []predicate) bool {
	for _, p := range preds {
		if !p(o) {
			return false
		}
	}
	return true
}
