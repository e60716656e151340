package analytics

import "time"

type Preset string

const (
	PresetLast7Days  Preset = "last7days"
	PresetLast30Days Preset = "last30days"
	PresetLastMonth  Preset = "lastmonth"
	PresetThisMonth  Preset = "thismonth"
	PresetThisYear   Preset = "thisyear"
	PresetLastYear   Preset = "lastyear"
)

var presetLabels = map[Preset]string{
	PresetLast7Days:  "Last 7 Days",
	PresetLast30Days: "Last 30 Days",
	PresetLastMonth:  "Last Month",
	PresetThisMonth:  "This Month",
	PresetThisYear:   "This Year",
	PresetLastYear:   "Last Year",
}

// Label is the human readable name, "Custom Range" for anything unknown.
func (p Preset) Label() string {
	if l, ok := presetLabels[p]; ok {
		return l
	}
	return "Custom Range"
}

// DefaultWindow is the window the dashboard opens with: the last 30 days up to now.
func DefaultWindow(now time.Time) DateWindow {
	return DateWindow{Start: now.Add(-30 * day), End: now}
}

// ResolvePreset turns a named preset into an explicit window in now's location. Month and year
// boundaries end on the last nanosecond of the period.
func ResolvePreset(p Preset, now time.Time) (DateWindow, error) {
	loc := now.Location()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)

	var w DateWindow
	switch p {
	case PresetLast7Days:
		w = DateWindow{Start: now.Add(-7 * day), End: now}
	case PresetLast30Days:
		w = DateWindow{Start: now.Add(-30 * day), End: now}
	case PresetLastMonth:
		w = DateWindow{Start: startOfMonth.AddDate(0, -1, 0), End: startOfMonth.Add(-time.Nanosecond)}
	case PresetThisMonth:
		w = DateWindow{Start: startOfMonth, End: now}
	case PresetThisYear:
		w = DateWindow{Start: startOfYear, End: now}
	case PresetLastYear:
		w = DateWindow{Start: startOfYear.AddDate(-1, 0, 0), End: startOfYear.Add(-time.Nanosecond)}
	default:
		return DateWindow{}, &FilterError{Field: "preset", Value: string(p)}
	}
	w.Preset = p
	return w, nil
}
