package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"order-analytics/internal/analytics"
	"order-analytics/internal/domain"
)

var errInvalidTimestamp = errors.New("invalid timestamp")

const dateLayout = "2006-01-02"

type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// OrdersQuery is the query string shared by the order listing and the filtered metrics. An
// explicit start/end pair wins over a named preset.
type OrdersQuery struct {
	analytics.FilterState
	Start  string `form:"start"`
	End    string `form:"end"`
	Preset string `form:"preset"`
}

// Window resolves the optional date window relative to now.
func (q OrdersQuery) Window(now time.Time) (*analytics.DateWindow, error) {
	start, end := strings.TrimSpace(q.Start), strings.TrimSpace(q.End)

	if start == "" && end == "" {
		if q.Preset == "" {
			return nil, nil
		}
		w, err := analytics.ResolvePreset(analytics.Preset(q.Preset), now)
		if err != nil {
			return nil, err
		}
		return &w, nil
	}

	if start == "" || end == "" {
		return nil, fmt.Errorf("%w: start and end must be given together", errInvalidTimestamp)
	}

	s, err := parseTimestamp(start)
	if err != nil {
		return nil, err
	}
	e, err := parseTimestamp(end)
	if err != nil {
		return nil, err
	}

	w := analytics.DateWindow{Start: s, End: e}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// parseTimestamp accepts RFC 3339 or a bare UTC date.
func parseTimestamp(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", errInvalidTimestamp, v)
}
