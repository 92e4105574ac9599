package analytics

import (
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/gradevault-backend/pkg/errors"
)

const (
	day            = 24 * time.Hour
	defaultPreset  = "30d"
	maxExplicitDay = 366
	dateOnlyLayout = "2006-01-02"
)

var presetWindows = map[string]time.Duration{
	"7d":  7 * day,
	"30d": 30 * day,
	"90d": 90 * day,
}

var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

// reportWindow resolves either an explicit from/to pair or a trailing preset
// ending at now. Explicit bounds accept RFC3339 or a bare date; a bare `to`
// date covers that whole day.
func reportWindow(query url.Values, now time.Time) (time.Time, time.Time, error) {
	from := strings.TrimSpace(query.Get("from"))
	to := strings.TrimSpace(query.Get("to"))
	if from == "" && to == "" {
		return presetWindow(query.Get("preset"), now)
	}
	if from == "" || to == "" {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "from and to must be provided together")
	}

	start, _, err := parseBound(from)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "from must be RFC3339 or YYYY-MM-DD")
	}
	end, dateOnly, err := parseBound(to)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "to must be RFC3339 or YYYY-MM-DD")
	}
	if dateOnly {
		end = end.Add(day)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "to must be after from")
	}
	if end.Sub(start) > maxExplicitDay*day {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "analytics window cannot exceed 366 days")
	}
	return start, end, nil
}

func presetWindow(raw string, now time.Time) (time.Time, time.Time, error) {
	preset := strings.ToLower(strings.TrimSpace(raw))
	if preset == "" {
		preset = defaultPreset
	}
	span, ok := presetWindows[preset]
	if !ok {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "preset must be one of 7d, 30d, 90d").
			WithDetails(map[string]any{"preset": raw})
	}
	return now.Add(-span), now, nil
}

func parseBound(raw string) (time.Time, bool, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), false, nil
	}
	ts, err := time.Parse(dateOnlyLayout, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return ts.UTC(), true, nil
}
