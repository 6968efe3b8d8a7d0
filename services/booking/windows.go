package booking

import (
	"sort"
	"time"

	"gymflow/models"
)

const dateLayout = "2006-01-02"

// window is a continuous stretch of bookable staff time in UTC, carrying
// the buffer requirements of the rule it came from.
type window struct {
	start        time.Time
	end          time.Time
	bufferBefore int // minutes
	bufferAfter  int // minutes
}

// resolveDayWindows computes the effective working windows for one staff
// member on one local date. Precedence: holidays and full-day overrides
// zero the day; a partial override adjusts only the boundary it specifies;
// otherwise the weekday's enabled rules apply as-is.
func resolveDayWindows(date string, staffID string, rules []models.AvailabilityRule, overrides []models.AvailabilityOverride, holidays []models.Holiday) ([]window, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, NewInvalidInput("invalid date %q", date)
	}

	for _, h := range holidays {
		if h.CoversDate(staffID, date) {
			return nil, nil
		}
	}

	var override *models.AvailabilityOverride
	for i := range overrides {
		if overrides[i].Date == date {
			override = &overrides[i]
			break
		}
	}
	if override != nil && !override.Available && override.StartMinute == nil && override.EndMinute == nil {
		// Full-day block.
		return nil, nil
	}

	var dayRules []models.AvailabilityRule
	for _, r := range rules {
		if r.Enabled && r.DayOfWeek == int(day.Weekday()) {
			dayRules = append(dayRules, r)
		}
	}

	if override != nil && override.Available {
		return overrideWindow(day, dayRules, override), nil
	}

	var windows []window
	for _, r := range dayRules {
		w := absoluteWindow(day, r.Timezone, r.StartMinute, r.EndMinute, r.BufferBefore, r.BufferAfter)
		if w != nil {
			windows = append(windows, *w)
		}
	}

	if override != nil && !override.Available {
		// Timed block: carve the override interval out of the rule windows.
		tz := "UTC"
		if len(dayRules) > 0 {
			tz = dayRules[0].Timezone
		}
		start, end := overrideBounds(override, 0, 24*60)
		if blocked := absoluteWindow(day, tz, start, end, 0, 0); blocked != nil {
			windows = subtractInterval(windows, blocked.start, blocked.end)
		}
	}

	return windows, nil
}

// overrideWindow builds the working windows for a date with an opening
// override. Each rule keeps its own window; an override bound moves only
// the matching edge of the first or last surviving window, and windows
// entirely outside the bounds drop. Mid-day gaps between split shifts are
// preserved. With no rules for that weekday, an override must specify both
// bounds to open the day.
func overrideWindow(day time.Time, dayRules []models.AvailabilityRule, override *models.AvailabilityOverride) []window {
	if len(dayRules) == 0 {
		if override.StartMinute == nil || override.EndMinute == nil {
			return nil
		}
		w := absoluteWindow(day, "UTC", *override.StartMinute, *override.EndMinute, 0, 0)
		if w == nil {
			return nil
		}
		return []window{*w}
	}

	kept := append([]models.AvailabilityRule(nil), dayRules...)
	sort.Slice(kept, func(i, j int) bool { return kept[i].StartMinute < kept[j].StartMinute })

	if override.StartMinute != nil {
		s := *override.StartMinute
		for len(kept) > 0 && kept[0].EndMinute <= s {
			kept = kept[1:]
		}
		if len(kept) == 0 {
			return nil
		}
		if kept[0].StartMinute < s {
			kept[0].StartMinute = s
		}
	}
	if override.EndMinute != nil {
		e := *override.EndMinute
		for len(kept) > 0 && kept[len(kept)-1].StartMinute >= e {
			kept = kept[:len(kept)-1]
		}
		if len(kept) == 0 {
			return nil
		}
		if last := len(kept) - 1; kept[last].EndMinute > e {
			kept[last].EndMinute = e
		}
	}

	var windows []window
	for _, r := range kept {
		w := absoluteWindow(day, r.Timezone, r.StartMinute, r.EndMinute, r.BufferBefore, r.BufferAfter)
		if w != nil {
			windows = append(windows, *w)
		}
	}
	return windows
}

func overrideBounds(override *models.AvailabilityOverride, fallbackStart, fallbackEnd int) (int, int) {
	start, end := fallbackStart, fallbackEnd
	if override.StartMinute != nil {
		start = *override.StartMinute
	}
	if override.EndMinute != nil {
		end = *override.EndMinute
	}
	return start, end
}

// absoluteWindow converts minute offsets on a local date into a UTC window.
func absoluteWindow(day time.Time, tz string, startMinute, endMinute, bufferBefore, bufferAfter int) *window {
	if endMinute <= startMinute {
		return nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return &window{
		start:        midnight.Add(time.Duration(startMinute) * time.Minute).UTC(),
		end:          midnight.Add(time.Duration(endMinute) * time.Minute).UTC(),
		bufferBefore: bufferBefore,
		bufferAfter:  bufferAfter,
	}
}

// subtractInterval carves one blocking interval out of a set of windows,
// splitting windows where the block lands in the middle.
func subtractInterval(windows []window, blockStart, blockEnd time.Time) []window {
	var updated []window
	for _, w := range windows {
		if !blockEnd.After(w.start) || !blockStart.Before(w.end) {
			updated = append(updated, w)
			continue
		}
		if blockStart.After(w.start) {
			updated = append(updated, window{start: w.start, end: blockStart, bufferBefore: w.bufferBefore, bufferAfter: w.bufferAfter})
		}
		if blockEnd.Before(w.end) {
			updated = append(updated, window{start: blockEnd, end: w.end, bufferBefore: w.bufferBefore, bufferAfter: w.bufferAfter})
		}
	}
	return updated
}

// subtractBusy removes every busy interval from the windows.
func subtractBusy(windows []window, busy []models.BusyInterval) []window {
	for _, b := range busy {
		windows = subtractInterval(windows, b.Start, b.End)
	}
	return windows
}

// contains reports whether [start, end] with the window's buffers applied
// fits entirely inside the window.
func (w window) contains(start, end time.Time, bufferBefore, bufferAfter int) bool {
	paddedStart := start.Add(-time.Duration(bufferBefore) * time.Minute)
	paddedEnd := end.Add(time.Duration(bufferAfter) * time.Minute)
	return !paddedStart.Before(w.start) && !paddedEnd.After(w.end)
}
