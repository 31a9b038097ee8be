package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/m04kA/SMC-AssistanceService/pkg/types"
)

// Weekday is a day token of a weekly schedule
type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

// Weekdays in canonical order
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday accepts a day token case-insensitively
func ParseWeekday(s string) (Weekday, error) {
	d := Weekday(strings.ToLower(strings.TrimSpace(s)))
	if d.index() < 0 {
		return "", NewValidationError("selectedDays", fmt.Sprintf("unknown weekday %q", s))
	}
	return d, nil
}

func (d Weekday) index() int {
	for i, w := range Weekdays {
		if w == d {
			return i
		}
	}
	return -1
}

// IsValid returns true if d is one of the seven day tokens
func (d Weekday) IsValid() bool {
	return d.index() >= 0
}

// NormalizeDays validates, dedupes and sorts days in canonical order.
// An empty set is rejected.
func NormalizeDays(days []Weekday) ([]Weekday, error) {
	if len(days) == 0 {
		return nil, NewValidationError("selectedDays", "at least one day is required")
	}

	seen := make(map[Weekday]struct{}, len(days))
	out := make([]Weekday, 0, len(days))
	for _, d := range days {
		if !d.IsValid() {
			return nil, NewValidationError("selectedDays", fmt.Sprintf("unknown weekday %q", d))
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].index() < out[j].index() })
	return out, nil
}

// ParseDays parses a list of raw day tokens into a normalized set
func ParseDays(raw []string) ([]Weekday, error) {
	days := make([]Weekday, 0, len(raw))
	for _, s := range raw {
		d, err := ParseWeekday(s)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return NormalizeDays(days)
}

// TimeRangePreset selects how the daily window is defined
type TimeRangePreset string

const (
	PresetEarly  TimeRangePreset = "early"
	PresetMiddle TimeRangePreset = "middle"
	PresetLate   TimeRangePreset = "late"
	PresetCustom TimeRangePreset = "custom"
)

// presetWindows are the fixed windows behind the named presets
var presetWindows = map[TimeRangePreset]Window{
	PresetEarly:  {Start: "09:00", End: "12:00"},
	PresetMiddle: {Start: "12:00", End: "17:00"},
	PresetLate:   {Start: "17:00", End: "22:00"},
}

// IsValid returns true for a known preset
func (p TimeRangePreset) IsValid() bool {
	if p == PresetCustom {
		return true
	}
	_, ok := presetWindows[p]
	return ok
}

// Window is a half-open daily interval [Start, End)
type Window struct {
	Start types.TimeString
	End   types.TimeString
}

func (w Window) String() string {
	return fmt.Sprintf("%s-%s", w.Start, w.End)
}

// Validate checks both bounds are HH:MM and Start < End
func (w Window) Validate() error {
	start, err := w.Start.Minutes()
	if err != nil {
		return NewValidationError("startTime", fmt.Sprintf("invalid time %q", w.Start))
	}
	end, err := w.End.Minutes()
	if err != nil {
		return NewValidationError("endTime", fmt.Sprintf("invalid time %q", w.End))
	}
	if start >= end {
		return NewValidationError("endTime", fmt.Sprintf("start %s must be before end %s", w.Start, w.End))
	}
	return nil
}

// Overlaps reports whether two windows share any instant.
// Adjacent windows (one ends exactly when the other starts) do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start.IsBefore(other.End) && other.Start.IsBefore(w.End)
}

// TimeRange is a preset tag with a payload that is only present for PresetCustom
type TimeRange struct {
	Preset TimeRangePreset
	Custom *Window
}

// Resolve returns the concrete window for the preset
func (r TimeRange) Resolve() (Window, error) {
	if r.Preset == PresetCustom {
		if r.Custom == nil {
			return Window{}, NewValidationError("timeRange", "custom preset requires start and end")
		}
		if err := r.Custom.Validate(); err != nil {
			return Window{}, err
		}
		return *r.Custom, nil
	}

	w, ok := presetWindows[r.Preset]
	if !ok {
		return Window{}, NewValidationError("timeRangePreset", fmt.Sprintf("unknown preset %q", r.Preset))
	}
	if r.Custom != nil {
		return Window{}, NewValidationError("timeRange", fmt.Sprintf("start and end are only allowed with %q preset", PresetCustom))
	}
	return w, nil
}

// Schedule is the weekly request of a booking: a set of days and one daily window
type Schedule struct {
	Days      []Weekday
	TimeRange TimeRange
}

// Normalize validates the schedule and returns it with canonical day order and its resolved window
func (s Schedule) Normalize() (Schedule, Window, error) {
	days, err := NormalizeDays(s.Days)
	if err != nil {
		return Schedule{}, Window{}, err
	}
	w, err := s.TimeRange.Resolve()
	if err != nil {
		return Schedule{}, Window{}, err
	}

	out := Schedule{Days: days, TimeRange: TimeRange{Preset: s.TimeRange.Preset}}
	if s.TimeRange.Custom != nil {
		c := *s.TimeRange.Custom
		out.TimeRange.Custom = &c
	}
	return out, w, nil
}

// HasDay reports whether d is among the selected days
func (s Schedule) HasDay(d Weekday) bool {
	for _, day := range s.Days {
		if day == d {
			return true
		}
	}
	return false
}

// Clone returns a deep copy
func (s Schedule) Clone() Schedule {
	out := Schedule{
		Days:      append([]Weekday(nil), s.Days...),
		TimeRange: TimeRange{Preset: s.TimeRange.Preset},
	}
	if s.TimeRange.Custom != nil {
		c := *s.TimeRange.Custom
		out.TimeRange.Custom = &c
	}
	return out
}

// DayStrings returns the days as plain strings (storage form)
func DayStrings(days []Weekday) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = string(d)
	}
	return out
}
