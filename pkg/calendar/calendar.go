package calendar

import (
	"fmt"
	"time"
)

const (
	dateLayout        = "2006-01-02"
	displayDateLayout = "02/01/06"
	timeLayout        = "15:04"
)

var (
	ErrNotFound          = fmt.Errorf("calendar entry not found")
	ErrAmbiguousIdentity = fmt.Errorf("identity matches more than one calendar entry")
	ErrUnknownPerson     = fmt.Errorf("person is not a household member")
)

// ValidationError reports required fields missing from a candidate entry.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	msg := "missing required field(s):"
	for i, field := range e.Missing {
		if i > 0 {
			msg += ","
		}
		msg += " " + field
	}
	return msg
}

// TimeOfDay is a 24-hour wall-clock time without a date. Entries carry it
// behind a pointer: nil means "all day" for a start and "open-ended" for an
// end, which replaces the legacy "00:00" sort sentinel with explicit absence.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// At anchors the time of day on the given calendar date.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

// Entry is one scheduled household event.
type Entry struct {
	UID         string
	Date        time.Time // wall-clock date, time of day always zero
	Description string
	Start       *TimeOfDay
	End         *TimeOfDay
	Attendees   []string // insertion order kept, membership is what matters
}

// HasAttendee reports exact roster-name membership. The legacy UI matched by
// substring against the joined attendee text, which false-positives on names
// contained in other names; exact membership is the deliberate fix.
func (e Entry) HasAttendee(name string) bool {
	for _, attendee := range e.Attendees {
		if attendee == name {
			return true
		}
	}
	return false
}

// startMinutes is the sort tie-break within a day. Entries without a start
// time sort before any timed entry.
func (e Entry) startMinutes() int {
	if e.Start == nil {
		return -1
	}
	return e.Start.Minutes()
}

// LegacyIdentity is the (date, start, description) triple the legacy UI used
// to address an entry. It only resolves when exactly one entry matches.
type LegacyIdentity struct {
	Date        time.Time
	Start       *TimeOfDay
	Description string
}

func (id LegacyIdentity) matches(e Entry) bool {
	if !DateOf(e.Date).Equal(DateOf(id.Date)) || e.Description != id.Description {
		return false
	}
	if (e.Start == nil) != (id.Start == nil) {
		return false
	}
	return e.Start == nil || *e.Start == *id.Start
}

// DateOf strips the time of day and re-anchors the calendar date in UTC.
// Stored dates parse as UTC while reference dates come from the server's local
// clock; anchoring both sides in one location keeps date comparisons from
// shifting by a day across zones.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatDisplayDate renders a date the way the family sees it: DD/MM/YY.
func FormatDisplayDate(t time.Time) string {
	return t.Format(displayDateLayout)
}
