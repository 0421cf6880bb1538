package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
)

// WriteICS renders the entry collection as an iCalendar document so the
// family calendar can be subscribed to from phone calendar apps. Entries
// without a start time become events starting at midnight; entries without an
// end time get no DTEND, leaving the duration open.
func WriteICS(w io.Writer, entries []Entry, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//famhub//EN")

	for _, entry := range entries {
		cal.Children = append(cal.Children, entryToVEvent(entry, now))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func entryToVEvent(e Entry, now time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, e.UID)
	ve.Props.SetText(ical.PropSummary, e.Description)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())

	start := e.Date
	if e.Start != nil {
		start = e.Start.At(e.Date)
	}
	ve.Props.SetDateTime(ical.PropDateTimeStart, start)
	if e.End != nil {
		ve.Props.SetDateTime(ical.PropDateTimeEnd, e.End.At(e.Date))
	}

	for _, attendee := range e.Attendees {
		p := ical.NewProp(ical.PropAttendee)
		p.SetText(attendee)
		ve.Props.Add(p)
	}
	return ve
}
