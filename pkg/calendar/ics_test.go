package calendar

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteICS(t *testing.T) {
	entries := []Entry{
		{
			UID:         "uid-1",
			Date:        date("2026-02-10"),
			Description: "Dentist",
			Start:       timeOfDay("09:00"),
			End:         timeOfDay("09:45"),
			Attendees:   []string{"Emma"},
		},
		{
			UID:         "uid-2",
			Date:        date("2026-02-05"),
			Description: "Vet",
			Attendees:   []string{"Coco"},
		},
	}

	var buf bytes.Buffer
	err := WriteICS(&buf, entries, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Dentist")
	assert.Contains(t, out, "SUMMARY:Vet")
	assert.Contains(t, out, "UID:uid-1")
	assert.Contains(t, out, "ATTENDEE:Emma")
	assert.Contains(t, out, "END:VCALENDAR")
}
