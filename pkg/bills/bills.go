package bills

import (
	"fmt"
	"time"
)

var ErrNotFound = fmt.Errorf("bill not found")

// Bill is one tracked household bill. DueDate is optional; the legacy sheet
// often left it blank.
type Bill struct {
	UID     string
	Name    string
	Amount  float64
	DueDate *time.Time
	Paid    bool
}

// Summary is the headline figure shown at the top of the bills page.
type Summary struct {
	TotalOutstanding float64
	UnpaidCount      int
}

// ValidationError reports required fields missing from a candidate bill.
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
