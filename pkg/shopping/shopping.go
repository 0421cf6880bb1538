package shopping

import "fmt"

var ErrNotFound = fmt.Errorf("shopping item not found")

// StatusPending is the status every freshly added item starts with.
const StatusPending = "Pending"

// AllStores is the store-filter sentinel meaning "no filter".
const AllStores = "All"

// Item is one line of the shopping list.
type Item struct {
	UID    string
	Name   string
	Store  string
	Status string
	Price  float64
}

// ValidationError reports required fields missing from a candidate item.
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
