package roster

// Everyone is the filter sentinel meaning "no person filter".
const Everyone = "Everyone"

// Roster is the fixed set of household members eligible as event attendees
// and as person filters. It comes from configuration, not from the store.
type Roster struct {
	members []string
}

func New(members []string) Roster {
	return Roster{members: append([]string(nil), members...)}
}

// Members returns the configured names in their configured order.
func (r Roster) Members() []string {
	return append([]string(nil), r.members...)
}

// Contains reports whether name is a household member.
func (r Roster) Contains(name string) bool {
	for _, member := range r.members {
		if member == name {
			return true
		}
	}
	return false
}

// IsValidFilter reports whether name can be used as a person filter: a member,
// the Everyone sentinel, or empty (also meaning no filter).
func (r Roster) IsValidFilter(name string) bool {
	return name == "" || name == Everyone || r.Contains(name)
}
