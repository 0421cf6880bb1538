package event_bus

// Event types published by the domain services. Payloads are the domain
// structs themselves; subscribers assert the type they expect.
const (
	CalendarEntryCreated EventType = "calendar.entry.created"
	CalendarEntryUpdated EventType = "calendar.entry.updated"
	CalendarEntryDeleted EventType = "calendar.entry.deleted"

	ShoppingItemAdded  EventType = "shopping.item.added"
	ShoppingItemBought EventType = "shopping.item.bought"

	BillAdded EventType = "bill.added"
	BillPaid  EventType = "bill.paid"
)
