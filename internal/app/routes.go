package app

import (
	"github.com/famhub/famhub/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Calendar
	r.HandleFunc("/api/calendar/entry", deps.CalendarHandler.GetUpcoming).Methods("GET")
	r.HandleFunc("/api/calendar/entry", deps.CalendarHandler.CreateEntry).Methods("POST")
	r.HandleFunc("/api/calendar/entry/lookup", deps.CalendarHandler.LookupEntry).Methods("GET")
	r.HandleFunc("/api/calendar/entry/{entryUid}", deps.CalendarHandler.UpdateEntry).Methods("PUT")
	r.HandleFunc("/api/calendar/entry/{entryUid}", deps.CalendarHandler.DeleteEntry).Methods("DELETE")
	r.HandleFunc("/api/calendar/export.ics", deps.CalendarHandler.ExportICS).Methods("GET")

	// Household roster
	r.HandleFunc("/api/household/member", deps.RosterHandler.GetMembers).Methods("GET")

	// Shopping list
	r.HandleFunc("/api/shopping/item", deps.ShoppingHandler.GetItems).Methods("GET")
	r.HandleFunc("/api/shopping/item", deps.ShoppingHandler.AddItem).Methods("POST")
	r.HandleFunc("/api/shopping/item/{itemUid}", deps.ShoppingHandler.MarkBought).Methods("DELETE")
	r.HandleFunc("/api/shopping/store", deps.ShoppingHandler.GetStores).Methods("GET")

	// Bills
	r.HandleFunc("/api/bill", deps.BillsHandler.GetBills).Methods("GET")
	r.HandleFunc("/api/bill", deps.BillsHandler.AddBill).Methods("POST")
	r.HandleFunc("/api/bill/summary", deps.BillsHandler.GetSummary).Methods("GET")
	r.HandleFunc("/api/bill/{billUid}/paid", deps.BillsHandler.MarkPaid).Methods("PATCH")
}
