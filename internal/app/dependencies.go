package app

import (
	"github.com/famhub/famhub/internal/config"
	"github.com/famhub/famhub/internal/event_bus"
	"github.com/famhub/famhub/internal/utils"
	"github.com/famhub/famhub/pkg/bills"
	"github.com/famhub/famhub/pkg/calendar"
	"github.com/famhub/famhub/pkg/roster"
	"github.com/famhub/famhub/pkg/shopping"
	"github.com/famhub/famhub/pkg/tabular"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	Roster        roster.Roster
	RosterHandler *roster.Handler

	CalendarRepo    calendar.Repository
	CalendarService *calendar.Service
	CalendarHandler *calendar.Handler

	ShoppingRepo    shopping.Repository
	ShoppingService *shopping.Service
	ShoppingHandler *shopping.Handler

	BillsRepo    bills.Repository
	BillsService *bills.Service
	BillsHandler *bills.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(store tabular.Store, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.Roster = roster.New(cfg.Household.Members)
	deps.RosterHandler = roster.NewHandler(deps.Roster)

	deps.CalendarRepo = calendar.NewTabularRepository(store, cfg.Calendar.Table)
	deps.CalendarService = calendar.NewService(deps.CalendarRepo, deps.Roster, cfg.Calendar.WindowDays, deps.Bus)
	deps.CalendarHandler = calendar.NewHandler(deps.CalendarService, deps.Clock)

	deps.ShoppingRepo = shopping.NewTabularRepository(store, cfg.Shopping.Table)
	deps.ShoppingService = shopping.NewService(deps.ShoppingRepo, cfg.Shopping.Stores, deps.Bus)
	deps.ShoppingHandler = shopping.NewHandler(deps.ShoppingService)

	deps.BillsRepo = bills.NewTabularRepository(store, cfg.Bills.Table)
	deps.BillsService = bills.NewService(deps.BillsRepo, deps.Bus)
	deps.BillsHandler = bills.NewHandler(deps.BillsService)

	subscribeAuditLog(deps.Bus)

	return deps
}

// subscribeAuditLog records every mutation on the info log so the family can
// see who changed what from the server output.
func subscribeAuditLog(bus *event_bus.EventBus) {
	for _, eventType := range []event_bus.EventType{
		event_bus.CalendarEntryCreated,
		event_bus.CalendarEntryUpdated,
		event_bus.CalendarEntryDeleted,
		event_bus.ShoppingItemAdded,
		event_bus.ShoppingItemBought,
		event_bus.BillAdded,
		event_bus.BillPaid,
	} {
		bus.Subscribe(eventType, func(event event_bus.Event) error {
			log.WithField("event", string(event.Type)).Infof("audit: %+v", event.Data)
			return nil
		})
	}
}
