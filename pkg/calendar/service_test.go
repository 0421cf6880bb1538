package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/famhub/famhub/internal/event_bus"
	"github.com/famhub/famhub/pkg/roster"
	"github.com/famhub/famhub/pkg/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRoster = roster.New([]string{"Emma", "Rohan", "Mia", "Coco"})

func setupServiceTest(t *testing.T, rows []tabular.Row) (*Service, *tabular.StubStore, context.Context) {
	store := tabular.NewStubStore()
	store.Seed("Calendar", testColumns, rows)
	repo := NewTabularRepository(store, "Calendar")
	service := NewService(repo, testRoster, 14, event_bus.NewEventBus())
	return service, store, context.Background()
}

func TestService_UpcomingWindow(t *testing.T) {
	rows := []tabular.Row{
		{"UID": "a", "Date": "2026-02-05", "Event": "Vet", "Who": "Coco"},
		{"UID": "b", "Date": "2026-02-20", "Event": "Recital", "Who": "Mia"},
		{"UID": "c", "Date": "2026-01-30", "Event": "Rates due", "Who": "Rohan"},
	}

	testCases := []struct {
		name   string
		filter UpcomingFilter
		want   []string
	}{
		{
			name:   "14 day window keeps only entries inside it",
			filter: UpcomingFilter{Reference: date("2026-02-01"), WindowDays: 14},
			want:   []string{"Vet"},
		},
		{
			name:   "window is inclusive at both ends",
			filter: UpcomingFilter{Reference: date("2026-02-05"), WindowDays: 15},
			want:   []string{"Vet", "Recital"},
		},
		{
			name:   "wider window picks up later entries",
			filter: UpcomingFilter{Reference: date("2026-02-01"), WindowDays: 28},
			want:   []string{"Vet", "Recital"},
		},
		{
			name:   "past entries never appear",
			filter: UpcomingFilter{Reference: date("2026-02-01"), WindowDays: 365},
			want:   []string{"Vet", "Recital"},
		},
		{
			name: "exact date overrides the window",
			filter: UpcomingFilter{
				Reference:  date("2026-02-01"),
				WindowDays: 365,
				ExactDate:  ptr(date("2026-02-20")),
			},
			want: []string{"Recital"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service, _, ctx := setupServiceTest(t, rows)

			entries, err := service.Upcoming(ctx, tc.filter)
			require.NoError(t, err)

			descriptions := make([]string, 0, len(entries))
			for _, entry := range entries {
				descriptions = append(descriptions, entry.Description)
			}
			assert.Equal(t, tc.want, descriptions)
		})
	}
}

func TestService_UpcomingPersonFilter(t *testing.T) {
	rows := []tabular.Row{
		{"UID": "a", "Date": "2026-02-05", "Event": "Vet", "Who": "Coco"},
		{"UID": "b", "Date": "2026-02-06", "Event": "Movie night", "Who": "Emma, Rohan"},
		{"UID": "c", "Date": "2026-02-07", "Event": "Book club", "Who": "Emma"},
	}

	service, _, ctx := setupServiceTest(t, rows)
	reference := date("2026-02-01")

	entries, err := service.Upcoming(ctx, UpcomingFilter{Reference: reference, Person: "Emma"})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = service.Upcoming(ctx, UpcomingFilter{Reference: reference, Person: roster.Everyone})
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	_, err = service.Upcoming(ctx, UpcomingFilter{Reference: reference, Person: "Em"})
	assert.ErrorIs(t, err, ErrUnknownPerson)
}

func TestService_UpcomingDefaultWindow(t *testing.T) {
	rows := []tabular.Row{
		{"UID": "a", "Date": "2026-02-10", "Event": "Inside default window", "Who": "Emma"},
		{"UID": "b", "Date": "2026-03-10", "Event": "Outside default window", "Who": "Emma"},
	}
	service, _, ctx := setupServiceTest(t, rows)

	entries, err := service.Upcoming(ctx, UpcomingFilter{Reference: date("2026-02-01")})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Inside default window", entries[0].Description)
}

func TestService_UpcomingWindowInNonUTCZone(t *testing.T) {
	rows := []tabular.Row{
		{"UID": "a", "Date": "2026-02-15", "Event": "Recital", "Who": "Mia"},
		{"UID": "b", "Date": "2026-01-31", "Event": "Rates due", "Who": "Rohan"},
	}
	service, _, ctx := setupServiceTest(t, rows)

	testCases := []struct {
		name string
		zone *time.Location
	}{
		{name: "east of UTC keeps the last window day", zone: time.FixedZone("AEST", 10*60*60)},
		{name: "west of UTC excludes the day before", zone: time.FixedZone("HST", -10*60*60)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reference := time.Date(2026, 2, 1, 0, 0, 0, 0, tc.zone)

			entries, err := service.Upcoming(ctx, UpcomingFilter{Reference: reference, WindowDays: 14})
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "Recital", entries[0].Description)
		})
	}
}

func TestService_LegacyRowUidStaysAddressable(t *testing.T) {
	rows := []tabular.Row{
		{"Date": "2026-02-05", "Event": "Vet", "Who": "Coco"},
	}
	service, _, ctx := setupServiceTest(t, rows)

	uid, err := service.ResolveIdentity(ctx, LegacyIdentity{Date: date("2026-02-05"), Description: "Vet"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, uid))

	entries, err := service.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestService_CreateValidation(t *testing.T) {
	testCases := []struct {
		name    string
		entry   Entry
		missing []string
	}{
		{
			name:    "empty description",
			entry:   Entry{Date: date("2026-03-01"), Attendees: []string{"Rohan"}},
			missing: []string{"description"},
		},
		{
			name:    "no attendees",
			entry:   Entry{Date: date("2026-03-01"), Description: "Picnic"},
			missing: []string{"attendees"},
		},
		{
			name:    "no date",
			entry:   Entry{Description: "Picnic", Attendees: []string{"Rohan"}},
			missing: []string{"date"},
		},
		{
			name:    "everything missing",
			entry:   Entry{Description: "   "},
			missing: []string{"date", "description", "attendees"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service, store, ctx := setupServiceTest(t, nil)

			_, err := service.Create(ctx, tc.entry)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.missing, validationErr.Missing)
			assert.Equal(t, 0, store.WriteCount(), "failed validation must not touch the store")
		})
	}
}

func TestService_CreatePersistsAndAssignsUid(t *testing.T) {
	service, store, ctx := setupServiceTest(t, nil)

	created, err := service.Create(ctx, Entry{
		Date:        date("2026-03-01"),
		Description: "Picnic",
		Start:       timeOfDay("11:00"),
		Attendees:   []string{"Emma", "Rohan"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.UID)
	assert.Equal(t, 1, store.WriteCount())

	entries, err := service.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, created.UID, entries[0].UID)
}

func TestService_UpdateChangesFieldsAndResorts(t *testing.T) {
	rows := []tabular.Row{
		{"UID": "a", "Date": "2026-02-05", "Event": "Vet", "Start Time": "10:00", "Who": "Coco"},
		{"UID": "b", "Date": "2026-02-10", "Event": "Dentist", "Start Time": "09:00", "Who": "Emma"},
	}
	service, _, ctx := setupServiceTest(t, rows)

	newDate := date("2026-02-12")
	updated, err := service.Update(ctx, "a", Changes{
		Date:       &newDate,
		ClearStart: true,
	})
	require.NoError(t, err)
	assert.Equal(t, newDate, updated.Date)
	assert.Nil(t, updated.Start)
	assert.Equal(t, "Vet", updated.Description)

	entries, err := service.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Dentist", entries[0].Description)
	assert.Equal(t, "Vet", entries[1].Description)
}

func TestService_UpdateValidatesResult(t *testing.T) {
	rows := []tabular.Row{
		{"UID": "a", "Date": "2026-02-05", "Event": "Vet", "Who": "Coco"},
	}
	service, store, ctx := setupServiceTest(t, rows)

	empty := ""
	_, err := service.Update(ctx, "a", Changes{Description: &empty})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 0, store.WriteCount())
}

func TestService_UpdateNotFound(t *testing.T) {
	service, _, ctx := setupServiceTest(t, nil)

	_, err := service.Update(ctx, "missing", Changes{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_DeleteRemovesEntry(t *testing.T) {
	rows := []tabular.Row{
		{"UID": "a", "Date": "2026-02-05", "Event": "Vet", "Who": "Coco"},
		{"UID": "b", "Date": "2026-02-10", "Event": "Dentist", "Start Time": "09:00", "Who": "Emma"},
	}
	service, _, ctx := setupServiceTest(t, rows)

	require.NoError(t, service.Delete(ctx, "a"))

	entries, err := service.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Dentist", entries[0].Description)

	_, err = service.ResolveIdentity(ctx, LegacyIdentity{Date: date("2026-02-05"), Description: "Vet"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, service.Delete(ctx, "a"), ErrNotFound)
}

func TestService_ResolveIdentity(t *testing.T) {
	rows := []tabular.Row{
		{"UID": "a", "Date": "2026-02-05", "Event": "Vet", "Who": "Coco"},
		{"UID": "b", "Date": "2026-02-05", "Event": "Vet", "Start Time": "14:00", "Who": "Coco"},
		{"UID": "c", "Date": "2026-02-05", "Event": "Walk", "Start Time": "14:00", "Who": "Coco"},
	}
	service, _, ctx := setupServiceTest(t, rows)

	uid, err := service.ResolveIdentity(ctx, LegacyIdentity{Date: date("2026-02-05"), Description: "Vet"})
	require.NoError(t, err)
	assert.Equal(t, "a", uid)

	uid, err = service.ResolveIdentity(ctx, LegacyIdentity{
		Date:        date("2026-02-05"),
		Start:       timeOfDay("14:00"),
		Description: "Vet",
	})
	require.NoError(t, err)
	assert.Equal(t, "b", uid)
}

func TestService_ResolveIdentityAmbiguous(t *testing.T) {
	rows := []tabular.Row{
		{"UID": "a", "Date": "2026-02-05", "Event": "Vet", "Start Time": "14:00", "Who": "Coco"},
		{"UID": "b", "Date": "2026-02-05", "Event": "Vet", "Start Time": "14:00", "Who": "Emma"},
	}
	service, _, ctx := setupServiceTest(t, rows)

	_, err := service.ResolveIdentity(ctx, LegacyIdentity{
		Date:        date("2026-02-05"),
		Start:       timeOfDay("14:00"),
		Description: "Vet",
	})
	assert.ErrorIs(t, err, ErrAmbiguousIdentity)
}

func TestService_PublishesMutationEvents(t *testing.T) {
	store := tabular.NewStubStore()
	store.Seed("Calendar", testColumns, nil)
	bus := event_bus.NewEventBus()
	service := NewService(NewTabularRepository(store, "Calendar"), testRoster, 14, bus)

	var published []event_bus.EventType
	for _, eventType := range []event_bus.EventType{
		event_bus.CalendarEntryCreated,
		event_bus.CalendarEntryUpdated,
		event_bus.CalendarEntryDeleted,
	} {
		eventType := eventType
		bus.Subscribe(eventType, func(e event_bus.Event) error {
			published = append(published, e.Type)
			return nil
		})
	}

	ctx := context.Background()
	created, err := service.Create(ctx, Entry{
		Date:        date("2026-03-01"),
		Description: "Picnic",
		Attendees:   []string{"Emma"},
	})
	require.NoError(t, err)

	newDescription := "Beach picnic"
	_, err = service.Update(ctx, created.UID, Changes{Description: &newDescription})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.UID))

	assert.Equal(t, []event_bus.EventType{
		event_bus.CalendarEntryCreated,
		event_bus.CalendarEntryUpdated,
		event_bus.CalendarEntryDeleted,
	}, published)
}

func ptr(t time.Time) *time.Time {
	return &t
}
