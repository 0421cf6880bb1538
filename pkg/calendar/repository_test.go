package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/famhub/famhub/pkg/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testColumns = []string{"UID", "Date", "Event", "Start Time", "End Time", "Who"}

func setupTestRepository(t *testing.T, rows []tabular.Row) (*TabularRepository, *tabular.StubStore) {
	store := tabular.NewStubStore()
	store.Seed("Calendar", testColumns, rows)
	return NewTabularRepository(store, "Calendar"), store
}

func timeOfDay(s string) *TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return &t
}

func date(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTabularRepository_FindAllSortsByDateThenStart(t *testing.T) {
	repo, _ := setupTestRepository(t, []tabular.Row{
		{"UID": "a", "Date": "2026-02-10", "Event": "Dentist", "Start Time": "09:00", "End Time": "", "Who": "Emma"},
		{"UID": "b", "Date": "2026-02-05", "Event": "Vet", "Start Time": "", "End Time": "", "Who": "Coco"},
	})

	entries, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Vet", entries[0].Description)
	assert.Nil(t, entries[0].Start)
	assert.Equal(t, "Dentist", entries[1].Description)
	assert.Equal(t, timeOfDay("09:00"), entries[1].Start)
}

func TestTabularRepository_UntimedEntrySortsFirstWithinDay(t *testing.T) {
	repo, _ := setupTestRepository(t, []tabular.Row{
		{"UID": "a", "Date": "2026-02-10", "Event": "Swimming", "Start Time": "07:30", "End Time": "08:30", "Who": "Mia"},
		{"UID": "b", "Date": "2026-02-10", "Event": "Bin day", "Start Time": "", "End Time": "", "Who": "Rohan"},
		{"UID": "c", "Date": "2026-02-10", "Event": "Dinner", "Start Time": "18:00", "End Time": "", "Who": "Emma, Rohan"},
	})

	entries, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, []string{"Bin day", "Swimming", "Dinner"},
		[]string{entries[0].Description, entries[1].Description, entries[2].Description})
}

func TestTabularRepository_RoundTrip(t *testing.T) {
	repo, _ := setupTestRepository(t, nil)
	ctx := context.Background()

	original := []Entry{
		{
			UID:         "uid-1",
			Date:        date("2026-03-02"),
			Description: "School assembly",
			Start:       timeOfDay("09:15"),
			End:         timeOfDay("10:00"),
			Attendees:   []string{"Emma", "Mia"},
		},
		{
			UID:         "uid-2",
			Date:        date("2026-03-01"),
			Description: "Garden day",
			Attendees:   []string{"Rohan"},
		},
	}

	require.NoError(t, repo.SaveAll(ctx, original))

	loaded, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// SaveAll persists in sorted order, so Garden day comes back first.
	assert.Equal(t, "Garden day", loaded[0].Description)
	assert.Nil(t, loaded[0].Start)
	assert.Equal(t, []string{"Rohan"}, loaded[0].Attendees)

	assert.Equal(t, "School assembly", loaded[1].Description)
	assert.Equal(t, timeOfDay("09:15"), loaded[1].Start)
	assert.Equal(t, timeOfDay("10:00"), loaded[1].End)
	assert.Equal(t, []string{"Emma", "Mia"}, loaded[1].Attendees)
}

func TestTabularRepository_AssignsUidToLegacyRows(t *testing.T) {
	repo, store := setupTestRepository(t, []tabular.Row{
		{"Date": "2026-02-05", "Event": "Vet", "Start Time": "", "End Time": "", "Who": "Coco"},
	})
	ctx := context.Background()

	entries, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].UID)

	// The assigned uid is written back immediately, so a reload returns the
	// same id instead of minting a fresh one.
	assert.Equal(t, 1, store.WriteCount())

	reloaded, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	assert.Equal(t, entries[0].UID, reloaded[0].UID)
	assert.Equal(t, 1, store.WriteCount())
}

func TestTabularRepository_SkipsMalformedRows(t *testing.T) {
	repo, _ := setupTestRepository(t, []tabular.Row{
		{"UID": "a", "Date": "not-a-date", "Event": "Broken", "Who": "Emma"},
		{"UID": "b", "Date": "2026-02-05", "Event": "Vet", "Who": "Coco"},
	})

	entries, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Vet", entries[0].Description)
}

func TestTabularRepository_MissingTable(t *testing.T) {
	store := tabular.NewStubStore()
	repo := NewTabularRepository(store, "Calendar")

	_, err := repo.FindAll(context.Background())
	require.Error(t, err)
	assert.True(t, tabular.IsTableNotFound(err))
}
