package shopping

import (
	"context"
	"testing"

	"github.com/famhub/famhub/internal/event_bus"
	"github.com/famhub/famhub/pkg/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStores = []string{"Coles", "Woolworths", "PetStock", "Bunnings", "Other"}

func setupServiceTest(t *testing.T, rows []tabular.Row) (*Service, *tabular.StubStore, context.Context) {
	store := tabular.NewStubStore()
	store.Seed("Shopping", columns, rows)
	service := NewService(NewTabularRepository(store, "Shopping"), testStores, event_bus.NewEventBus())
	return service, store, context.Background()
}

func TestService_ListFiltersByStore(t *testing.T) {
	rows := []tabular.Row{
		{"UID": "a", "Item": "Dog food", "Store": "PetStock", "Status": "Pending", "Price": "45.00"},
		{"UID": "b", "Item": "Milk", "Store": "Coles", "Status": "Pending", "Price": "3.50"},
		{"UID": "c", "Item": "Bread", "Store": "Coles", "Status": "Pending", "Price": "4.00"},
	}

	testCases := []struct {
		name   string
		filter string
		want   int
	}{
		{name: "no filter returns everything", filter: "", want: 3},
		{name: "All sentinel returns everything", filter: AllStores, want: 3},
		{name: "store filter narrows the list", filter: "Coles", want: 2},
		{name: "unknown store matches nothing", filter: "IKEA", want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service, _, ctx := setupServiceTest(t, rows)

			items, err := service.List(ctx, tc.filter)
			require.NoError(t, err)
			assert.Len(t, items, tc.want)
		})
	}
}

func TestService_AddRequiresName(t *testing.T) {
	service, store, ctx := setupServiceTest(t, nil)

	_, err := service.Add(ctx, Item{Store: "Coles", Price: 2.50})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"name"}, validationErr.Missing)
	assert.Equal(t, 0, store.WriteCount())
}

func TestService_AddDefaultsStatusAndAssignsUid(t *testing.T) {
	service, _, ctx := setupServiceTest(t, nil)

	added, err := service.Add(ctx, Item{Name: "Milk", Store: "Coles", Price: 3.50})
	require.NoError(t, err)
	assert.NotEmpty(t, added.UID)
	assert.Equal(t, StatusPending, added.Status)

	items, err := service.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, 3.50, items[0].Price)
}

func TestService_LegacyRowUidStaysAddressable(t *testing.T) {
	rows := []tabular.Row{
		{"Item": "Dog food", "Store": "PetStock", "Status": "Pending", "Price": "45.00"},
	}
	service, store, ctx := setupServiceTest(t, rows)

	items, err := service.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotEmpty(t, items[0].UID)

	// The assigned uid was persisted on load, so it still resolves after the
	// reload inside MarkBought.
	assert.Equal(t, 1, store.WriteCount())
	require.NoError(t, service.MarkBought(ctx, items[0].UID))
}

func TestService_MarkBoughtRemovesItem(t *testing.T) {
	rows := []tabular.Row{
		{"UID": "a", "Item": "Dog food", "Store": "PetStock", "Status": "Pending", "Price": "45.00"},
		{"UID": "b", "Item": "Milk", "Store": "Coles", "Status": "Pending", "Price": "3.50"},
	}
	service, _, ctx := setupServiceTest(t, rows)

	require.NoError(t, service.MarkBought(ctx, "a"))

	items, err := service.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)

	assert.ErrorIs(t, service.MarkBought(ctx, "a"), ErrNotFound)
}
