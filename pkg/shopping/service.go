package shopping

import (
	"context"
	"strings"

	"github.com/famhub/famhub/internal/event_bus"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Service drives the shopping list: list with an optional store filter, add,
// and "mark as bought" which simply removes the row, the way the family has
// always used it.
type Service struct {
	repo   Repository
	stores []string
	bus    *event_bus.EventBus
}

func NewService(repo Repository, stores []string, bus *event_bus.EventBus) *Service {
	return &Service{repo: repo, stores: stores, bus: bus}
}

// Stores returns the fixed store choices offered by the add form.
func (s *Service) Stores() []string {
	return append([]string(nil), s.stores...)
}

func (s *Service) List(ctx context.Context, storeFilter string) ([]Item, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if storeFilter == "" || storeFilter == AllStores {
		return items, nil
	}

	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Store == storeFilter {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (s *Service) Add(ctx context.Context, item Item) (Item, error) {
	var missing []string
	if strings.TrimSpace(item.Name) == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return Item{}, &ValidationError{Missing: missing}
	}

	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return Item{}, err
	}

	item.UID = uuid.New().String()
	if item.Status == "" {
		item.Status = StatusPending
	}
	items = append(items, item)

	if err := s.repo.SaveAll(ctx, items); err != nil {
		return Item{}, err
	}
	s.publish(ctx, event_bus.ShoppingItemAdded, item)
	return item, nil
}

// MarkBought removes the item from the list.
func (s *Service) MarkBought(ctx context.Context, uid string) error {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i, item := range items {
		if item.UID == uid {
			idx = i
			break
		}
	}
	if idx < 0 {
		log.Warnf("shopping item %s not found", uid)
		return ErrNotFound
	}

	bought := items[idx]
	items = append(items[:idx], items[idx+1:]...)

	if err := s.repo.SaveAll(ctx, items); err != nil {
		return err
	}
	s.publish(ctx, event_bus.ShoppingItemBought, bought)
	return nil
}

func (s *Service) publish(ctx context.Context, eventType event_bus.EventType, item Item) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, item)); err != nil {
		log.Warnf("failed to publish %s: %v", eventType, err)
	}
}
