package bills

import (
	"context"
	"strings"

	"github.com/famhub/famhub/internal/event_bus"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Service tracks recurring household bills. Paid bills stay in the table so
// the sheet keeps its history; the outstanding summary only counts unpaid ones.
type Service struct {
	repo Repository
	bus  *event_bus.EventBus
}

func NewService(repo Repository, bus *event_bus.EventBus) *Service {
	return &Service{repo: repo, bus: bus}
}

func (s *Service) List(ctx context.Context) ([]Bill, error) {
	return s.repo.FindAll(ctx)
}

// Outstanding sums the amounts of all unpaid bills.
func (s *Service) Outstanding(ctx context.Context) (Summary, error) {
	bills, err := s.repo.FindAll(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{}
	for _, bill := range bills {
		if !bill.Paid {
			summary.TotalOutstanding += bill.Amount
			summary.UnpaidCount++
		}
	}
	return summary, nil
}

func (s *Service) Add(ctx context.Context, bill Bill) (Bill, error) {
	var missing []string
	if strings.TrimSpace(bill.Name) == "" {
		missing = append(missing, "name")
	}
	if bill.Amount <= 0 {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return Bill{}, &ValidationError{Missing: missing}
	}

	bills, err := s.repo.FindAll(ctx)
	if err != nil {
		return Bill{}, err
	}

	bill.UID = uuid.New().String()
	bill.Paid = false
	bills = append(bills, bill)

	if err := s.repo.SaveAll(ctx, bills); err != nil {
		return Bill{}, err
	}
	s.publish(ctx, event_bus.BillAdded, bill)
	return bill, nil
}

// MarkPaid flips the bill to paid. Marking an already paid bill is a no-op
// rather than an error.
func (s *Service) MarkPaid(ctx context.Context, uid string) (Bill, error) {
	bills, err := s.repo.FindAll(ctx)
	if err != nil {
		return Bill{}, err
	}

	idx := -1
	for i, bill := range bills {
		if bill.UID == uid {
			idx = i
			break
		}
	}
	if idx < 0 {
		log.Warnf("bill %s not found", uid)
		return Bill{}, ErrNotFound
	}

	if bills[idx].Paid {
		return bills[idx], nil
	}
	bills[idx].Paid = true

	if err := s.repo.SaveAll(ctx, bills); err != nil {
		return Bill{}, err
	}
	s.publish(ctx, event_bus.BillPaid, bills[idx])
	return bills[idx], nil
}

func (s *Service) publish(ctx context.Context, eventType event_bus.EventType, bill Bill) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, bill)); err != nil {
		log.Warnf("failed to publish %s: %v", eventType, err)
	}
}
