package calendar

import (
	"context"
	"strings"
	"time"

	"github.com/famhub/famhub/internal/event_bus"
	"github.com/famhub/famhub/pkg/roster"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Service owns the load-mutate-persist cycle for calendar entries. It holds no
// state between calls: every operation reloads the collection from the store,
// changes it in memory, and writes the whole collection back.
type Service struct {
	repo       Repository
	roster     roster.Roster
	windowDays int
	bus        *event_bus.EventBus
}

func NewService(repo Repository, r roster.Roster, windowDays int, bus *event_bus.EventBus) *Service {
	return &Service{repo: repo, roster: r, windowDays: windowDays, bus: bus}
}

// UpcomingFilter selects entries for the "upcoming" view. ExactDate, when set,
// overrides the window entirely and restricts to that single day.
type UpcomingFilter struct {
	Reference  time.Time
	WindowDays int // 0 means the configured default
	Person     string
	ExactDate  *time.Time
}

func (s *Service) Upcoming(ctx context.Context, filter UpcomingFilter) ([]Entry, error) {
	if !s.roster.IsValidFilter(filter.Person) {
		return nil, ErrUnknownPerson
	}

	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	person := filter.Person
	if person == roster.Everyone {
		person = ""
	}

	windowDays := filter.WindowDays
	if windowDays <= 0 {
		windowDays = s.windowDays
	}
	windowStart := DateOf(filter.Reference)
	windowEnd := windowStart.AddDate(0, 0, windowDays)

	result := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if filter.ExactDate != nil {
			if !entry.Date.Equal(DateOf(*filter.ExactDate)) {
				continue
			}
		} else if entry.Date.Before(windowStart) || entry.Date.After(windowEnd) {
			continue
		}
		if person != "" && !entry.HasAttendee(person) {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

// All returns the full sorted collection, as used by the ICS export.
func (s *Service) All(ctx context.Context) ([]Entry, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) Create(ctx context.Context, entry Entry) (Entry, error) {
	if err := validate(entry); err != nil {
		return Entry{}, err
	}

	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		return Entry{}, err
	}

	entry.UID = uuid.New().String()
	entry.Date = DateOf(entry.Date)
	entries = append(entries, entry)

	if err := s.repo.SaveAll(ctx, entries); err != nil {
		return Entry{}, err
	}
	s.publish(ctx, event_bus.CalendarEntryCreated, entry)
	return entry, nil
}

// Changes is the partial field set applied by Update. Nil fields are left
// untouched; ClearStart/ClearEnd remove a time instead of changing it.
type Changes struct {
	Date        *time.Time
	Description *string
	Start       *TimeOfDay
	ClearStart  bool
	End         *TimeOfDay
	ClearEnd    bool
	Attendees   []string
}

func (c Changes) apply(e Entry) Entry {
	if c.Date != nil {
		e.Date = DateOf(*c.Date)
	}
	if c.Description != nil {
		e.Description = *c.Description
	}
	if c.ClearStart {
		e.Start = nil
	} else if c.Start != nil {
		start := *c.Start
		e.Start = &start
	}
	if c.ClearEnd {
		e.End = nil
	} else if c.End != nil {
		end := *c.End
		e.End = &end
	}
	if c.Attendees != nil {
		e.Attendees = append([]string(nil), c.Attendees...)
	}
	return e
}

func (s *Service) Update(ctx context.Context, uid string, changes Changes) (Entry, error) {
	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		return Entry{}, err
	}

	idx := indexOf(entries, uid)
	if idx < 0 {
		log.Warnf("calendar entry %s not found for update", uid)
		return Entry{}, ErrNotFound
	}

	updated := changes.apply(entries[idx])
	if err := validate(updated); err != nil {
		return Entry{}, err
	}
	entries[idx] = updated

	if err := s.repo.SaveAll(ctx, entries); err != nil {
		return Entry{}, err
	}
	s.publish(ctx, event_bus.CalendarEntryUpdated, updated)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, uid string) error {
	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(entries, uid)
	if idx < 0 {
		log.Warnf("calendar entry %s not found for delete", uid)
		return ErrNotFound
	}

	removed := entries[idx]
	entries = append(entries[:idx], entries[idx+1:]...)

	if err := s.repo.SaveAll(ctx, entries); err != nil {
		return err
	}
	s.publish(ctx, event_bus.CalendarEntryDeleted, removed)
	return nil
}

// ResolveIdentity maps the legacy (date, start, description) triple to a uid.
// Zero matches is ErrNotFound; more than one is ErrAmbiguousIdentity, never a
// silent first-match.
func (s *Service) ResolveIdentity(ctx context.Context, identity LegacyIdentity) (string, error) {
	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		return "", err
	}

	uid := ""
	for _, entry := range entries {
		if identity.matches(entry) {
			if uid != "" {
				return "", ErrAmbiguousIdentity
			}
			uid = entry.UID
		}
	}
	if uid == "" {
		return "", ErrNotFound
	}
	return uid, nil
}

func validate(e Entry) error {
	var missing []string
	if e.Date.IsZero() {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(e.Description) == "" {
		missing = append(missing, "description")
	}
	if len(e.Attendees) == 0 {
		missing = append(missing, "attendees")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

func indexOf(entries []Entry, uid string) int {
	for i, entry := range entries {
		if entry.UID == uid {
			return i
		}
	}
	return -1
}

func (s *Service) publish(ctx context.Context, eventType event_bus.EventType, entry Entry) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, entry)); err != nil {
		log.Warnf("failed to publish %s: %v", eventType, err)
	}
}
