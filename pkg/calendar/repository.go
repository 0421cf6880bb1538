package calendar

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/famhub/famhub/pkg/tabular"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Column contract of the calendar table. UID is ours: the legacy sheet had no
// identity column, so rows are addressed by a surrogate id that is assigned on
// first load and carried in the store from then on.
const (
	colUid   = "UID"
	colDate  = "Date"
	colEvent = "Event"
	colStart = "Start Time"
	colEnd   = "End Time"
	colWho   = "Who"
)

var columns = []string{colUid, colDate, colEvent, colStart, colEnd, colWho}

// Columns returns the header contract of the calendar table.
func Columns() []string {
	return append([]string(nil), columns...)
}

type Repository interface {
	// FindAll returns every entry sorted ascending by (date, start time),
	// entries without a start time first within a day.
	FindAll(ctx context.Context) ([]Entry, error)
	// SaveAll replaces the whole table with the given entries.
	SaveAll(ctx context.Context, entries []Entry) error
}

// TabularRepository maps calendar entries onto the spreadsheet-style store.
type TabularRepository struct {
	store tabular.Store
	table string
}

func NewTabularRepository(store tabular.Store, table string) *TabularRepository {
	return &TabularRepository{store: store, table: table}
}

func (r *TabularRepository) FindAll(ctx context.Context) ([]Entry, error) {
	rows, err := r.store.Read(ctx, r.table)
	if err != nil {
		return nil, fmt.Errorf("could not load calendar entries: %w", err)
	}

	assignedUid := false
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		if row[colUid] == "" {
			assignedUid = true
		}
		entry, err := rowToEntry(row)
		if err != nil {
			log.Warnf("skipping malformed calendar row %v: %v", row, err)
			continue
		}
		entries = append(entries, entry)
	}

	// Uids handed out to clients must stay addressable: if any legacy row was
	// assigned one, write the collection back before returning it.
	if assignedUid {
		if err := r.SaveAll(ctx, entries); err != nil {
			return nil, err
		}
	}

	sortEntries(entries)
	return entries, nil
}

func (r *TabularRepository) SaveAll(ctx context.Context, entries []Entry) error {
	sorted := append([]Entry(nil), entries...)
	sortEntries(sorted)

	rows := make([]tabular.Row, 0, len(sorted))
	for _, entry := range sorted {
		rows = append(rows, entryToRow(entry))
	}

	if err := r.store.Write(ctx, r.table, columns, rows); err != nil {
		return fmt.Errorf("could not save calendar entries: %w", err)
	}
	return nil
}

func rowToEntry(row tabular.Row) (Entry, error) {
	date, err := ParseDate(row[colDate])
	if err != nil {
		return Entry{}, err
	}

	uid := row[colUid]
	if uid == "" {
		// Legacy row written before surrogate ids existed.
		uid = uuid.New().String()
		log.Debugf("assigned uid %s to legacy calendar row %q", uid, row[colEvent])
	}

	start := parseOptionalTime(row[colStart])
	end := parseOptionalTime(row[colEnd])

	return Entry{
		UID:         uid,
		Date:        DateOf(date),
		Description: row[colEvent],
		Start:       start,
		End:         end,
		Attendees:   splitAttendees(row[colWho]),
	}, nil
}

func entryToRow(e Entry) tabular.Row {
	row := tabular.Row{
		colUid:   e.UID,
		colDate:  FormatDate(e.Date),
		colEvent: e.Description,
		colStart: "",
		colEnd:   "",
		colWho:   strings.Join(e.Attendees, ", "),
	}
	if e.Start != nil {
		row[colStart] = e.Start.String()
	}
	if e.End != nil {
		row[colEnd] = e.End.String()
	}
	return row
}

// parseOptionalTime treats empty and unparseable cells as absent.
func parseOptionalTime(s string) *TimeOfDay {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := ParseTimeOfDay(strings.TrimSpace(s))
	if err != nil {
		log.Warnf("ignoring unparseable time cell %q", s)
		return nil
	}
	return &t
}

func splitAttendees(s string) []string {
	parts := strings.Split(s, ",")
	attendees := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			attendees = append(attendees, name)
		}
	}
	return attendees
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].startMinutes() < entries[j].startMinutes()
	})
}
