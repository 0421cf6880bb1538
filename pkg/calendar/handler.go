package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/famhub/famhub/internal/rest"
	"github.com/famhub/famhub/internal/utils"
	"github.com/famhub/famhub/pkg/tabular"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
	clock   utils.Clock
}

func NewHandler(service *Service, clock utils.Clock) *Handler {
	return &Handler{service: service, clock: clock}
}

// EntryDTO is the wire shape of a calendar entry. Dates travel as ISO
// YYYY-MM-DD; displayDate carries the DD/MM/YY rendering the frontend shows.
// An absent start or end time is the empty string, never "00:00".
type EntryDTO struct {
	UID         string   `json:"uid,omitempty"`
	Date        string   `json:"date"`
	DisplayDate string   `json:"displayDate,omitempty"`
	Description string   `json:"description"`
	StartTime   string   `json:"startTime,omitempty"`
	EndTime     string   `json:"endTime,omitempty"`
	Attendees   []string `json:"attendees"`
}

func (h *Handler) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := UpcomingFilter{
		Reference: utils.Today(h.clock),
		Person:    query.Get("person"),
	}

	if daysString := query.Get("days"); daysString != "" {
		days, err := strconv.Atoi(daysString)
		if err != nil || days < 0 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid days parameter", "'days' must be a non-negative whole number")
			return
		}
		filter.WindowDays = days
	}

	if dateString := query.Get("date"); dateString != "" {
		exact, err := ParseDate(dateString)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "'date' must be in YYYY-MM-DD format")
			return
		}
		filter.ExactDate = &exact
	}

	entries, err := h.service.Upcoming(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, entryToDTO(entry))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating calendar entry")
	var dto EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := dtoToEntry(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid entry", err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), entry)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(entryToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["entryUid"]

	var dto EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	changes, err := dtoToChanges(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid entry", err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), uid, changes)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(entryToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["entryUid"]

	if err := h.service.Delete(r.Context(), uid); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LookupEntry resolves the legacy (date, start time, description) triple to a
// uid for clients that only know the display label of an entry.
func (h *Handler) LookupEntry(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	date, err := ParseDate(query.Get("date"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "'date' must be in YYYY-MM-DD format")
		return
	}

	identity := LegacyIdentity{
		Date:        date,
		Description: query.Get("description"),
	}
	if startString := query.Get("start"); startString != "" {
		start, err := ParseTimeOfDay(startString)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid start time format", "'start' must be in HH:MM format")
			return
		}
		identity.Start = &start
	}

	uid, err := h.service.ResolveIdentity(r.Context(), identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(struct {
		UID string `json:"uid"`
	}{UID: uid}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.All(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="family-calendar.ics"`)
	if err := WriteICS(w, entries, h.clock.Now()); err != nil {
		log.Errorf("failed to write ICS export: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		rest.WriteError(w, http.StatusBadRequest, "Validation failed", validationErr.Error())
	case errors.Is(err, ErrUnknownPerson):
		rest.WriteError(w, http.StatusBadRequest, "Unknown person filter", "person must be a household member or Everyone")
	case errors.Is(err, ErrNotFound):
		rest.WriteError(w, http.StatusNotFound, "Calendar entry not found", "")
	case errors.Is(err, ErrAmbiguousIdentity):
		rest.WriteError(w, http.StatusConflict, "Ambiguous identity", "more than one entry matches; address entries by uid instead")
	case tabular.IsTableNotFound(err):
		rest.WriteError(w, http.StatusInternalServerError, "Required table missing", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func entryToDTO(e Entry) EntryDTO {
	dto := EntryDTO{
		UID:         e.UID,
		Date:        FormatDate(e.Date),
		DisplayDate: FormatDisplayDate(e.Date),
		Description: e.Description,
		Attendees:   e.Attendees,
	}
	if e.Start != nil {
		dto.StartTime = e.Start.String()
	}
	if e.End != nil {
		dto.EndTime = e.End.String()
	}
	return dto
}

func dtoToEntry(dto EntryDTO) (Entry, error) {
	entry := Entry{
		UID:         dto.UID,
		Description: dto.Description,
		Attendees:   dto.Attendees,
	}

	if dto.Date != "" {
		date, err := ParseDate(dto.Date)
		if err != nil {
			return Entry{}, err
		}
		entry.Date = DateOf(date)
	}
	if dto.StartTime != "" {
		start, err := ParseTimeOfDay(dto.StartTime)
		if err != nil {
			return Entry{}, err
		}
		entry.Start = &start
	}
	if dto.EndTime != "" {
		end, err := ParseTimeOfDay(dto.EndTime)
		if err != nil {
			return Entry{}, err
		}
		entry.End = &end
	}
	return entry, nil
}

// dtoToChanges treats the PUT body as the full desired state of the entry:
// every field is overwritten, empty times clear the stored ones. The date is
// required, otherwise an absent field would mean "clear" for times but "keep"
// for the date.
func dtoToChanges(dto EntryDTO) (Changes, error) {
	if dto.Date == "" {
		return Changes{}, fmt.Errorf("date is required")
	}

	entry, err := dtoToEntry(dto)
	if err != nil {
		return Changes{}, err
	}

	date := entry.Date
	return Changes{
		Date:        &date,
		Description: &entry.Description,
		Attendees:   entry.Attendees,
		ClearStart:  entry.Start == nil,
		Start:       entry.Start,
		ClearEnd:    entry.End == nil,
		End:         entry.End,
	}, nil
}
