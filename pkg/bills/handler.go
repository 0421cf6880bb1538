package bills

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/famhub/famhub/internal/rest"
	"github.com/famhub/famhub/pkg/tabular"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

type BillDTO struct {
	UID     string  `json:"uid,omitempty"`
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	DueDate string  `json:"dueDate,omitempty"`
	Paid    bool    `json:"paid"`
}

type SummaryDTO struct {
	TotalOutstanding float64 `json:"totalOutstanding"`
	UnpaidCount      int     `json:"unpaidCount"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]BillDTO, 0, len(bills))
	for _, bill := range bills {
		dtos = append(dtos, billToDTO(bill))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Outstanding(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SummaryDTO(summary)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) AddBill(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding bill")
	var dto BillDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dueDate *time.Time
	if dto.DueDate != "" {
		parsed, err := time.Parse(dateLayout, dto.DueDate)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid due date", "expected YYYY-MM-DD")
			return
		}
		dueDate = &parsed
	}

	added, err := h.service.Add(r.Context(), Bill{
		Name:    dto.Name,
		Amount:  dto.Amount,
		DueDate: dueDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(billToDTO(added)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["billUid"]

	paid, err := h.service.MarkPaid(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(billToDTO(paid)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		rest.WriteError(w, http.StatusBadRequest, "Validation failed", validationErr.Error())
	case errors.Is(err, ErrNotFound):
		rest.WriteError(w, http.StatusNotFound, "Bill not found", "")
	case tabular.IsTableNotFound(err):
		rest.WriteError(w, http.StatusInternalServerError, "Required table missing", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func billToDTO(bill Bill) BillDTO {
	dto := BillDTO{
		UID:    bill.UID,
		Name:   bill.Name,
		Amount: bill.Amount,
		Paid:   bill.Paid,
	}
	if bill.DueDate != nil {
		dto.DueDate = bill.DueDate.Format(dateLayout)
	}
	return dto
}
