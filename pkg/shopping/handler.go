package shopping

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/famhub/famhub/internal/rest"
	"github.com/famhub/famhub/pkg/tabular"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

type ItemDTO struct {
	UID    string  `json:"uid,omitempty"`
	Name   string  `json:"name"`
	Store  string  `json:"store"`
	Status string  `json:"status,omitempty"`
	Price  float64 `json:"price"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetItems(w http.ResponseWriter, r *http.Request) {
	storeFilter := r.URL.Query().Get("store")

	items, err := h.service.List(r.Context(), storeFilter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, itemToDTO(item))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding shopping item")
	var dto ItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	added, err := h.service.Add(r.Context(), Item{
		Name:   dto.Name,
		Store:  dto.Store,
		Status: dto.Status,
		Price:  dto.Price,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(itemToDTO(added)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) MarkBought(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["itemUid"]

	if err := h.service.MarkBought(r.Context(), uid); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetStores(w http.ResponseWriter, r *http.Request) {
	response := struct {
		Stores []string `json:"stores"`
	}{Stores: h.service.Stores()}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
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
		rest.WriteError(w, http.StatusNotFound, "Shopping item not found", "")
	case tabular.IsTableNotFound(err):
		rest.WriteError(w, http.StatusInternalServerError, "Required table missing", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func itemToDTO(item Item) ItemDTO {
	return ItemDTO{
		UID:    item.UID,
		Name:   item.Name,
		Store:  item.Store,
		Status: item.Status,
		Price:  item.Price,
	}
}
