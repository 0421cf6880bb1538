package roster

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	roster Roster
}

func NewHandler(roster Roster) *Handler {
	return &Handler{roster: roster}
}

// GetMembers returns the household roster, with the Everyone sentinel the
// frontend uses as its default filter option.
func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	response := struct {
		Members  []string `json:"members"`
		Everyone string   `json:"everyone"`
	}{
		Members:  h.roster.Members(),
		Everyone: Everyone,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
