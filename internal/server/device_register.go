package server

import (
	"encoding/json"
	"net/http"
	"time"
)

type registerRequest struct {
	DeviceID string `json:"device_id"`
}

type registerResponse struct {
	DeviceID     string    `json:"device_id"`
	RegisteredAt time.Time `json:"registered_at"`
	Accumulator  pointDTO  `json:"accumulator"`
}

// Device registration handler.
func (s *Server) handleDeviceRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	id, err := parseDeviceID(req.DeviceID)
	if err != nil {
		writeError(w, err)
		return
	}

	dev, err := s.registry.Register(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		DeviceID:     dev.ID.String(),
		RegisteredAt: dev.RegisteredAt,
		Accumulator:  toPointDTO(s.registry.Accumulator()),
	})
}
