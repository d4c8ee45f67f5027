package server

import (
	"net/http"
	"strings"
	"time"
)

type statusResponse struct {
	DeviceID    string    `json:"device_id"`
	Revoked     bool      `json:"revoked"`
	Witness     *pointDTO `json:"witness,omitempty"`
	Accumulator pointDTO  `json:"accumulator"`
}

type revocationRecordDTO struct {
	DeviceID            string    `json:"device_id"`
	WitnessAtRevocation pointDTO  `json:"witness_at_revocation"`
	AccumulatorBefore   pointDTO  `json:"accumulator_before"`
	AccumulatorAfter    pointDTO  `json:"accumulator_after"`
	Timestamp           time.Time `json:"timestamp"`
}

// Device operations handler:
//   - GET    /api/v1/devices/{id} — membership status
//   - DELETE /api/v1/devices/{id} — revoke
func (s *Server) handleDeviceOperations(w http.ResponseWriter, r *http.Request) {
	rawID := strings.TrimPrefix(r.URL.Path, "/api/v1/devices/")
	if rawID == "" || strings.Contains(rawID, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleDeviceStatus(w, r, rawID)
	case http.MethodDelete:
		s.handleDeviceRevoke(w, r, rawID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleDeviceStatus(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := parseDeviceID(rawID)
	if err != nil {
		writeError(w, err)
		return
	}

	status := s.registry.Status(r.Context(), id)
	resp := statusResponse{
		DeviceID:    id.String(),
		Revoked:     status.Revoked,
		Accumulator: toPointDTO(status.Accumulator),
	}
	if status.Revoked {
		dto := toPointDTO(status.Witness)
		resp.Witness = &dto
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeviceRevoke(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := parseDeviceID(rawID)
	if err != nil {
		writeError(w, err)
		return
	}

	rec, err := s.registry.Revoke(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, revocationRecordDTO{
		DeviceID:            rec.DeviceID.String(),
		WitnessAtRevocation: toPointDTO(rec.WitnessAtRevocation),
		AccumulatorBefore:   toPointDTO(rec.AccumulatorBefore),
		AccumulatorAfter:    toPointDTO(rec.AccumulatorAfter),
		Timestamp:           rec.Timestamp,
	})
}
