package server

import (
	"encoding/base64"
	"net/http"
	"time"
)

type announcementDTO struct {
	Epoch     uint64    `json:"epoch"`
	Timestamp time.Time `json:"timestamp"`
	Payload   string    `json:"payload"`   // base64 canonical payload
	Signature string    `json:"signature"` // base64 DER signature
}

type accumulatorResponse struct {
	Accumulator  pointDTO         `json:"accumulator"`
	Epoch        uint64           `json:"epoch"`
	Announcement *announcementDTO `json:"announcement,omitempty"`
}

// Accumulator handler: current value, epoch and the latest signed
// announcement (absent until the first revocation).
func (s *Server) handleAccumulator(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := accumulatorResponse{
		Accumulator: toPointDTO(s.registry.Accumulator()),
		Epoch:       s.registry.Epoch(),
	}
	if signed, ok := s.registry.LatestAnnouncement(); ok {
		resp.Announcement = &announcementDTO{
			Epoch:     signed.Announcement.Epoch,
			Timestamp: signed.Announcement.Timestamp,
			Payload:   base64.StdEncoding.EncodeToString(signed.Payload),
			Signature: base64.StdEncoding.EncodeToString(signed.Signature),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
