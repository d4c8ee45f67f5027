package server

import (
	"encoding/json"
	"math/big"
	"net/http"
)

type batchRevokeRequest struct {
	DeviceIDs []string `json:"device_ids"`
}

type skippedDTO struct {
	DeviceID string `json:"device_id"`
	Reason   string `json:"reason"`
}

type batchRevokeResponse struct {
	Revoked []revocationRecordDTO `json:"revoked"`
	Skipped []skippedDTO          `json:"skipped"`
}

// Batch revocation handler. Ids that fail their precondition are reported in
// "skipped"; the rest are revoked in the given order as one grouped
// accumulator transition.
func (s *Server) handleBatchRevoke(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req batchRevokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	ids := make([]*big.Int, len(req.DeviceIDs))
	for i, raw := range req.DeviceIDs {
		// Unparsable ids become nil and get skipped by the engine's
		// validation, matching the best-effort batch policy.
		ids[i], _ = new(big.Int).SetString(raw, 10)
	}

	result, err := s.registry.BatchRevoke(r.Context(), ids)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := batchRevokeResponse{
		Revoked: make([]revocationRecordDTO, 0, len(result.Records)),
		Skipped: make([]skippedDTO, 0, len(result.Skipped)),
	}
	for _, rec := range result.Records {
		resp.Revoked = append(resp.Revoked, revocationRecordDTO{
			DeviceID:            rec.DeviceID.String(),
			WitnessAtRevocation: toPointDTO(rec.WitnessAtRevocation),
			AccumulatorBefore:   toPointDTO(rec.AccumulatorBefore),
			AccumulatorAfter:    toPointDTO(rec.AccumulatorAfter),
			Timestamp:           rec.Timestamp,
		})
	}
	for _, sk := range result.Skipped {
		dto := skippedDTO{Reason: sk.Reason.Error()}
		if sk.ID != nil {
			dto.DeviceID = sk.ID.String()
		}
		resp.Skipped = append(resp.Skipped, dto)
	}
	writeJSON(w, http.StatusOK, resp)
}
