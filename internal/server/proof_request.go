package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zkiot/revocation-registry/internal/proofreq"
)

type proofRequestRequest struct {
	DeviceID string `json:"device_id"`
}

type proofRequestResponse struct {
	Public struct {
		Accumulator pointDTO `json:"accumulator"`
	} `json:"public"`
	Private struct {
		Element string   `json:"element"`
		Witness pointDTO `json:"witness"`
	} `json:"private"`
}

var errNotMember = errors.New("device is not in the revoked set")

// Proof-request handler: packages prover inputs for a revoked device. The
// witness is pre-checked against the current accumulator; an inconsistency
// is a server-side bug and surfaces as 500, never as a silently rebuilt
// request.
func (s *Server) handleProofRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req proofRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	built, err := s.buildProofRequest(r, req.DeviceID)
	if err != nil {
		if errors.Is(err, errNotMember) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: errNotMember.Error()})
			return
		}
		writeError(w, err)
		return
	}

	var resp proofRequestResponse
	resp.Public.Accumulator = pointDTO{X: built.Public.AccumulatorX.String(), Y: built.Public.AccumulatorY.String()}
	resp.Private.Element = built.Private.Element.String()
	resp.Private.Witness = pointDTO{X: built.Private.WitnessX.String(), Y: built.Private.WitnessY.String()}
	writeJSON(w, http.StatusOK, resp)
}

type proveResponse struct {
	Proof         string    `json:"proof"` // base64
	PublicSignals [2]string `json:"public_signals"`
}

// Proof handler: builds the request and forwards it to the proving backend.
func (s *Server) handleProve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.prover == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "proving backend is disabled"})
		return
	}

	var req proofRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	built, err := s.buildProofRequest(r, req.DeviceID)
	if err != nil {
		if errors.Is(err, errNotMember) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: errNotMember.Error()})
			return
		}
		writeError(w, err)
		return
	}

	proof, err := s.prover.Prove(r.Context(), built)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, proveResponse{
		Proof: base64.StdEncoding.EncodeToString(proof),
		PublicSignals: [2]string{
			built.Public.AccumulatorX.String(),
			built.Public.AccumulatorY.String(),
		},
	})
}

func (s *Server) buildProofRequest(r *http.Request, rawID string) (*proofreq.Request, error) {
	id, err := parseDeviceID(rawID)
	if err != nil {
		return nil, err
	}

	status := s.registry.Status(r.Context(), id)
	if !status.Revoked {
		return nil, errNotMember
	}
	return s.builder.Build(id, status.Witness, status.Accumulator)
}
