package server

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/zkiot/revocation-registry/internal/curve"
	"github.com/zkiot/revocation-registry/internal/proofreq"
	"github.com/zkiot/revocation-registry/internal/registry"
)

type pointDTO struct {
	X string `json:"x"`
	Y string `json:"y"`
}

func toPointDTO(p curve.Point) pointDTO {
	return pointDTO{X: p.X().String(), Y: p.Y().String()}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrInvalidInput),
		errors.Is(err, proofreq.ErrInvalidElement):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrDeviceNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrAlreadyRegistered),
		errors.Is(err, registry.ErrAlreadyRevoked):
		return http.StatusConflict
	default:
		// WitnessInconsistent and arithmetic failures signal a bug, not a
		// bad request.
		return http.StatusInternalServerError
	}
}

// parseDeviceID parses a decimal device id from a request field.
func parseDeviceID(raw string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, registry.ErrInvalidInput
	}
	return id, nil
}
