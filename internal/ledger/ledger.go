// Package ledger is the persistence collaborator: an append-only event log
// keyed by device identifier, recording registrations, revocations and the
// accumulator value after each transition. The core engine never depends on
// it for correctness; it is written to after state is already consistent.
package ledger

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/zkiot/revocation-registry/internal/curve"
)

type EventType string

const (
	EventRegistered EventType = "registered"
	EventRevoked    EventType = "revoked"
)

var (
	ErrNoAccumulator = errors.New("ledger: no accumulator persisted yet")
	ErrClosed        = errors.New("ledger: log is closed")
)

// Event is one log entry. Coordinates are decimal strings so entries survive
// JSON round-trips without precision loss.
type Event struct {
	Seq          uint64    `json:"seq"`
	Type         EventType `json:"type"`
	DeviceID     string    `json:"device_id"`
	WitnessX     string    `json:"witness_x,omitempty"`
	WitnessY     string    `json:"witness_y,omitempty"`
	AccumulatorX string    `json:"accumulator_x"`
	AccumulatorY string    `json:"accumulator_y"`
	Timestamp    time.Time `json:"timestamp"`
}

// Log is the append-only event log contract. Seq is assigned on append.
type Log interface {
	// Append stores events in order. Events are never updated or deleted.
	Append(ctx context.Context, events ...Event) error

	// DeviceEvents returns all events for one device id, oldest first.
	DeviceEvents(ctx context.Context, deviceID string) ([]Event, error)

	// Accumulator returns the most recently persisted accumulator value.
	Accumulator(ctx context.Context) (curve.Point, error)

	// VerifyMembership runs the witness equation against the persisted
	// accumulator, so external parties can check a witness without trusting
	// the in-memory engine.
	VerifyMembership(ctx context.Context, deviceID string, witness curve.Point) (bool, error)

	Close() error
}

// NewRegisteredEvent builds the log entry for a registration.
func NewRegisteredEvent(deviceID *big.Int, acc curve.Point, at time.Time) Event {
	return Event{
		Type:         EventRegistered,
		DeviceID:     deviceID.String(),
		AccumulatorX: acc.X().String(),
		AccumulatorY: acc.Y().String(),
		Timestamp:    at,
	}
}

// NewRevokedEvent builds the log entry for a revocation, carrying the
// witness captured at revocation time and the post-revocation accumulator.
func NewRevokedEvent(deviceID *big.Int, witness, accAfter curve.Point, at time.Time) Event {
	return Event{
		Type:         EventRevoked,
		DeviceID:     deviceID.String(),
		WitnessX:     witness.X().String(),
		WitnessY:     witness.Y().String(),
		AccumulatorX: accAfter.X().String(),
		AccumulatorY: accAfter.Y().String(),
		Timestamp:    at,
	}
}

func pointFromStrings(x, y string) (curve.Point, error) {
	xi, ok := new(big.Int).SetString(x, 10)
	if !ok {
		return curve.Point{}, errors.New("ledger: bad x coordinate")
	}
	yi, ok := new(big.Int).SetString(y, 10)
	if !ok {
		return curve.Point{}, errors.New("ledger: bad y coordinate")
	}
	return curve.NewPoint(xi, yi)
}

// verifyMembership is shared by the Log implementations.
func verifyMembership(acc curve.Point, deviceID string, witness curve.Point) (bool, error) {
	id, ok := new(big.Int).SetString(deviceID, 10)
	if !ok {
		return false, errors.New("ledger: device id is not a decimal integer")
	}
	return curve.MembershipHolds(acc, id, witness)
}
