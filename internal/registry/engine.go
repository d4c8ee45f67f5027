package registry

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/zkiot/revocation-registry/internal/accumulator"
	"github.com/zkiot/revocation-registry/internal/curve"
)

var (
	ErrInvalidInput      = errors.New("registry: invalid device id")
	ErrAlreadyRegistered = errors.New("registry: device already registered")
	ErrAlreadyRevoked    = errors.New("registry: device already revoked")
)

// Engine is the revocation state machine. It owns the accumulator and the
// witness set as one aggregate: every mutation goes through the engine's
// mutex, so readers never observe a partially updated witness set.
//
// Device lifecycle: Unregistered -> Registered(Active) -> Revoked. Revoked is
// terminal; there is no reinstatement in this accumulator.
type Engine struct {
	mu      sync.RWMutex
	acc     accumulator.Accumulator
	store   Store
	records []RevocationRecord
	epoch   uint64
}

func NewEngine(store Store) *Engine {
	return &Engine{
		acc:   accumulator.New(),
		store: store,
	}
}

// Register admits a new device id. The stored witness is the accumulator at
// registration time: a placeholder until the device is revoked.
func (e *Engine) Register(deviceID *big.Int) (*Device, error) {
	if err := validateID(deviceID); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.store.Load(deviceID); err == nil {
		return nil, ErrAlreadyRegistered
	} else if !errors.Is(err, ErrDeviceNotFound) {
		return nil, err
	}

	dev := &Device{
		ID:           new(big.Int).Set(deviceID),
		Status:       StatusActive,
		Witness:      e.acc.Value(),
		RegisteredAt: time.Now().UTC(),
	}
	if err := e.store.Save(dev); err != nil {
		return nil, err
	}
	return snapshotDevice(dev), nil
}

// Revoke moves a registered device to the terminal Revoked state. The
// accumulator update and the O(R) witness-update pass over every already
// revoked device commit together or not at all.
func (e *Engine) Revoke(deviceID *big.Int) (*RevocationRecord, error) {
	if err := validateID(deviceID); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	rec, err := e.revokeLocked(deviceID, e.epoch+1)
	if err != nil {
		return nil, err
	}
	e.epoch++
	return rec, nil
}

// BatchRevoke applies Revoke semantics to every id that is currently active.
// Ids that are unregistered, malformed or already revoked are skipped, not
// fatal: the batch is best-effort, never all-or-nothing. The end state is
// identical to revoking the same ids sequentially in the given order; only
// the externally observable transition (one epoch) is grouped.
func (e *Engine) BatchRevoke(deviceIDs []*big.Int) (*BatchResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := &BatchResult{}
	next := e.epoch + 1
	for _, id := range deviceIDs {
		if err := validateID(id); err != nil {
			result.Skipped = append(result.Skipped, SkippedID{ID: id, Reason: err})
			continue
		}
		rec, err := e.revokeLocked(id, next)
		if err != nil {
			if errors.Is(err, ErrDeviceNotFound) || errors.Is(err, ErrAlreadyRevoked) {
				result.Skipped = append(result.Skipped, SkippedID{ID: new(big.Int).Set(id), Reason: err})
				continue
			}
			return nil, err
		}
		result.Records = append(result.Records, *rec)
	}
	if len(result.Records) > 0 {
		e.epoch = next
	}
	return result, nil
}

// revokeLocked runs the witness-update protocol for one id. Ordering is
// load-bearing:
//
//  1. shift every already-revoked witness by P_N, using its existing value;
//  2. capture the accumulator *before* the update as N's own witness;
//  3. fold P_N into the accumulator.
//
// All new points are computed before anything is written, so a failure
// leaves state untouched. epoch is the epoch the caller will commit this
// transition under; stamping it here, inside the lock, keeps the record's
// {Epoch, AccumulatorAfter} pair consistent for collaborators that consume
// it after the lock is released.
func (e *Engine) revokeLocked(deviceID *big.Int, epoch uint64) (*RevocationRecord, error) {
	dev, err := e.store.Load(deviceID)
	if err != nil {
		return nil, err
	}
	if dev.Status == StatusRevoked {
		return nil, ErrAlreadyRevoked
	}

	pN, err := curve.ScalarBaseMul(deviceID)
	if err != nil {
		return nil, err
	}

	revoked, err := e.store.Revoked()
	if err != nil {
		return nil, err
	}
	shifted := make([]curve.Point, len(revoked))
	for i, other := range revoked {
		shifted[i], err = other.Witness.Add(pN)
		if err != nil {
			return nil, err
		}
	}

	before := e.acc.Value()
	after, err := e.acc.Add(deviceID)
	if err != nil {
		return nil, err
	}

	// Commit. Memory writes only; nothing below can fail halfway through
	// the witness set.
	for i, other := range revoked {
		other.Witness = shifted[i]
		if err := e.store.Save(other); err != nil {
			return nil, err
		}
	}
	now := time.Now().UTC()
	dev.Witness = before
	dev.Status = StatusRevoked
	dev.RevokedAt = now
	if err := e.store.Save(dev); err != nil {
		return nil, err
	}
	e.acc = after

	rec := RevocationRecord{
		DeviceID:            new(big.Int).Set(deviceID),
		Epoch:               epoch,
		WitnessAtRevocation: before,
		AccumulatorBefore:   before,
		AccumulatorAfter:    after.Value(),
		Timestamp:           now,
	}
	e.records = append(e.records, rec)
	return &rec, nil
}

// CheckStatus reports whether an id is revoked. For a revoked device it
// returns the witness and accumulator needed for proof construction; for any
// other id (active or never registered) it reports "not a member" without
// disclosing anything about the revoked set.
func (e *Engine) CheckStatus(deviceID *big.Int) MembershipStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()

	status := MembershipStatus{Accumulator: e.acc.Value()}
	if deviceID == nil {
		return status
	}
	dev, err := e.store.Load(deviceID)
	if err != nil || dev.Status != StatusRevoked {
		return status
	}
	status.Revoked = true
	status.Witness = dev.Witness
	return status
}

// Accumulator returns the current accumulator point.
func (e *Engine) Accumulator() curve.Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.acc.Value()
}

// Epoch returns the number of externally observable accumulator transitions.
func (e *Engine) Epoch() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.epoch
}

// Records returns a copy of the revocation history.
func (e *Engine) Records() []RevocationRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]RevocationRecord, len(e.records))
	copy(out, e.records)
	return out
}

// CheckInvariant verifies Accumulator == Witness(d) + d*G for every revoked
// device d. It is meant for tests and operational self-checks; a failure
// means the witness-update protocol was violated somewhere.
func (e *Engine) CheckInvariant() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	revoked, err := e.store.Revoked()
	if err != nil {
		return err
	}
	acc := e.acc.Value()
	for _, dev := range revoked {
		ok, err := curve.MembershipHolds(acc, dev.ID, dev.Witness)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("registry: witness invariant violated for device %s", dev.ID)
		}
	}
	return nil
}

func validateID(deviceID *big.Int) error {
	if deviceID == nil || deviceID.Sign() <= 0 || deviceID.Cmp(curve.P) >= 0 {
		return ErrInvalidInput
	}
	return nil
}

func snapshotDevice(dev *Device) *Device {
	out := *dev
	out.ID = new(big.Int).Set(dev.ID)
	return &out
}
