package registry

import (
	"context"
	"log"
	"math/big"

	"github.com/zkiot/revocation-registry/internal/authority"
	"github.com/zkiot/revocation-registry/internal/curve"
	"github.com/zkiot/revocation-registry/internal/ledger"
)

// Service orchestrates the engine with its external collaborators: the
// append-only ledger and the announcement signer. Collaborators are invoked
// only after the engine has committed, and only with the {epoch, accumulator}
// snapshot stamped into the revocation records inside the engine's lock —
// never with live engine reads, which a concurrent revocation could have
// moved past the committed transition. A ledger or signing failure is logged
// but never rolls the core back and never fails the caller's request.
type Service struct {
	engine    *Engine
	log       ledger.Log
	announcer *authority.Announcer
}

// NewService wires the engine to its collaborators. log and announcer may be
// nil, in which case the corresponding step is skipped.
func NewService(engine *Engine, log ledger.Log, announcer *authority.Announcer) *Service {
	return &Service{
		engine:    engine,
		log:       log,
		announcer: announcer,
	}
}

// Register admits a device and records the registration event.
func (s *Service) Register(ctx context.Context, deviceID *big.Int) (*Device, error) {
	dev, err := s.engine.Register(deviceID)
	if err != nil {
		return nil, err
	}
	if s.log != nil {
		ev := ledger.NewRegisteredEvent(dev.ID, s.engine.Accumulator(), dev.RegisteredAt)
		if err := s.log.Append(ctx, ev); err != nil {
			log.Printf("registry: ledger append failed for device %s: %v", dev.ID, err)
		}
	}
	return dev, nil
}

// Revoke revokes one device, persists its revocation record and publishes a
// signed announcement for the new accumulator epoch.
func (s *Service) Revoke(ctx context.Context, deviceID *big.Int) (*RevocationRecord, error) {
	rec, err := s.engine.Revoke(deviceID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, []RevocationRecord{*rec})
	return rec, nil
}

// BatchRevoke revokes every currently active id in the batch, persists the
// records and publishes a single announcement for the grouped transition.
func (s *Service) BatchRevoke(ctx context.Context, deviceIDs []*big.Int) (*BatchResult, error) {
	result, err := s.engine.BatchRevoke(deviceIDs)
	if err != nil {
		return nil, err
	}
	if len(result.Records) > 0 {
		s.publish(ctx, result.Records)
	}
	return result, nil
}

// Status reports membership for an id.
func (s *Service) Status(_ context.Context, deviceID *big.Int) MembershipStatus {
	return s.engine.CheckStatus(deviceID)
}

// Accumulator returns the current accumulator point.
func (s *Service) Accumulator() curve.Point {
	return s.engine.Accumulator()
}

// Epoch returns the current accumulator epoch.
func (s *Service) Epoch() uint64 {
	return s.engine.Epoch()
}

// LatestAnnouncement returns the most recent signed announcement, if any.
func (s *Service) LatestAnnouncement() (*authority.SignedAnnouncement, bool) {
	if s.announcer == nil {
		return nil, false
	}
	return s.announcer.Latest()
}

// publish appends the revocation events and signs the new epoch. The signed
// announcement is built from the last record of the transition: its Epoch and
// AccumulatorAfter were stamped under the engine's lock, so the pair stays
// consistent even if other revocations have committed since.
func (s *Service) publish(ctx context.Context, records []RevocationRecord) {
	if s.log != nil {
		events := make([]ledger.Event, 0, len(records))
		for _, rec := range records {
			events = append(events, ledger.NewRevokedEvent(rec.DeviceID, rec.WitnessAtRevocation, rec.AccumulatorAfter, rec.Timestamp))
		}
		if err := s.log.Append(ctx, events...); err != nil {
			log.Printf("registry: ledger append failed for %d revocation(s): %v", len(records), err)
		}
	}
	if s.announcer != nil {
		last := records[len(records)-1]
		_, err := s.announcer.AnnounceEpoch(authority.Announcement{
			Epoch:       last.Epoch,
			Accumulator: last.AccumulatorAfter,
		})
		if err != nil {
			log.Printf("registry: announcement for epoch %d failed: %v", last.Epoch, err)
		}
	}
}
