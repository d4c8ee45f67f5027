package registry

import (
	"math/big"
	"time"

	"github.com/zkiot/revocation-registry/internal/curve"
)

type Status uint8

const (
	StatusActive Status = iota
	StatusRevoked
)

// Device is a registered IoT identifier. Witness starts out as the
// accumulator at registration time (a placeholder with no proof value), is
// overwritten with the pre-revocation accumulator when the device itself is
// revoked, and is shifted again every time any other device is revoked.
type Device struct {
	ID           *big.Int
	Status       Status
	Witness      curve.Point
	RegisteredAt time.Time
	RevokedAt    time.Time // zero until revoked
}

// RevocationRecord is the append-only history entry written once per revoked
// device. Epoch is the accumulator epoch the record committed under; every
// record of one batch shares the batch's epoch.
type RevocationRecord struct {
	DeviceID            *big.Int
	Epoch               uint64
	WitnessAtRevocation curve.Point
	AccumulatorBefore   curve.Point
	AccumulatorAfter    curve.Point
	Timestamp           time.Time
}

// MembershipStatus is the result of a status query. Witness is only set when
// Revoked is true; for active or unknown ids the response discloses nothing
// about the revoked set beyond the (public) accumulator.
type MembershipStatus struct {
	Revoked     bool
	Witness     curve.Point
	Accumulator curve.Point
}

// SkippedID records a batch entry that failed its precondition and was
// skipped rather than aborting the batch.
type SkippedID struct {
	ID     *big.Int
	Reason error
}

// BatchResult reports the outcome of a best-effort batch revocation.
type BatchResult struct {
	Records []RevocationRecord
	Skipped []SkippedID
}
