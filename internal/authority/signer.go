package authority

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"sync"
	"time"
)

var (
	ErrNoPrivateKey    = errors.New("authority: no private key configured")
	ErrInvalidKey      = errors.New("authority: invalid key type, expected ECDSA P-256")
	ErrSignatureFailed = errors.New("authority: signature generation failed")
)

// Announcer signs accumulator announcements with the registry's long-term
// ECDSA P-256 key and keeps the per-epoch log of what was published.
type Announcer struct {
	privateKey *ecdsa.PrivateKey
	publicKey  *ecdsa.PublicKey

	mu  sync.RWMutex
	log []SignedAnnouncement
}

// NewAnnouncer creates an announcer from an existing ECDSA private key.
func NewAnnouncer(key *ecdsa.PrivateKey) (*Announcer, error) {
	if key == nil {
		return nil, ErrNoPrivateKey
	}
	if key.Curve != elliptic.P256() {
		return nil, ErrInvalidKey
	}
	return &Announcer{
		privateKey: key,
		publicKey:  &key.PublicKey,
	}, nil
}

// AnnounceEpoch builds, signs and records the announcement for one epoch.
func (a *Announcer) AnnounceEpoch(ann Announcement) (*SignedAnnouncement, error) {
	if ann.Timestamp.IsZero() {
		ann.Timestamp = time.Now().UTC()
	}
	payload := EncodeAnnouncement(ann)

	hash := sha256.Sum256(payload)
	signature, err := ecdsa.SignASN1(rand.Reader, a.privateKey, hash[:])
	if err != nil {
		return nil, ErrSignatureFailed
	}

	signed := SignedAnnouncement{
		Announcement: ann,
		Payload:      payload,
		Signature:    signature,
	}

	a.mu.Lock()
	a.log = append(a.log, signed)
	a.mu.Unlock()

	return &signed, nil
}

// Latest returns the most recent signed announcement, if any.
func (a *Announcer) Latest() (*SignedAnnouncement, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if len(a.log) == 0 {
		return nil, false
	}
	signed := a.log[len(a.log)-1]
	return &signed, true
}

// History returns a copy of every announcement published so far.
func (a *Announcer) History() []SignedAnnouncement {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]SignedAnnouncement, len(a.log))
	copy(out, a.log)
	return out
}

// PublicKeyDER returns the DER-encoded public key (SPKI format).
func (a *Announcer) PublicKeyDER() ([]byte, error) {
	return x509.MarshalPKIXPublicKey(a.publicKey)
}

// Verify checks a signed announcement against a DER-encoded (SPKI) P-256
// public key. It validates the signature over the canonical payload and that
// the payload decodes to the embedded announcement.
func Verify(pubKeyDER []byte, signed *SignedAnnouncement) bool {
	if signed == nil || len(signed.Payload) == 0 || len(signed.Signature) == 0 {
		return false
	}

	pub, err := x509.ParsePKIXPublicKey(pubKeyDER)
	if err != nil {
		return false
	}
	ecdsaPub, ok := pub.(*ecdsa.PublicKey)
	if !ok || ecdsaPub.Curve != elliptic.P256() {
		return false
	}

	hash := sha256.Sum256(signed.Payload)
	if !ecdsa.VerifyASN1(ecdsaPub, hash[:], signed.Signature) {
		return false
	}

	decoded, err := DecodeAnnouncement(signed.Payload)
	if err != nil {
		return false
	}
	return decoded.Epoch == signed.Announcement.Epoch &&
		decoded.Accumulator.Equal(signed.Announcement.Accumulator)
}
