package registry

import (
	"errors"
	"math/big"
)

var (
	ErrDeviceNotFound = errors.New("registry: device not found")
)

type Store interface {
	// Load retrieves a device by id.
	Load(deviceID *big.Int) (*Device, error)
	// Save stores or updates a device.
	Save(device *Device) error
	// Revoked lists every currently revoked device. The witness-update pass
	// touches each of them on every new revocation.
	Revoked() ([]*Device, error)
}
