package registry

import (
	"math/big"
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	devices map[string]*Device
}

func NewMemoryStore() Store {
	return &memoryStore{
		devices: make(map[string]*Device),
	}
}

func (s *memoryStore) Load(deviceID *big.Int) (*Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dev, ok := s.devices[deviceID.String()]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return dev, nil
}

func (s *memoryStore) Save(device *Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.devices[device.ID.String()] = device
	return nil
}

func (s *memoryStore) Revoked() ([]*Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Device
	for _, dev := range s.devices {
		if dev.Status == StatusRevoked {
			out = append(out, dev)
		}
	}
	return out, nil
}
