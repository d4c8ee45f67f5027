package registry

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zkiot/revocation-registry/internal/curve"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Load(big.NewInt(1))
	require.ErrorIs(t, err, ErrDeviceNotFound)

	dev := &Device{
		ID:           big.NewInt(1),
		Status:       StatusActive,
		Witness:      curve.Identity(),
		RegisteredAt: time.Now(),
	}
	require.NoError(t, store.Save(dev))

	loaded, err := store.Load(big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, StatusActive, loaded.Status)

	revoked, err := store.Revoked()
	require.NoError(t, err)
	require.Empty(t, revoked)

	dev.Status = StatusRevoked
	require.NoError(t, store.Save(dev))

	revoked, err = store.Revoked()
	require.NoError(t, err)
	require.Len(t, revoked, 1)
	require.Equal(t, "1", revoked[0].ID.String())
}
