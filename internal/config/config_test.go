package config

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv(EnvDevEphemeralKey, "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.ServerHost)
	require.Equal(t, 8080, cfg.ServerPort)
	require.Equal(t, 15, cfg.ServerReadTimeoutSec)
	require.False(t, cfg.ProverEnabled)
	require.Empty(t, cfg.LedgerPath)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv(EnvDevEphemeralKey, "true")
	t.Setenv(EnvServerPort, "9090")
	t.Setenv(EnvLedgerPath, "/var/lib/rvk")
	t.Setenv(EnvProverEnabled, "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.ServerPort)
	require.Equal(t, "/var/lib/rvk", cfg.LedgerPath)
	require.True(t, cfg.ProverEnabled)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	base := Config{
		ServerHost:            "0.0.0.0",
		ServerPort:            8080,
		ServerReadTimeoutSec:  15,
		ServerWriteTimeoutSec: 15,
		ServerIdleTimeoutSec:  60,
		DevEphemeralKey:       true,
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.ServerPort = 0
	require.Error(t, bad.Validate())

	bad = base
	bad.ServerReadTimeoutSec = -1
	require.Error(t, bad.Validate())

	// Key path and ephemeral mode are mutually exclusive.
	bad = base
	bad.SigningKeyPath = "/tmp/key.pem"
	require.Error(t, bad.Validate())

	// One of them is required.
	bad = base
	bad.DevEphemeralKey = false
	require.Error(t, bad.Validate())
}

func TestLoadSigningKeyFromPEM(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "key.pem")
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
	require.NoError(t, os.WriteFile(path, pemBytes, 0o600))

	loaded, err := LoadSigningKey(Config{SigningKeyPath: path})
	require.NoError(t, err)
	require.True(t, loaded.Equal(key))
}

func TestLoadSigningKeyRejectsWrongCurve(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "key.pem")
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
	require.NoError(t, os.WriteFile(path, pemBytes, 0o600))

	_, err = LoadSigningKey(Config{SigningKeyPath: path})
	require.Error(t, err)
}

func TestLoadSigningKeyEphemeral(t *testing.T) {
	key, err := LoadSigningKey(Config{DevEphemeralKey: true})
	require.NoError(t, err)
	require.Equal(t, elliptic.P256(), key.Curve)
}
