package config

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	EnvServerHost            = "RVK_SERVER_HOST"
	EnvServerPort            = "RVK_SERVER_PORT"
	EnvServerReadTimeoutSec  = "RVK_SERVER_READ_TIMEOUT_SEC"
	EnvServerWriteTimeoutSec = "RVK_SERVER_WRITE_TIMEOUT_SEC"
	EnvServerIdleTimeoutSec  = "RVK_SERVER_IDLE_TIMEOUT_SEC"
	EnvSigningKeyPath        = "RVK_SIGNING_KEY_PATH"
	EnvLedgerPath            = "RVK_LEDGER_PATH"
	EnvProverEnabled         = "RVK_PROVER_ENABLED"
	EnvDevEphemeralKey       = "RVK_DEV_EPHEMERAL_KEY"

	MinPortNumber = 1
	MaxPortNumber = 65535
)

// Config holds registry runtime configuration loaded from environment
// variables.
type Config struct {
	ServerHost            string
	ServerPort            int
	ServerReadTimeoutSec  int
	ServerWriteTimeoutSec int
	ServerIdleTimeoutSec  int
	SigningKeyPath        string
	// LedgerPath is the badger directory for the event log. Empty selects
	// the in-memory log (development/testing).
	LedgerPath string
	// ProverEnabled controls whether the Groth16 backend is compiled and
	// set up at startup.
	ProverEnabled   bool
	DevEphemeralKey bool
}

// LoadFromEnv loads and validates configuration from environment variables.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		ServerHost:            envOrDefault(EnvServerHost, "0.0.0.0"),
		ServerPort:            intEnvOrDefault(EnvServerPort, 8080),
		ServerReadTimeoutSec:  intEnvOrDefault(EnvServerReadTimeoutSec, 15),
		ServerWriteTimeoutSec: intEnvOrDefault(EnvServerWriteTimeoutSec, 15),
		ServerIdleTimeoutSec:  intEnvOrDefault(EnvServerIdleTimeoutSec, 60),
		SigningKeyPath:        strings.TrimSpace(os.Getenv(EnvSigningKeyPath)),
		LedgerPath:            strings.TrimSpace(os.Getenv(EnvLedgerPath)),
		ProverEnabled:         boolEnvOrDefault(EnvProverEnabled, false),
		DevEphemeralKey:       boolEnvOrDefault(EnvDevEphemeralKey, false),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the configuration is coherent.
func (c Config) Validate() error {
	if c.ServerHost == "" {
		return fmt.Errorf("invalid %s: must not be empty", EnvServerHost)
	}
	if c.ServerPort < MinPortNumber || c.ServerPort > MaxPortNumber {
		return fmt.Errorf("invalid %s: must be in range %d..%d", EnvServerPort, MinPortNumber, MaxPortNumber)
	}
	if c.ServerReadTimeoutSec <= 0 {
		return fmt.Errorf("invalid %s: must be > 0", EnvServerReadTimeoutSec)
	}
	if c.ServerWriteTimeoutSec <= 0 {
		return fmt.Errorf("invalid %s: must be > 0", EnvServerWriteTimeoutSec)
	}
	if c.ServerIdleTimeoutSec <= 0 {
		return fmt.Errorf("invalid %s: must be > 0", EnvServerIdleTimeoutSec)
	}
	if c.DevEphemeralKey && c.SigningKeyPath != "" {
		return fmt.Errorf("invalid config: %s and %s are mutually exclusive", EnvDevEphemeralKey, EnvSigningKeyPath)
	}
	if !c.DevEphemeralKey && c.SigningKeyPath == "" {
		return fmt.Errorf("invalid %s: must not be empty (or set %s=true for dev mode)", EnvSigningKeyPath, EnvDevEphemeralKey)
	}
	return nil
}

// LoadSigningKey loads the ECDSA P-256 announcement-signing key from the
// path in cfg. If cfg.DevEphemeralKey is true, it generates an ephemeral key
// instead — this path must never be used in production, since announcements
// signed with it are unverifiable after a restart.
func LoadSigningKey(cfg Config) (*ecdsa.PrivateKey, error) {
	if cfg.DevEphemeralKey {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("ephemeral key generation failed: %w", err)
		}
		return key, nil
	}

	data, err := os.ReadFile(cfg.SigningKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading signing key %q: %w", cfg.SigningKeyPath, err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("signing key %q: no PEM block found", cfg.SigningKeyPath)
	}

	switch block.Type {
	case "EC PRIVATE KEY":
		key, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("signing key %q: %w", cfg.SigningKeyPath, err)
		}
		if key.Curve != elliptic.P256() {
			return nil, fmt.Errorf("signing key %q: must be ECDSA P-256, got %s", cfg.SigningKeyPath, key.Curve.Params().Name)
		}
		return key, nil
	case "PRIVATE KEY":
		// PKCS#8 wrapped key
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("signing key %q: %w", cfg.SigningKeyPath, err)
		}
		key, ok := parsed.(*ecdsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("signing key %q: must be ECDSA P-256", cfg.SigningKeyPath)
		}
		if key.Curve != elliptic.P256() {
			return nil, fmt.Errorf("signing key %q: must be ECDSA P-256, got %s", cfg.SigningKeyPath, key.Curve.Params().Name)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("signing key %q: unsupported PEM type %q", cfg.SigningKeyPath, block.Type)
	}
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnvOrDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func boolEnvOrDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
