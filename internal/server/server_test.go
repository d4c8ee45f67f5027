package server

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkiot/revocation-registry/internal/authority"
	"github.com/zkiot/revocation-registry/internal/ledger"
	"github.com/zkiot/revocation-registry/internal/proofreq"
	"github.com/zkiot/revocation-registry/internal/registry"
)

func newTestServer(t *testing.T) (*Server, []byte) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	announcer, err := authority.NewAnnouncer(key)
	require.NoError(t, err)
	pub, err := announcer.PublicKeyDER()
	require.NoError(t, err)

	svc := registry.NewService(
		registry.NewEngine(registry.NewMemoryStore()),
		ledger.NewMemoryLog(),
		announcer,
	)
	return New(DefaultConfig(), svc, proofreq.NewBuilder(), nil), pub
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDeviceLifecycleOverHTTP(t *testing.T) {
	srv, pub := newTestServer(t)

	// Register.
	rec := do(t, srv, http.MethodPost, "/api/v1/devices/register", registerRequest{DeviceID: "12345"})
	require.Equal(t, http.StatusCreated, rec.Code)
	registered := decode[registerResponse](t, rec)
	require.Equal(t, "12345", registered.DeviceID)
	require.Equal(t, "0", registered.Accumulator.X)
	require.Equal(t, "1", registered.Accumulator.Y)

	// Duplicate registration conflicts.
	rec = do(t, srv, http.MethodPost, "/api/v1/devices/register", registerRequest{DeviceID: "12345"})
	require.Equal(t, http.StatusConflict, rec.Code)

	// Active device: not a member.
	rec = do(t, srv, http.MethodGet, "/api/v1/devices/12345", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[statusResponse](t, rec)
	require.False(t, status.Revoked)
	require.Nil(t, status.Witness)

	// Revoke.
	rec = do(t, srv, http.MethodDelete, "/api/v1/devices/12345", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	record := decode[revocationRecordDTO](t, rec)
	require.Equal(t, "0", record.WitnessAtRevocation.X)
	require.Equal(t, "1", record.WitnessAtRevocation.Y)

	// Second revoke conflicts.
	rec = do(t, srv, http.MethodDelete, "/api/v1/devices/12345", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Revoked device gets witness + accumulator back.
	rec = do(t, srv, http.MethodGet, "/api/v1/devices/12345", nil)
	status = decode[statusResponse](t, rec)
	require.True(t, status.Revoked)
	require.NotNil(t, status.Witness)
	require.Equal(t, record.AccumulatorAfter, status.Accumulator)

	// Unknown device: no disclosure, still 200.
	rec = do(t, srv, http.MethodGet, "/api/v1/devices/999", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status = decode[statusResponse](t, rec)
	require.False(t, status.Revoked)
	require.Nil(t, status.Witness)

	// Revoking an unknown device is 404.
	rec = do(t, srv, http.MethodDelete, "/api/v1/devices/999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Accumulator endpoint carries a verifiable announcement.
	rec = do(t, srv, http.MethodGet, "/api/v1/accumulator", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	accResp := decode[accumulatorResponse](t, rec)
	require.Equal(t, uint64(1), accResp.Epoch)
	require.NotNil(t, accResp.Announcement)

	payload, err := base64.StdEncoding.DecodeString(accResp.Announcement.Payload)
	require.NoError(t, err)
	signature, err := base64.StdEncoding.DecodeString(accResp.Announcement.Signature)
	require.NoError(t, err)
	ann, err := authority.DecodeAnnouncement(payload)
	require.NoError(t, err)
	require.True(t, authority.Verify(pub, &authority.SignedAnnouncement{
		Announcement: ann,
		Payload:      payload,
		Signature:    signature,
	}))
}

func TestBatchRevokeOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, id := range []string{"1", "2"} {
		rec := do(t, srv, http.MethodPost, "/api/v1/devices/register", registerRequest{DeviceID: id})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(t, srv, http.MethodPost, "/api/v1/devices/revoke-batch", batchRevokeRequest{
		DeviceIDs: []string{"1", "2", "3", "bogus"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[batchRevokeResponse](t, rec)
	require.Len(t, result.Revoked, 2)
	require.Len(t, result.Skipped, 2)
}

func TestProofRequestOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/devices/register", registerRequest{DeviceID: "12345"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Active device: no proof request.
	rec = do(t, srv, http.MethodPost, "/api/v1/proof-requests", proofRequestRequest{DeviceID: "12345"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/v1/devices/12345", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/v1/proof-requests", proofRequestRequest{DeviceID: "12345"})
	require.Equal(t, http.StatusOK, rec.Code)
	built := decode[proofRequestResponse](t, rec)
	require.Equal(t, "12345", built.Private.Element)
	require.Equal(t, "0", built.Private.Witness.X)
	require.Equal(t, "1", built.Private.Witness.Y)

	// Proving backend disabled in this server.
	rec = do(t, srv, http.MethodPost, "/api/v1/proofs", proofRequestRequest{DeviceID: "12345"})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/v1/devices/register", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/v1/accumulator", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
