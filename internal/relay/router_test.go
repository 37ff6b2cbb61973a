package relay

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icbridge/internal/envelope"
	"icbridge/internal/token"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCredential() *token.Credential {
	return &token.Credential{AccessToken: "acc-123", JWTToken: "jwt-456"}
}

func testEnvelope() envelope.Envelope {
	return envelope.Build("11111111000191", "22222222000191", "PGDASD", "SVC", "1.0", json.RawMessage(`{"a":1}`))
}

func TestRoute_QueryForwardsEnvelope(t *testing.T) {
	var gotPath, gotAuth, gotJWT, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotJWT = r.Header.Get("jwt_token")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	router := NewGatewayRouter(srv.URL, testLogger())
	resp, err := router.Route(context.Background(), OperationQuery, testEnvelope(), testCredential())
	require.NoError(t, err)

	assert.Equal(t, "/Consultar", gotPath)
	assert.Equal(t, "Bearer acc-123", gotAuth)
	assert.Equal(t, "jwt-456", gotJWT)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))

	var sent map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(gotBody, &sent))
	assert.Contains(t, sent, "contratante")
	assert.Contains(t, sent, "pedidoDados")
}

func TestRoute_UnimplementedKindsNeverCallUpstream(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	router := NewGatewayRouter(srv.URL, testLogger())
	for _, op := range []Operation{OperationIssue, OperationDeclare} {
		_, err := router.Route(context.Background(), op, testEnvelope(), testCredential())
		re, ok := AsRouteError(err)
		require.True(t, ok)
		assert.Equal(t, KindNotImplemented, re.Kind)
		assert.Equal(t, op, re.Operation)
	}
	assert.Equal(t, int32(0), calls.Load(), "unimplemented kinds must not reach the gateway")
}

func TestRoute_UnknownKindIsInvalid(t *testing.T) {
	router := NewGatewayRouter("http://gateway.invalid", testLogger())
	_, err := router.Route(context.Background(), Operation("apagar"), testEnvelope(), testCredential())
	re, ok := AsRouteError(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidOperation, re.Kind)
}

func TestRoute_UpstreamNonOKIsReturnedNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"mensagens":[{"texto":"CNPJ inválido"}]}`))
	}))
	defer srv.Close()

	router := NewGatewayRouter(srv.URL, testLogger())
	resp, err := router.Route(context.Background(), OperationQuery, testEnvelope(), testCredential())
	require.NoError(t, err, "a non-200 answer is an upstream verdict, not a routing failure")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRoute_TimeoutIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	router := NewGatewayRouter(srv.URL, testLogger(), WithTimeout(20*time.Millisecond))
	_, err := router.Route(context.Background(), OperationQuery, testEnvelope(), testCredential())
	re, ok := AsRouteError(err)
	require.True(t, ok)
	assert.Equal(t, KindUnreachable, re.Kind)
}

func TestRoute_ConnectionRefusedIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	router := NewGatewayRouter(srv.URL, testLogger())
	_, err := router.Route(context.Background(), OperationQuery, testEnvelope(), testCredential())
	re, ok := AsRouteError(err)
	require.True(t, ok)
	assert.Equal(t, KindUnreachable, re.Kind)
}
