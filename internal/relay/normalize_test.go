package relay

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"icbridge/internal/token"
)

func TestNormalize_Success(t *testing.T) {
	resp := &UpstreamResponse{StatusCode: http.StatusOK, Body: []byte(`{"foo":"bar"}`)}
	result := Normalize(resp, nil)

	assert.True(t, result.Success)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.JSONEq(t, `{"foo":"bar"}`, string(result.Data))
	assert.Empty(t, result.Error)
}

func TestNormalize_UpstreamErrorWithMessage(t *testing.T) {
	resp := &UpstreamResponse{
		StatusCode: http.StatusBadRequest,
		Body:       []byte(`{"mensagens":[{"texto":"CNPJ inválido"},{"texto":"segunda"}]}`),
	}
	result := Normalize(resp, nil)

	assert.False(t, result.Success)
	assert.Equal(t, http.StatusBadRequest, result.StatusCode)
	assert.Equal(t, "CNPJ inválido", result.Error)
	assert.Empty(t, result.Data)
}

func TestNormalize_UpstreamErrorWithoutMessage(t *testing.T) {
	for _, body := range []string{`{}`, `{"mensagens":[]}`, `{"mensagens":[{"texto":""}]}`, `not json`} {
		resp := &UpstreamResponse{StatusCode: http.StatusForbidden, Body: []byte(body)}
		result := Normalize(resp, nil)

		assert.False(t, result.Success)
		assert.Equal(t, http.StatusForbidden, result.StatusCode)
		assert.Equal(t, "API request failed with status code: 403", result.Error)
	}
}

func TestNormalize_AuthErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"rejected", &token.AuthError{Reason: token.ReasonRejected, StatusCode: 401}},
		{"timeout", &token.AuthError{Reason: token.ReasonTimeout}},
		{"transport", &token.AuthError{Reason: token.ReasonTransport, Err: errors.New("dial tcp: refused")}},
		{"malformed", &token.AuthError{Reason: token.ReasonMalformedResponse}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Normalize(nil, tc.err)
			assert.False(t, result.Success)
			assert.Equal(t, http.StatusInternalServerError, result.StatusCode)
			assert.Contains(t, result.Error, "Authentication failed: ")
		})
	}
}

func TestNormalize_RouteErrors(t *testing.T) {
	result := Normalize(nil, &RouteError{Kind: KindUnreachable, Operation: OperationQuery, Err: errors.New("timeout")})
	assert.False(t, result.Success)
	assert.Equal(t, http.StatusInternalServerError, result.StatusCode)
	assert.Equal(t, "Failed to connect to the API", result.Error)

	result = Normalize(nil, &RouteError{Kind: KindNotImplemented, Operation: OperationIssue})
	assert.False(t, result.Success)
	assert.Equal(t, http.StatusNotImplemented, result.StatusCode)
	assert.Equal(t, `Operation "emitir" is not implemented`, result.Error)

	result = Normalize(nil, &RouteError{Kind: KindInvalidOperation, Operation: "apagar"})
	assert.False(t, result.Success)
	assert.Equal(t, http.StatusBadRequest, result.StatusCode)
	assert.Equal(t, "Invalid operation type: apagar", result.Error)
}

func TestNormalize_UnanticipatedError(t *testing.T) {
	result := Normalize(nil, errors.New("boom"))
	assert.False(t, result.Success)
	assert.Equal(t, http.StatusInternalServerError, result.StatusCode)
	assert.Equal(t, "boom", result.Error)
}

func TestNormalize_UnreadableSuccessBody(t *testing.T) {
	resp := &UpstreamResponse{StatusCode: http.StatusOK, Body: []byte(`<html>`)}
	result := Normalize(resp, nil)

	assert.False(t, result.Success)
	assert.Equal(t, http.StatusInternalServerError, result.StatusCode)
}

func TestNormalize_Idempotent(t *testing.T) {
	resp := &UpstreamResponse{StatusCode: http.StatusOK, Body: []byte(`{"foo":"bar"}`)}
	first := Normalize(resp, nil)
	second := Normalize(resp, nil)
	assert.Equal(t, first, second)
}
