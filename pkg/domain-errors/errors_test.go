package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	assert.Equal(t, "bad_request: missing field", New(CodeBadRequest, "missing field").Error())

	wrapped := Wrap(fmt.Errorf("dial tcp: refused"), CodeInternal, "failed to save")
	assert.Equal(t, "internal_error: failed to save: dial tcp: refused", wrapped.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, CodeInternal, "failed")
	assert.ErrorIs(t, err, cause)
}

func TestHasCode(t *testing.T) {
	err := New(CodeBadRequest, "nope")
	assert.True(t, HasCode(err, CodeBadRequest))
	assert.False(t, HasCode(err, CodeInternal))
	assert.False(t, HasCode(errors.New("plain"), CodeBadRequest))

	// Codes survive fmt wrapping.
	assert.True(t, HasCode(fmt.Errorf("outer: %w", err), CodeBadRequest))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeUnauthorized, GetCode(New(CodeUnauthorized, "no")))
	assert.Equal(t, CodeInternal, GetCode(errors.New("plain")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:     http.StatusBadRequest,
		CodeUnauthorized:   http.StatusUnauthorized,
		CodeNotImplemented: http.StatusNotImplemented,
		CodeUnavailable:    http.StatusServiceUnavailable,
		CodeInternal:       http.StatusInternalServerError,
		Code("unknown"):    http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}
