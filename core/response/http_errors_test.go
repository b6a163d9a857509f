package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/ssrkit/core/response"
)

// customStatusError is a test error that implements StatusCode() int
type customStatusError struct {
	message string
	status  int
}

func (e customStatusError) Error() string {
	return e.message
}

func (e customStatusError) StatusCode() int {
	return e.status
}

func TestClassify(t *testing.T) {
	t.Parallel()

	cause := errors.New("open public/markdown/test.md: no such file or directory")

	tests := []struct {
		name         string
		err          error
		expectedKind response.Kind
		status       int
		publicText   string
	}{
		{
			name:         "declared_not_found",
			err:          response.ErrNotFound,
			expectedKind: response.KindDeclared,
			status:       http.StatusNotFound,
			publicText:   "Not Found",
		},
		{
			name:         "wrapped_declared",
			err:          fmt.Errorf("static: %w", response.ErrNotFound),
			expectedKind: response.KindDeclared,
			status:       http.StatusNotFound,
			publicText:   "Not Found",
		},
		{
			name:         "resource_unavailable",
			err:          response.ResourceUnavailable(cause),
			expectedKind: response.KindResourceUnavailable,
			status:       http.StatusInternalServerError,
			publicText:   "Internal Server Error",
		},
		{
			name:         "upstream_unavailable",
			err:          response.UpstreamUnavailable(cause),
			expectedKind: response.KindUpstreamUnavailable,
			status:       http.StatusBadGateway,
			publicText:   "Bad Gateway",
		},
		{
			name:         "status_code_interface",
			err:          customStatusError{message: "slow down", status: http.StatusTooManyRequests},
			expectedKind: response.KindDeclared,
			status:       http.StatusTooManyRequests,
			publicText:   "Too Many Requests",
		},
		{
			name:         "generic_runtime_fault",
			err:          errors.New("nil map write"),
			expectedKind: response.KindRuntime,
			status:       http.StatusInternalServerError,
			publicText:   "Internal Server Error",
		},
		{
			name:         "exposed_message",
			err:          response.NewHTTPError(http.StatusBadRequest, "name is required").Exposed(),
			expectedKind: response.KindDeclared,
			status:       http.StatusBadRequest,
			publicText:   "name is required",
		},
		{
			name:         "unexposed_message",
			err:          response.NewHTTPError(http.StatusForbidden, "user 42 lacks role admin"),
			expectedKind: response.KindDeclared,
			status:       http.StatusForbidden,
			publicText:   "Forbidden",
		},
		{
			name:         "zero_value_kind_defaults_to_declared",
			err:          response.HTTPError{Status: http.StatusConflict, Message: "conflict"},
			expectedKind: response.KindDeclared,
			status:       http.StatusConflict,
			publicText:   "Conflict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			httpErr := response.Classify(tt.err)
			assert.Equal(t, tt.expectedKind, httpErr.Kind)
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.publicText, httpErr.PublicText())
		})
	}
}

func TestClassifyKeepsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: connection refused")
	httpErr := response.Classify(fmt.Errorf("fetch: %w", response.UpstreamUnavailable(cause)))

	assert.ErrorIs(t, httpErr, cause)
	assert.Contains(t, httpErr.Error(), "connection refused")
}

func TestClassifyNil(t *testing.T) {
	t.Parallel()

	assert.Equal(t, response.HTTPError{}, response.Classify(nil))
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "declared", response.KindDeclared.String())
	assert.Equal(t, "resource_unavailable", response.KindResourceUnavailable.String())
	assert.Equal(t, "upstream_unavailable", response.KindUpstreamUnavailable.String())
	assert.Equal(t, "runtime", response.KindRuntime.String())
	assert.Equal(t, "unknown", response.Kind(0).String())
}

func TestNewHTTPErrorUnknownStatus(t *testing.T) {
	t.Parallel()

	httpErr := response.NewHTTPError(http.StatusTeapot, "short and stout")
	assert.Equal(t, response.KindDeclared, httpErr.Kind)
	assert.Equal(t, http.StatusTeapot, httpErr.StatusCode())
	assert.Equal(t, "I'm a teapot", httpErr.PublicText())
	assert.Equal(t, "short and stout", httpErr.Exposed().PublicText())
}

func TestClassifyUnknownStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
	}{
		{name: "zero", status: 0},
		{name: "below range", status: 42},
		{name: "no reason phrase", status: 299},
		{name: "above range", status: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			httpErr := response.Classify(response.NewHTTPError(tt.status, "odd"))
			assert.Equal(t, response.KindDeclared, httpErr.Kind)
			assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
			assert.Equal(t, "Internal Server Error", httpErr.PublicText())
		})
	}
}
