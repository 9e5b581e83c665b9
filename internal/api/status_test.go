package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{200, KindSuccess},
		{401, KindAuthorizationError},
		{402, KindNoSubscription},
		{403, KindNoUnits},
		{404, KindBrowserLimit},
		{0, KindUnknownError},
		{-1, KindUnknownError},
		{201, KindUnknownError},
		{500, KindUnknownError},
		{999, KindUnknownError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapStatus(tt.status), "status %d", tt.status)
	}
}

func TestDomainErrorIs(t *testing.T) {
	tests := []struct {
		kind Kind
		want error
	}{
		{KindAuthorizationError, ErrAuthorization},
		{KindNoSubscription, ErrNoSubscription},
		{KindNoUnits, ErrNoUnits},
		{KindBrowserLimit, ErrBrowserLimit},
		{KindUnknownError, ErrUnknown},
	}
	sentinels := []error{ErrAuthorization, ErrNoSubscription, ErrNoUnits, ErrBrowserLimit, ErrUnknown}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := error(&DomainError{Kind: tt.kind, Status: 1, Endpoint: "Open"})
			for _, s := range sentinels {
				assert.Equal(t, s == tt.want, errors.Is(err, s), "sentinel %v", s)
			}
			assert.Contains(t, err.Error(), "Open: ")
		})
	}
}

func TestResultErr(t *testing.T) {
	ok := Result[OpenResponse]{Kind: KindSuccess, Status: 200, Value: OpenResponse{Status: 200, Address: "ws://a"}}
	assert.True(t, ok.OK())
	assert.NoError(t, ok.Err())
	v, err := ok.Get()
	assert.NoError(t, err)
	assert.Equal(t, "ws://a", v.Address)

	refused := Result[OpenResponse]{Kind: KindNoUnits, Status: 403, Endpoint: "Open"}
	assert.False(t, refused.OK())
	_, err = refused.Get()
	assert.ErrorIs(t, err, ErrNoUnits)

	var derr *DomainError
	assert.True(t, errors.As(err, &derr))
	assert.Equal(t, 403, derr.Status)
}

func TestEndpoints(t *testing.T) {
	for _, ep := range Endpoints() {
		assert.Equal(t, "api/v1/browser/"+ep.Name, ep.Path())
		if ep.Name == "Get" {
			assert.Equal(t, "GET", ep.Method)
			assert.False(t, ep.HasBody)
			continue
		}
		assert.Equal(t, "POST", ep.Method)
		assert.True(t, ep.HasBody)
	}
	assert.Len(t, Endpoints(), 6)
}
