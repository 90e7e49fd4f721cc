package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobportal/internal/utils"
	"golang.org/x/time/rate"
)

func newTestNominatim(t *testing.T, h http.HandlerFunc) *Nominatim {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewNominatim(srv.URL, "jobportal-test", WithRateLimit(rate.NewLimiter(rate.Inf, 1)))
}

func TestNominatimLookup(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		want     Coordinates
		wantCode utils.Code
	}{
		{
			name:   "match",
			status: http.StatusOK,
			body:   `[{"lat":"37.77","lon":"-122.41","display_name":"San Francisco"}]`,
			want:   Coordinates{Latitude: 37.77, Longitude: -122.41},
		},
		{
			name:     "no match",
			status:   http.StatusOK,
			body:     `[]`,
			wantCode: utils.CodeNotFound,
		},
		{
			name:     "server error",
			status:   http.StatusServiceUnavailable,
			body:     `oops`,
			wantCode: utils.CodeUpstream,
		},
		{
			name:     "not json",
			status:   http.StatusOK,
			body:     `<html>`,
			wantCode: utils.CodeUpstream,
		},
		{
			name:     "bad coordinate",
			status:   http.StatusOK,
			body:     `[{"lat":"north","lon":"1"}]`,
			wantCode: utils.CodeUpstream,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery, gotUA string
			n := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query().Get("postalcode")
				gotUA = r.UserAgent()
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := n.Lookup(context.Background(), " 94103 ")

			assert.Equal(t, "94103", gotQuery)
			assert.Equal(t, "jobportal-test", gotUA)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, utils.IsCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Latitude, got.Latitude, 1e-9)
			assert.InDelta(t, tt.want.Longitude, got.Longitude, 1e-9)
		})
	}
}

func TestNominatimEmptyPostalCode(t *testing.T) {
	called := false
	n := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := n.Lookup(context.Background(), "  ")

	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	assert.False(t, called)
}
