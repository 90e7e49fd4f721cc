package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m, err := NewManager("s3cret", time.Hour)
	require.NoError(t, err)

	tok, err := m.Issue("64b7f0c2a1b2c3d4e5f60718", "recruiter")
	require.NoError(t, err)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", claims.Subject)
	assert.Equal(t, "recruiter", claims.Role)
}

func TestParseRejects(t *testing.T) {
	m, _ := NewManager("s3cret", time.Hour)
	other, _ := NewManager("different", time.Hour)
	good, _ := other.Issue("u1", "admin")

	expired, _ := NewManager("s3cret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.Issue("u1", "admin")

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: "admin"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name string
		tok  string
	}{
		{"wrong secret", good},
		{"expired", old},
		{"alg none", none},
		{"garbage", "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Parse(tt.tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("", time.Hour)
	assert.Error(t, err)
}
