package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSigningKey = []byte("test-signing-key-0123456789")

func newTestTokenService(expiration time.Duration) *TokenService {
	return NewTokenService(testSigningKey, expiration, "bienesraices", nil)
}

func TestTokenServiceGenerateAndValidate(t *testing.T) {
	ts := newTestTokenService(time.Hour)
	userID := uuid.New()

	proof, err := ts.Generate(userID, "Ana Torres")
	require.NoError(t, err)
	require.NotEqual(t, "", proof)

	claims, err := ts.Validate(proof)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UID)
	assert.Equal(t, "Ana Torres", claims.Name)
	assert.Equal(t, "bienesraices", claims.Issuer)
}

func TestTokenServiceValidateExpired(t *testing.T) {
	ts := newTestTokenService(-time.Minute)

	proof, err := ts.Generate(uuid.New(), "Ana")
	require.NoError(t, err)

	_, err = ts.Validate(proof)
	require.Error(t, err)
	assert.Equal(t, ErrProofExpired.TextCode, richTextCode(t, err))
}

func TestTokenServiceValidateTampered(t *testing.T) {
	ts := newTestTokenService(time.Hour)

	proof, err := ts.Generate(uuid.New(), "Ana")
	require.NoError(t, err)

	parts := strings.Split(proof, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = ts.Validate(tampered)
	require.Error(t, err)
	assert.Equal(t, ErrProofInvalid.TextCode, richTextCode(t, err))
}

func TestTokenServiceValidateWrongKey(t *testing.T) {
	ts := newTestTokenService(time.Hour)
	other := NewTokenService([]byte("another-key-entirely"), time.Hour, "bienesraices", nil)

	proof, err := other.Generate(uuid.New(), "Ana")
	require.NoError(t, err)

	_, err = ts.Validate(proof)
	require.Error(t, err)
	assert.Equal(t, ErrProofInvalid.TextCode, richTextCode(t, err))
}

func TestTokenServiceRejectsNonHMAC(t *testing.T) {
	ts := newTestTokenService(time.Hour)

	// alg=none with an empty signature must never validate
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	proof, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ts.Validate(proof)
	require.Error(t, err)
}

func TestTokenServiceValidateGarbage(t *testing.T) {
	ts := newTestTokenService(time.Hour)

	_, err := ts.Validate("not-a-token")
	require.Error(t, err)
	assert.Equal(t, ErrProofInvalid.TextCode, richTextCode(t, err))
}

func TestNewOpaqueToken(t *testing.T) {
	a := NewOpaqueToken()
	b := NewOpaqueToken()

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 32)
	assert.NotContains(t, a, "-")
}

func richTextCode(t *testing.T, err error) string {
	t.Helper()

	var richErr *errors.Error
	require.True(t, errors.As(err, &richErr))
	return richErr.TextCode
}
