package services

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCipherRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	c, err := NewSessionCipher(key)
	require.NoError(t, err)

	sealed, err := c.Seal([]byte("session-123"))
	require.NoError(t, err)
	assert.NotContains(t, sealed, "session-123")

	again, _ := c.Seal([]byte("session-123"))
	assert.NotEqual(t, sealed, again, "every seal uses a fresh nonce")

	opened, err := c.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "session-123", string(opened))
}

func TestSessionCipherRejectsTampering(t *testing.T) {
	c, err := NewSessionCipher(make([]byte, 32))
	require.NoError(t, err)
	sealed, _ := c.Seal([]byte("abc"))

	raw, _ := base64.RawURLEncoding.DecodeString(sealed)
	raw[len(raw)-1] ^= 0xff
	_, err = c.Open(base64.RawURLEncoding.EncodeToString(raw))
	assert.Error(t, err)

	_, err = c.Open("short")
	assert.Error(t, err)

	_, err = c.Open("***")
	assert.Error(t, err)

	other, _ := NewSessionCipher(append(make([]byte, 31), 1))
	_, err = other.Open(sealed)
	assert.Error(t, err)
}

func TestNewSessionCipherFromSecret(t *testing.T) {
	_, err := NewSessionCipher(make([]byte, 16))
	assert.Error(t, err)

	_, err = NewSessionCipherFromSecret("")
	assert.Error(t, err)

	secret := base64.StdEncoding.EncodeToString(make([]byte, 32))
	c1, err := NewSessionCipherFromSecret(secret)
	require.NoError(t, err)

	dev, err := NewSessionCipherFromSecret("dev-secret-change-in-production")
	require.NoError(t, err)
	sealed, _ := dev.Seal([]byte("x"))

	// same weak secret derives the same key
	dev2, _ := NewSessionCipherFromSecret("dev-secret-change-in-production")
	opened, err := dev2.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "x", string(opened))

	_, err = c1.Open(sealed)
	assert.Error(t, err)
}
