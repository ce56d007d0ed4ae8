package services

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"
)

// SessionCipher seals session cookie values with XChaCha20-Poly1305
type SessionCipher struct {
	aead cipher.AEAD
}

// NewSessionCipher creates a cipher from a 32-byte key
func NewSessionCipher(key []byte) (*SessionCipher, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &SessionCipher{aead: aead}, nil
}

// NewSessionCipherFromSecret uses a base64 secret of KeySize bytes as the key.
// Any other secret is hashed into a key; production configs never reach that branch.
func NewSessionCipherFromSecret(secret string) (*SessionCipher, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil || len(key) != chacha20poly1305.KeySize {
		log.Println("[WARNING] SESSION_SECRET is not a base64 encoded 32-byte key; deriving one from it")
		sum := blake2b.Sum256([]byte(secret))
		key = sum[:]
	}
	return NewSessionCipher(key)
}

// Seal encrypts plaintext under a fresh nonce and encodes it for a cookie
func (c *SessionCipher) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(c.aead.Seal(nonce, nonce, plaintext, nil)), nil
}

// Open decodes and decrypts a value produced by Seal
func (c *SessionCipher) Open(sealed string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return nil, err
	}
	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	return c.aead.Open(nil, nonce, ciphertext, nil)
}
