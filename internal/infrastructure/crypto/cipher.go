package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters, fixed so existing ciphertext stays readable
const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	keyLength    = 32
	keySaltBytes = 16
)

// AESCipher seals and opens strings with AES-256-GCM. The key is derived
// from the configured secret with scrypt; the per-installation salt is
// stored alongside the secret in configuration.
type AESCipher struct {
	aead cipher.AEAD
}

// NewAESCipher derives a key from the secret and salt and returns a cipher
func NewAESCipher(secret, salt string) (*AESCipher, error) {
	if secret == "" {
		return nil, fmt.Errorf("cipher secret cannot be empty")
	}
	if len(salt) < keySaltBytes {
		return nil, fmt.Errorf("cipher salt must be at least %d bytes", keySaltBytes)
	}

	key, err := scrypt.Key([]byte(secret), []byte(salt), scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}

	return &AESCipher{aead: aead}, nil
}

// Encrypt seals plaintext and returns base64(nonce || ciphertext)
func (c *AESCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens base64(nonce || ciphertext) back into plaintext
func (c *AESCipher) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}
	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}
