// Package secrets provides AES-256-GCM encryption/decryption for per-company
// third-party credentials. Credentials are opaque ciphertext at rest and are
// decrypted only transiently in-process.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// Store encrypts and decrypts credential strings with a process-wide key.
type Store struct {
	key []byte
}

// NewStore derives a 32-byte key from the configured secret.
// An empty secret is rejected: the store must never silently run unkeyed.
func NewStore(secret string) (*Store, error) {
	if secret == "" {
		return nil, errors.New("credential secret key is required")
	}
	sum := sha256.Sum256([]byte(secret))
	return &Store{key: sum[:]}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM.
// Returns the hex-encoded nonce+ciphertext.
func (s *Store) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create GCM: %w", err)
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := aesGCM.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(ciphertext), nil
}

// Decrypt decrypts a hex-encoded nonce+ciphertext produced by Encrypt.
func (s *Store) Decrypt(encrypted string) (string, error) {
	data, err := hex.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("hex decode: %w", err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create GCM: %w", err)
	}

	nonceSize := aesGCM.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}

	return string(plaintext), nil
}

// EncryptOptional encrypts a nullable credential. A nil or empty value stays nil.
func (s *Store) EncryptOptional(plaintext *string) (*string, error) {
	if plaintext == nil || *plaintext == "" {
		return nil, nil
	}
	encrypted, err := s.Encrypt(*plaintext)
	if err != nil {
		return nil, err
	}
	return &encrypted, nil
}

// DecryptOptional decrypts a nullable credential. A nil value stays nil.
// A ciphertext that fails to decrypt also yields nil so a rotated or corrupt
// key degrades to "credential not configured" rather than an error; the caller
// decides whether that is worth a warning.
func (s *Store) DecryptOptional(encrypted *string) *string {
	if encrypted == nil || *encrypted == "" {
		return nil
	}
	plaintext, err := s.Decrypt(*encrypted)
	if err != nil {
		return nil
	}
	return &plaintext
}
