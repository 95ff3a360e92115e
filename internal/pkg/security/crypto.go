// Package security seals crash reports with a passphrase.
//
// A sealed payload is Magic, a random salt and a GCM nonce followed by the
// ciphertext. The key is derived from the passphrase and salt with
// Argon2id, and the header is authenticated as additional data.
package security

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Magic prefixes every sealed payload.
var Magic = []byte("PLSEAL1")

const (
	saltLen = 16
	keyLen  = 32
)

// Argon2id cost. Changing these makes existing sealed files unreadable.
const (
	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
)

var (
	ErrNotSealed  = errors.New("data is not sealed")
	ErrPassphrase = errors.New("passphrase is empty")
	ErrTruncated  = errors.New("sealed data is truncated")
)

// IsSealed reports whether data carries the sealed header.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, Magic)
}

// Seal encrypts plaintext under passphrase.
func Seal(plaintext []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrPassphrase
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("salt: %w", err)
	}
	aead, err := keyed(passphrase, salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	header := bytes.Join([][]byte{Magic, salt, nonce}, nil)
	return aead.Seal(header, nonce, plaintext, header), nil
}

// Open reverses Seal. A wrong passphrase and tampered data fail alike.
func Open(data []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrPassphrase
	}
	if !IsSealed(data) {
		return nil, ErrNotSealed
	}

	rest := data[len(Magic):]
	if len(rest) < saltLen {
		return nil, ErrTruncated
	}
	aead, err := keyed(passphrase, rest[:saltLen])
	if err != nil {
		return nil, err
	}

	headerLen := len(Magic) + saltLen + aead.NonceSize()
	if len(data) < headerLen+aead.Overhead() {
		return nil, ErrTruncated
	}
	header := data[:headerLen]
	nonce := header[len(Magic)+saltLen:]

	plain, err := aead.Open(nil, nonce, data[headerLen:], header)
	if err != nil {
		return nil, fmt.Errorf("open sealed data: %w", err)
	}
	return plain, nil
}

func keyed(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(passphrase), salt, kdfTime, kdfMemory, kdfThreads, keyLen)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
