// Package vault seals and opens secret values for storage at rest.
//
// Sealed values are self-contained: a fresh argon2id salt and XChaCha20-
// Poly1305 nonce are generated per seal and stored alongside the
// ciphertext as salt‖nonce‖ciphertext.
package vault

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const saltSize = 16

// argon2id parameters per the RFC 9106 recommended "low-memory" profile.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
	keySize      = chacha20poly1305.KeySize
)

// ErrSealedTooShort is returned when a sealed value is too short to
// contain a salt, nonce and ciphertext.
var ErrSealedTooShort = errors.New("vault: sealed value too short")

// ErrDecryptFailed is returned when decryption fails, typically because
// the passphrase is wrong or the value was tampered with.
var ErrDecryptFailed = errors.New("vault: decryption failed")

// Vault derives per-value keys from a master passphrase.
type Vault struct {
	passphrase []byte
}

// New creates a vault over the given master passphrase.
func New(passphrase string) *Vault {
	return &Vault{passphrase: []byte(passphrase)}
}

// Seal encrypts plaintext into a self-contained sealed value.
func (v *Vault) Seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("vault: generate salt: %w", err)
	}

	aead, err := v.newAEAD(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("vault: generate nonce: %w", err)
	}

	sealed := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+aead.Overhead())
	sealed = append(sealed, salt...)
	sealed = append(sealed, nonce...)
	sealed = aead.Seal(sealed, nonce, plaintext, nil)
	return sealed, nil
}

// Open decrypts a sealed value produced by Seal.
func (v *Vault) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < saltSize+chacha20poly1305.NonceSizeX {
		return nil, ErrSealedTooShort
	}

	salt := sealed[:saltSize]
	nonce := sealed[saltSize : saltSize+chacha20poly1305.NonceSizeX]
	ciphertext := sealed[saltSize+chacha20poly1305.NonceSizeX:]

	aead, err := v.newAEAD(salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}

func (v *Vault) newAEAD(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(v.passphrase, salt, argonTime, argonMemory, argonThreads, keySize)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("vault: init cipher: %w", err)
	}
	return aead, nil
}
