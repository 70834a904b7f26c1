// Package cryptox seals small secrets (session credentials) at rest.
//
// Keys are derived with argon2id from a secret and a per-installation salt;
// values are sealed with AES-256-GCM and stored as nonce||ciphertext.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the length of keys returned by DeriveKey (AES-256).
const KeySize = 32

// SaltSize is the recommended salt length for DeriveKey.
const SaltSize = 16

// ErrCiphertextTooShort is returned by Open when the blob cannot hold a nonce.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// DeriveKey stretches secret with salt into a KeySize-byte AES key.
func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

// Seal encrypts plaintext with key and returns nonce||ciphertext.
// A fresh random nonce is used for every call.
func Seal(plaintext, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aead.NonceSize())
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. It fails if key is wrong or the blob was tampered with.
func Open(blob, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ns := aead.NonceSize()
	if len(blob) < ns {
		return nil, ErrCiphertextTooShort
	}

	return aead.Open(nil, blob[:ns], blob[ns:], nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
