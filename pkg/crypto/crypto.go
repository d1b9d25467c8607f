package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"sync"
)

// Stored secrets carry this prefix so plain legacy values can be told apart.
const sealedPrefix = "enc:v1:"

var (
	mu            sync.RWMutex
	encryptionKey []byte
)

// SetEncryptionKey derives an AES-256 key from secret. An empty secret
// disables encryption.
func SetEncryptionKey(secret string) {
	mu.Lock()
	defer mu.Unlock()
	if secret == "" {
		encryptionKey = nil
		return
	}
	sum := sha256.Sum256([]byte(secret))
	encryptionKey = sum[:]
}

// Enabled reports whether a key is configured.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return len(encryptionKey) > 0
}

func currentGCM() (cipher.AEAD, error) {
	mu.RLock()
	key := encryptionKey
	mu.RUnlock()
	if len(key) == 0 {
		return nil, nil
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plainText with AES-GCM. Without a key the value is returned as is.
func Encrypt(plainText string) (string, error) {
	gcm, err := currentGCM()
	if err != nil || gcm == nil {
		return plainText, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plainText), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt opens a value produced by Encrypt. Values without the sealed prefix
// are returned unchanged.
func Decrypt(value string) (string, error) {
	if len(value) < len(sealedPrefix) || value[:len(sealedPrefix)] != sealedPrefix {
		return value, nil
	}

	gcm, err := currentGCM()
	if err != nil {
		return "", err
	}
	if gcm == nil {
		return "", errors.New("encrypted value found but no encryption key is configured")
	}

	data, err := base64.StdEncoding.DecodeString(value[len(sealedPrefix):])
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
