package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Secrets file parameters.
const (
	saltSize = 16
	scryptN  = 32768 // 2^15
	scryptR  = 8
	scryptP  = 1
	keySize  = 32 // AES-256
)

// APIKeyFromEnv returns the conventional environment variable for a
// transport's API key, e.g. OPENAI_API_KEY.
func APIKeyFromEnv(transport string) string {
	return os.Getenv(strings.ToUpper(transport) + "_API_KEY")
}

// deriveKey stretches a password into an AES-256 key.
func deriveKey(password string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("key derivation failed: %w", err)
	}
	return key, nil
}

// SaveSecrets encrypts the provider-to-key map to path with a password.
// Layout: salt || nonce || AES-GCM ciphertext of the JSON encoding.
func SaveSecrets(path, password string, secrets map[string]string) error {
	plaintext, err := json.Marshal(secrets)
	if err != nil {
		return fmt.Errorf("failed to encode secrets: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := deriveKey(password, salt)
	if err != nil {
		return err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	blob := make([]byte, 0, len(salt)+len(nonce)+len(ciphertext))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)

	if err := os.WriteFile(path, blob, 0o600); err != nil {
		return fmt.Errorf("failed to write secrets file: %w", err)
	}
	return nil
}

// LoadSecrets decrypts the secrets file written by SaveSecrets.
func LoadSecrets(path, password string) (map[string]string, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets file: %w", err)
	}
	if len(blob) < saltSize {
		return nil, fmt.Errorf("secrets file too short")
	}

	salt := blob[:saltSize]
	key, err := deriveKey(password, salt)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	rest := blob[saltSize:]
	if len(rest) < gcm.NonceSize() {
		return nil, fmt.Errorf("secrets file too short")
	}
	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt secrets (wrong password?): %w", err)
	}

	var secrets map[string]string
	if err := json.Unmarshal(plaintext, &secrets); err != nil {
		return nil, fmt.Errorf("failed to decode secrets: %w", err)
	}
	return secrets, nil
}

// ResolveAPIKey finds the API key for a transport: environment first, then
// the encrypted secrets file when path and password are provided.
func ResolveAPIKey(transport, secretsPath, password string) (string, error) {
	if key := APIKeyFromEnv(transport); key != "" {
		return key, nil
	}
	if secretsPath == "" {
		return "", fmt.Errorf("no API key for %s: set %s_API_KEY or provide a secrets file",
			transport, strings.ToUpper(transport))
	}

	secrets, err := LoadSecrets(secretsPath, password)
	if err != nil {
		return "", err
	}
	key, ok := secrets[transport]
	if !ok || key == "" {
		return "", fmt.Errorf("secrets file has no key for %s", transport)
	}
	return key, nil
}
