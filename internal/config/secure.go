// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/zalando/go-keyring"

	perrors "github.com/propdash/propdash-cli/internal/errors"
)

const (
	keyringService = "propdash-cli"
	keyringAccount = "session-token"
	tokenFileName  = ".token.enc"
)

// Token lookup order:
// 1. PROPDASH_TOKEN
// 2. System keyring, only where one is reliably present
// 3. AES-256-GCM encrypted file in the config directory

// TokenSource says where a token was found
type TokenSource string

const (
	SourceEnvironment   TokenSource = "environment"
	SourceKeyring       TokenSource = "system_keyring"
	SourceEncryptedFile TokenSource = "encrypted_file"
	SourceNone          TokenSource = "not_found"
)

// StorageInfo describes the token's current storage location
type StorageInfo struct {
	Source      TokenSource `json:"source"`
	Secure      bool        `json:"secure"`
	Location    string      `json:"location,omitempty"`
	KeyringType string      `json:"keyringType,omitempty"`
}

// TokenStore keeps the dashboard session token
type TokenStore struct {
	useKeyring bool
	configDir  string
}

// NewTokenStore uses the default config directory and detects keyring support
func NewTokenStore() *TokenStore {
	dir, err := ConfigDir()
	if err != nil {
		dir = configDirName
	}
	return &TokenStore{
		useKeyring: isKeyringAvailable(),
		configDir:  dir,
	}
}

// NewFileTokenStore stores tokens only in dir's encrypted file
func NewFileTokenStore(dir string) *TokenStore {
	return &TokenStore{configDir: dir}
}

// NewKeyringTokenStore prefers the keyring and falls back to dir
func NewKeyringTokenStore(dir string) *TokenStore {
	return &TokenStore{useKeyring: true, configDir: dir}
}

func (s *TokenStore) tokenFile() string {
	return filepath.Join(s.configDir, tokenFileName)
}

// SaveToken stores token in the keyring, or the encrypted file if the keyring fails
func (s *TokenStore) SaveToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if s.useKeyring {
		if err := keyring.Set(keyringService, keyringAccount, token); err == nil {
			_ = os.Remove(s.tokenFile())
			return nil
		}
	}

	return s.saveEncryptedToken(token)
}

// GetToken returns the stored token or errors.ErrNoAuthToken
func (s *TokenStore) GetToken() (string, error) {
	if envToken := strings.TrimSpace(os.Getenv(EnvToken)); envToken != "" {
		return envToken, nil
	}

	if s.useKeyring {
		token, err := keyring.Get(keyringService, keyringAccount)
		if err == nil && token != "" {
			return token, nil
		}
	}

	token, err := s.getEncryptedToken()
	if err != nil {
		return "", err
	}
	if token != "" {
		return token, nil
	}

	return "", perrors.ErrNoAuthToken
}

// DeleteToken removes the token from every location it may be stored in
func (s *TokenStore) DeleteToken() error {
	var failures []string
	var removedAny bool

	if s.useKeyring {
		if err := keyring.Delete(keyringService, keyringAccount); err != nil {
			if !errors.Is(err, keyring.ErrNotFound) && !isKeyringServiceError(err) {
				failures = append(failures, fmt.Sprintf("keyring: %v", err))
			}
		} else {
			removedAny = true
		}
	}

	if err := os.Remove(s.tokenFile()); err != nil {
		if !os.IsNotExist(err) {
			failures = append(failures, fmt.Sprintf("encrypted file: %v", err))
		}
	} else {
		removedAny = true
	}

	if len(failures) > 0 && !removedAny {
		return fmt.Errorf("failed to remove token: %s", failures[0])
	}
	return nil
}

// Info reports where the token currently lives without revealing it
func (s *TokenStore) Info() StorageInfo {
	if os.Getenv(EnvToken) != "" {
		return StorageInfo{Source: SourceEnvironment, Secure: true}
	}

	if s.useKeyring {
		if _, err := keyring.Get(keyringService, keyringAccount); err == nil {
			return StorageInfo{Source: SourceKeyring, Secure: true, KeyringType: keyringType()}
		}
	}

	if _, err := os.Stat(s.tokenFile()); err == nil {
		return StorageInfo{Source: SourceEncryptedFile, Secure: true, Location: s.tokenFile()}
	}

	return StorageInfo{Source: SourceNone}
}

func isKeyringServiceError(err error) bool {
	if err == nil {
		return false
	}
	switch err.Error() {
	case "The name is not activatable",
		"Cannot autolaunch D-Bus without X11 $DISPLAY",
		"The name org.freedesktop.secrets was not provided by any .service files":
		return true
	}
	return false
}

func (s *TokenStore) saveEncryptedToken(token string) error {
	if err := os.MkdirAll(s.configDir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	encrypted, err := encrypt([]byte(token), encryptionKey())
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	if err := os.WriteFile(s.tokenFile(), []byte(encrypted), 0o600); err != nil {
		return fmt.Errorf("failed to save encrypted token: %w", err)
	}
	return nil
}

// getEncryptedToken returns "" without error when no file exists
func (s *TokenStore) getEncryptedToken() (string, error) {
	data, err := os.ReadFile(s.tokenFile())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read encrypted token: %w", err)
	}

	decrypted, err := decrypt(string(data), encryptionKey())
	if err != nil {
		return "", fmt.Errorf("failed to decrypt token (was it written on another machine?): %w", err)
	}
	return string(decrypted), nil
}

// encryptionKey derives a machine and user specific key
func encryptionKey() []byte {
	var parts []string

	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		parts = append(parts, hostname)
	}
	if username := os.Getenv("USER"); username != "" {
		parts = append(parts, username)
	} else if username := os.Getenv("USERNAME"); username != "" {
		parts = append(parts, username)
	}
	if home, err := os.UserHomeDir(); err == nil {
		parts = append(parts, home)
	}
	if runtime.GOOS == "linux" {
		if machineID, err := os.ReadFile("/etc/machine-id"); err == nil {
			parts = append(parts, strings.TrimSpace(string(machineID)))
		} else if machineID, err := os.ReadFile("/var/lib/dbus/machine-id"); err == nil {
			parts = append(parts, strings.TrimSpace(string(machineID)))
		}
	}
	parts = append(parts, "propdash-cli-token-v1")

	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hash[:]
}

// isKeyringAvailable is false on headless Linux, where desktop keyrings are unreliable
func isKeyringAvailable() bool {
	switch runtime.GOOS {
	case "darwin", "windows":
		return true
	case "linux":
		if os.Getenv("SSH_CONNECTION") != "" || os.Getenv("CONTAINER") != "" {
			return false
		}
		if _, err := os.Stat("/.dockerenv"); err == nil {
			return false
		}
		if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
			return false
		}

		hasDesktop := os.Getenv("DESKTOP_SESSION") != "" ||
			os.Getenv("GNOME_DESKTOP_SESSION_ID") != "" ||
			os.Getenv("KDE_FULL_SESSION") != "" ||
			os.Getenv("XDG_CURRENT_DESKTOP") != ""
		hasDisplay := os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""

		return hasDesktop && hasDisplay
	default:
		return false
	}
}

func encrypt(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, data, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func decrypt(encrypted string, key []byte) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encrypted))
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func keyringType() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS Keychain"
	case "windows":
		return "Windows Credential Manager"
	case "linux":
		if os.Getenv("GNOME_DESKTOP_SESSION_ID") != "" {
			return "GNOME Keyring"
		}
		if os.Getenv("KDE_FULL_SESSION") != "" {
			return "KWallet"
		}
		return "Linux Secret Service"
	default:
		return "Unknown"
	}
}

// LoadWithToken loads the config and fills Token from store
func LoadWithToken(store *TokenStore) (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if token, err := store.GetToken(); err == nil {
		cfg.Token = token
	} else if !perrors.IsNoAuthToken(err) {
		return nil, err
	}
	return cfg, nil
}
