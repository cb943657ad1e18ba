package auth

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tagscraper/pkg/config"
)

func TestCredentialManager(t *testing.T) {
	manager, mockStore := NewMockManager()

	account := &Account{
		Login:  "testuser",
		APIKey: "abcdEFGHijklMNOP1234",
	}

	if err := manager.Store(account); err != nil {
		t.Fatalf("Failed to store account: %v", err)
	}
	if account.LastModified.IsZero() {
		t.Error("Store should set LastModified")
	}

	retrieved, err := manager.Retrieve("testuser")
	if err != nil {
		t.Fatalf("Failed to retrieve account: %v", err)
	}
	if retrieved.Login != account.Login || retrieved.APIKey != account.APIKey {
		t.Errorf("Retrieved account mismatch: %+v", retrieved)
	}

	accounts, err := manager.List()
	if err != nil {
		t.Fatalf("Failed to list accounts: %v", err)
	}
	if len(accounts) != 1 {
		t.Errorf("Expected one account, got %d", len(accounts))
	}

	if err := manager.Delete("testuser"); err != nil {
		t.Errorf("Failed to delete account: %v", err)
	}
	if _, err := manager.Retrieve("testuser"); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("Expected ErrCredentialsNotFound, got %v", err)
	}
	if mockStore.Count() != 0 {
		t.Errorf("Expected 0 accounts after deletion, got %d", mockStore.Count())
	}
}

func TestManagerStoreValidation(t *testing.T) {
	manager, _ := NewMockManager()

	if err := manager.Store(&Account{APIKey: "key"}); err == nil {
		t.Error("Expected error for missing login")
	}
	if err := manager.Store(&Account{Login: "user"}); err == nil {
		t.Error("Expected error for missing API key")
	}
}

func TestManagerFallsBackToNextStore(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = errors.New("keychain locked")
	working := NewMockStore()

	manager := NewManagerWithStores(broken, working)
	if err := manager.Store(&Account{Login: "user", APIKey: "key"}); err != nil {
		t.Fatalf("Expected fallback store to accept credentials: %v", err)
	}
	if !working.Exists("user") {
		t.Error("Expected credentials in the fallback store")
	}
}

func TestSanitizeAccount(t *testing.T) {
	account := &Account{Login: "user", APIKey: "abcdEFGHijklMNOP1234"}
	sanitized := SanitizeAccount(account)

	if sanitized.APIKey != "abcd...1234" {
		t.Errorf("Unexpected masked key %q", sanitized.APIKey)
	}
	if sanitized.Login != "user" {
		t.Error("Login should not be masked")
	}
	if SanitizeAccount(&Account{APIKey: "short"}).APIKey != "********" {
		t.Error("Short keys should be fully masked")
	}
	if SanitizeAccount(nil) != nil {
		t.Error("Expected nil for nil account")
	}
}

func TestEncryptedFileStore(t *testing.T) {
	t.Setenv("TAGSCRAPER_PASSPHRASE", "test_passphrase_123")
	path := filepath.Join(t.TempDir(), "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	if err != nil {
		t.Fatalf("Failed to create encrypted store: %v", err)
	}

	account := &Account{Login: "encrypted_user", APIKey: "encrypted_api_key"}
	if err := store.Store(account); err != nil {
		t.Fatalf("Failed to store in encrypted file: %v", err)
	}

	retrieved, err := store.Retrieve("encrypted_user")
	if err != nil {
		t.Fatalf("Failed to retrieve from encrypted file: %v", err)
	}
	if retrieved.APIKey != account.APIKey {
		t.Errorf("API key mismatch after encryption/decryption")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(content, []byte("encrypted_api_key")) {
		t.Error("File contains plaintext API key")
	}

	// A second store with the same passphrase reads the same file
	reopened, err := NewEncryptedFileStore(path)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	if !reopened.Exists("encrypted_user") {
		t.Error("Expected account to survive reopening")
	}

	if err := store.Delete("encrypted_user"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected file to be removed with the last account")
	}
}

func TestEncryptedFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")

	t.Setenv("TAGSCRAPER_PASSPHRASE", "first")
	store, err := NewEncryptedFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Store(&Account{Login: "user", APIKey: "key"}); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TAGSCRAPER_PASSPHRASE", "second")
	other, err := NewEncryptedFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.Retrieve("user"); err == nil || errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("Expected decryption failure, got %v", err)
	}
}

func TestEncryptedFileStoreGeneratesPassphrase(t *testing.T) {
	t.Setenv("TAGSCRAPER_PASSPHRASE", "")
	dir := t.TempDir()

	if _, err := NewEncryptedFileStore(filepath.Join(dir, "credentials.enc")); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(filepath.Join(dir, passphraseFileName))
	if err != nil {
		t.Fatalf("Expected passphrase file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600 permissions, got %v", info.Mode().Perm())
	}
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv("TAGSCRAPER_LOGIN", "env_user")
	t.Setenv("TAGSCRAPER_API_KEY", "env_key")

	store := NewEnvironmentStore()

	account, err := store.Retrieve("")
	if err != nil {
		t.Fatalf("Failed to retrieve from environment: %v", err)
	}
	if account.Login != "env_user" || account.APIKey != "env_key" {
		t.Errorf("Unexpected account %+v", account)
	}

	if _, err := store.Retrieve("someone_else"); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("Expected mismatch to be not found, got %v", err)
	}
	if err := store.Store(&Account{}); !errors.Is(err, ErrStoreUnavailable) {
		t.Error("Expected ErrStoreUnavailable for environment store")
	}
}

func TestRetrieveDefaultPrefersEnvironment(t *testing.T) {
	t.Setenv("TAGSCRAPER_LOGIN", "env_user")
	t.Setenv("TAGSCRAPER_API_KEY", "env_key")

	stored := NewMockStore()
	stored.Store(&Account{Login: "stored_user", APIKey: "stored_key", LastModified: time.Now()})

	manager := NewManagerWithStores(stored, NewEnvironmentStore())
	account, err := manager.RetrieveDefault()
	if err != nil {
		t.Fatal(err)
	}
	if account.Login != "env_user" {
		t.Errorf("Expected environment account, got %s", account.Login)
	}
}

func TestRetrieveDefaultNewestAccount(t *testing.T) {
	t.Setenv("TAGSCRAPER_LOGIN", "")
	t.Setenv("TAGSCRAPER_API_KEY", "")

	stored := NewMockStore()
	stored.Store(&Account{Login: "old", APIKey: "k1", LastModified: time.Now().Add(-time.Hour)})
	stored.Store(&Account{Login: "new", APIKey: "k2", LastModified: time.Now()})

	manager := NewManagerWithStores(stored, NewEnvironmentStore())
	account, err := manager.RetrieveDefault()
	if err != nil {
		t.Fatal(err)
	}
	if account.Login != "new" {
		t.Errorf("Expected newest account, got %s", account.Login)
	}
}

func TestApplyTo(t *testing.T) {
	t.Setenv("TAGSCRAPER_LOGIN", "")
	t.Setenv("TAGSCRAPER_API_KEY", "")

	manager, store := NewMockManager()
	store.Store(&Account{Login: "user", APIKey: "key"})

	cfg := config.DefaultConfig().Danbooru
	if !manager.ApplyTo(&cfg) {
		t.Fatal("Expected credentials to be applied")
	}
	if cfg.Login != "user" || cfg.APIKey != "key" {
		t.Errorf("Unexpected config %+v", cfg)
	}

	explicit := config.DanbooruConfig{Login: "flag_user", APIKey: "flag_key"}
	if manager.ApplyTo(&explicit) {
		t.Error("Explicit credentials must not be overwritten")
	}
	if explicit.Login != "flag_user" {
		t.Errorf("Login changed to %s", explicit.Login)
	}
}

func TestShowAPIKeyGuide(t *testing.T) {
	var buf bytes.Buffer
	ShowAPIKeyGuide(&buf)
	if !bytes.Contains(buf.Bytes(), []byte("API Key")) {
		t.Error("Expected guide to mention the API key page")
	}
}
