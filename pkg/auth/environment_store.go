package auth

import (
	"os"
	"time"
)

// EnvironmentStore reads credentials from TAGSCRAPER_LOGIN and
// TAGSCRAPER_API_KEY. It is read-only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment credentials. A non-empty login must
// match TAGSCRAPER_LOGIN.
func (e *EnvironmentStore) Retrieve(login string) (*Account, error) {
	envLogin := os.Getenv("TAGSCRAPER_LOGIN")
	apiKey := os.Getenv("TAGSCRAPER_API_KEY")

	if envLogin == "" || apiKey == "" {
		return nil, ErrCredentialsNotFound
	}
	if login != "" && login != envLogin {
		return nil, ErrCredentialsNotFound
	}

	return &Account{
		Login:        envLogin,
		APIKey:       apiKey,
		LastModified: time.Now(),
	}, nil
}

// List returns a single account if environment variables are set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(login string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(login string) bool {
	_, err := e.Retrieve(login)
	return err == nil
}
