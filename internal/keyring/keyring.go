// Package keyring keeps secrets, such as a PostgreSQL connection string, in
// the OS credential store instead of the settings file.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/orowoletimothy/vane/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored for the account.
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Entry is one secret in the OS keyring under the vane service name.
type Entry struct {
	account string
}

// Connection is the entry holding the database connection string.
var Connection = Entry{account: constants.DefaultKeyringUser}

// NewEntry returns the entry for account.
func NewEntry(account string) Entry {
	return Entry{account: account}
}

func (e Entry) Account() string {
	return e.account
}

func (e Entry) Get() (string, error) {
	secret, err := keyring.Get(constants.AppName, e.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func (e Entry) Set(secret string) error {
	if strings.TrimSpace(secret) == "" {
		return errors.New("secret cannot be empty")
	}
	if err := keyring.Set(constants.AppName, e.account, secret); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func (e Entry) Delete() error {
	if err := keyring.Delete(constants.AppName, e.account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable reports whether a keyring read succeeds. ErrNotFound still means
// the keyring itself is reachable.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
