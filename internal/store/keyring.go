package store

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-hijri/internal/config"
	"github.com/zalando/go-keyring"
)

// SavePassword stores the CardDAV password of user in the OS keyring.
func SavePassword(user, password string) error {
	if user == "" {
		return errors.New(config.ErrUserEmpty)
	}
	if err := keyring.Set(config.KeyringService, user, password); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringSet, err)
	}
	return nil
}

// LoadPassword returns the password of user, or "" when none is stored.
func LoadPassword(user string) (string, error) {
	if user == "" {
		return "", nil
	}
	p, err := keyring.Get(config.KeyringService, user)
	if errors.Is(err, keyring.ErrNotFound) {
		slog.Debug(config.MsgPassFail,
			config.LogKeyUser, user,
			config.LogKeyError, err,
			config.LogKeyComponent, config.CompStore)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrKeyringGet, err)
	}
	return p, nil
}

// DeletePassword forgets the password of user. A missing entry is not an error.
func DeletePassword(user string) error {
	err := keyring.Delete(config.KeyringService, user)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%s: %w", config.ErrKeyringDelete, err)
	}
	return nil
}
