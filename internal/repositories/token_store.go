package repositories

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/wandrix/internal/shared"
)

// TokenStoreAdapter exposes one settings key as the auth token slot.
//
// It satisfies services.TokenSource and session.TokenStore. Read failures other than a missing key
// are logged and reported as "no token".
type TokenStoreAdapter struct {
	repo   *SettingRepository
	key    string
	logger *log.Logger
}

// NewTokenStoreAdapter creates a new TokenStoreAdapter keyed by [TokenKey].
func NewTokenStoreAdapter(repo *SettingRepository, logger *log.Logger) *TokenStoreAdapter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &TokenStoreAdapter{repo: repo, key: TokenKey, logger: logger}
}

// Token returns the stored token and whether one is present.
func (a *TokenStoreAdapter) Token() (string, bool) {
	token, err := a.repo.Get(a.key)
	if err != nil {
		if !errors.Is(err, shared.ErrSettingNotFound) {
			a.logger.Warn("failed to read token", "error", err)
		}
		return "", false
	}
	return token, token != ""
}

// SaveToken persists token, replacing any previous one.
func (a *TokenStoreAdapter) SaveToken(token string) error {
	return a.repo.Set(a.key, token)
}

// DeleteToken clears the slot.
func (a *TokenStoreAdapter) DeleteToken() error {
	return a.repo.Delete(a.key)
}
