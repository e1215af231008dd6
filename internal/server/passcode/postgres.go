package passcode

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophgate/internal/common"
	"github.com/dmitrijs2005/gophgate/internal/server/repositories/settings"
)

// SettingsKey is the settings row the passcode is stored under.
const SettingsKey = "passcode"

// SettingsStore keeps the passcode in the settings table.
type SettingsStore struct {
	repo settings.Repository
}

func NewSettingsStore(repo settings.Repository) *SettingsStore {
	return &SettingsStore{repo: repo}
}

// Load treats a blank stored value as absent, like S3Store does.
func (s *SettingsStore) Load(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, SettingsKey)
	if err != nil {
		return "", err
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", common.ErrorNotFound
	}
	return v, nil
}

func (s *SettingsStore) Save(ctx context.Context, value string) error {
	return s.repo.Set(ctx, SettingsKey, value)
}
