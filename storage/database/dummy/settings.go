package dummydb

import (
	"context"

	"github.com/diplomasi/admin/core/platform"
)

type settingsRepository struct {
	db *settingsTable
}

var _ platform.Repository = (*settingsRepository)(nil) // interface compliance check

func NewSettingsRepository(db *DB) platform.Repository {
	return &settingsRepository{db: db.settings}
}

func (repo *settingsRepository) GetSettings(_ context.Context) (platform.Settings, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.settings, nil
}

func (repo *settingsRepository) SaveSettings(_ context.Context, s platform.Settings) (platform.Settings, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.settings = s
	return s, nil
}
