package dummydb

import (
	"context"

	"github.com/diplomasi/admin/core/auth"
)

type accountRepository struct {
	db *accountTable
}

var _ auth.AccountRepository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *DB) auth.AccountRepository {
	return &accountRepository{db: db.account}
}

func (repo *accountRepository) CreateAccount(_ context.Context, acc auth.Account) (auth.Account, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, a := range repo.db.table {
		if a.Email == acc.Email {
			return auth.Account{}, auth.ErrEmailExists
		}
	}
	acc.PasswordHash = append([]byte(nil), acc.PasswordHash...)
	repo.db.table[acc.ID] = &acc
	return acc, nil
}

func (repo *accountRepository) GetAccountByID(_ context.Context, id string) (auth.Account, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if acc, ok := repo.db.table[id]; ok {
		return *acc, nil
	}
	return auth.Account{}, auth.ErrNotFound
}

func (repo *accountRepository) GetAccountByEmail(_ context.Context, email string) (auth.Account, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, acc := range repo.db.table {
		if acc.Email == email {
			return *acc, nil
		}
	}
	return auth.Account{}, auth.ErrNotFound
}

func (repo *accountRepository) UpdateAccount(_ context.Context, acc auth.Account) (auth.Account, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[acc.ID]; !ok {
		return auth.Account{}, auth.ErrNotFound
	}
	repo.db.table[acc.ID] = &acc
	return acc, nil
}
