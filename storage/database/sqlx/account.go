package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/diplomasi/admin/core/auth"
)

const (
	accountColumns = `id, name, email, theme, password_hash, created_at, updated_at, last_login`

	insertAccount = `INSERT INTO accounts (` + accountColumns + `)
		VALUES (:id, :name, :email, :theme, :password_hash, :created_at, :updated_at, :last_login)`
	updateAccount = `UPDATE accounts SET name = :name, email = :email, theme = :theme,
		password_hash = :password_hash, updated_at = :updated_at, last_login = :last_login
		WHERE id = :id`
	selectAccountByID    = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	selectAccountByEmail = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	uniqueViolation = "23505"
)

type accountRow struct {
	ID           string       `db:"id"`
	Name         string       `db:"name"`
	Email        string       `db:"email"`
	Theme        string       `db:"theme"`
	PasswordHash []byte       `db:"password_hash"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
	LastLogin    sql.NullTime `db:"last_login"`
}

func newAccountRow(acc auth.Account) accountRow {
	return accountRow{
		ID:           acc.ID,
		Name:         acc.Name,
		Email:        acc.Email,
		Theme:        acc.Theme,
		PasswordHash: acc.PasswordHash,
		CreatedAt:    acc.CreatedAt,
		UpdatedAt:    acc.UpdatedAt,
		LastLogin:    sql.NullTime{Time: acc.LastLogin, Valid: !acc.LastLogin.IsZero()},
	}
}

func (row accountRow) account() auth.Account {
	acc := auth.Account{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Theme:        row.Theme,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
	if row.LastLogin.Valid {
		acc.LastLogin = row.LastLogin.Time.UTC()
	}
	return acc
}

type accountRepository struct {
	db *sqlx.DB
}

var _ auth.AccountRepository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *sqlx.DB) auth.AccountRepository {
	return &accountRepository{db: db}
}

func isUniqueViolation(err error) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == uniqueViolation
}

func (repo *accountRepository) CreateAccount(ctx context.Context, acc auth.Account) (auth.Account, error) {
	if _, err := repo.db.NamedExecContext(ctx, insertAccount, newAccountRow(acc)); err != nil {
		if isUniqueViolation(err) {
			return auth.Account{}, auth.ErrEmailExists
		}
		return auth.Account{}, errors.Wrap(err, "inserting account")
	}
	return acc, nil
}

func (repo *accountRepository) get(ctx context.Context, query, arg string) (auth.Account, error) {
	var row accountRow
	if err := repo.db.GetContext(ctx, &row, query, arg); err != nil {
		if err == sql.ErrNoRows {
			return auth.Account{}, auth.ErrNotFound
		}
		return auth.Account{}, errors.Wrap(err, "selecting account")
	}
	return row.account(), nil
}

func (repo *accountRepository) GetAccountByID(ctx context.Context, id string) (auth.Account, error) {
	return repo.get(ctx, selectAccountByID, id)
}

func (repo *accountRepository) GetAccountByEmail(ctx context.Context, email string) (auth.Account, error) {
	return repo.get(ctx, selectAccountByEmail, email)
}

func (repo *accountRepository) UpdateAccount(ctx context.Context, acc auth.Account) (auth.Account, error) {
	res, err := repo.db.NamedExecContext(ctx, updateAccount, newAccountRow(acc))
	if err != nil {
		if isUniqueViolation(err) {
			return auth.Account{}, auth.ErrEmailExists
		}
		return auth.Account{}, errors.Wrap(err, "updating account")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return auth.Account{}, auth.ErrNotFound
	}
	return acc, nil
}
