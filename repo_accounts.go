package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Accounts is the bun-backed account store. It satisfies AccountDirectory and
// adds transaction-scoped variants for callers holding a bun.Tx.
type Accounts interface {
	AccountDirectory

	FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Account, error)
	FindByPhoneTx(ctx context.Context, tx bun.IDB, phone string) (*Account, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, error)
	ListAllTx(ctx context.Context, tx bun.IDB) ([]*Account, error)
}

type accountsRepo struct {
	repo repository.Repository[*Account]
	db   *bun.DB
}

var (
	_ Accounts         = (*accountsRepo)(nil)
	_ AccountDirectory = (*accountsRepo)(nil)
)

// NewAccountsRepository returns the bun implementation of Accounts
func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &accountsRepo{
		repo: repo,
		db:   db,
	}
}

func (a *accountsRepo) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return a.FindByEmailTx(ctx, a.db, email)
}

func (a *accountsRepo) FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Account, error) {
	return a.findByColumn(ctx, tx, "email", strings.TrimSpace(email))
}

func (a *accountsRepo) FindByPhone(ctx context.Context, phone string) (*Account, error) {
	return a.FindByPhoneTx(ctx, a.db, phone)
}

func (a *accountsRepo) FindByPhoneTx(ctx context.Context, tx bun.IDB, phone string) (*Account, error) {
	return a.findByColumn(ctx, tx, "phone_number", strings.TrimSpace(phone))
}

func (a *accountsRepo) findByColumn(ctx context.Context, tx bun.IDB, column, value string) (*Account, error) {
	record := &Account{}
	err := tx.NewSelect().
		Model(record).
		Where(fmt.Sprintf("?TableAlias.%s = ?", column), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "account lookup failed")
	}

	return record, nil
}

func (a *accountsRepo) Create(ctx context.Context, record *Account) (*Account, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *accountsRepo) CreateTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, error) {
	created, err := a.repo.CreateTx(ctx, tx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateAccount
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create account")
	}
	return created, nil
}

func (a *accountsRepo) ListAll(ctx context.Context) ([]*Account, error) {
	return a.ListAllTx(ctx, a.db)
}

func (a *accountsRepo) ListAllTx(ctx context.Context, tx bun.IDB) ([]*Account, error) {
	var records []*Account
	err := tx.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "account list failed")
	}

	return records, nil
}

// isUniqueViolation matches the constraint errors of the dialects we run
// against (sqlite and postgres).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "constraint failed")
}
