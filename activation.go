package accounts

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// Activator runs the activation flow, the only path that creates durable
// accounts.
type Activator struct {
	directory AccountDirectory
	tokens    *ActivationTokenService
	logger    Logger
}

// NewActivator returns a new Activator
func NewActivator(directory AccountDirectory, tokens *ActivationTokenService) *Activator {
	return &Activator{
		directory: directory,
		tokens:    tokens,
		logger:    defLogger{},
	}
}

func (a *Activator) WithLogger(logger Logger) *Activator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// Activate verifies the activation token, matches the supplied code against
// the embedded one, and creates the account. The embedded email is re-checked
// first so a replayed token is rejected with ErrAccountAlreadyActivated
// instead of duplicating the account. A concurrent duplicate that slips past
// the check is stopped by the store's unique constraints and surfaces as
// ErrDuplicateAccount.
func (a *Activator) Activate(ctx context.Context, activationToken, activationCode string) (*Account, error) {
	claims, err := a.tokens.Verify(activationToken)
	if err != nil {
		return nil, err
	}

	if claims.Code != activationCode {
		return nil, ErrCodeMismatch
	}

	registration := claims.Registration

	existing, err := a.directory.FindByEmail(ctx, registration.Email)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing account")
	}
	if existing != nil {
		return nil, ErrAccountAlreadyActivated
	}

	record := registration.Account()
	record.ID = accountID(registration.Email)

	account, err := a.directory.Create(ctx, record)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create account")
	}

	a.logger.Info("account activated", "email", account.Email, "id", account.ID.String())

	return account, nil
}

// accountID derives a stable UUID from the email so replayed creation
// attempts collide on the primary key as well as the unique columns.
func accountID(email string) uuid.UUID {
	if id, err := hashid.NewUUID(email); err == nil {
		return id
	}
	return uuid.New()
}
