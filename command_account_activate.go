package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type ActivateAccountMessage struct {
	ActivationToken string `json:"activation_token" doc:"Signed token returned by registration."`
	ActivationCode  string `json:"activation_code" example:"4312" doc:"4-digit code delivered by email."`
	OnResponse      func(resp *ActivateAccountResponse)
}

func (e ActivateAccountMessage) Type() string { return "account.activate" }

type ActivateAccountResponse struct {
	Account   *Account `json:"account" doc:"The activated account."`
	Activated bool     `json:"activated" example:"true" doc:"Did activation create the account?"`
	Errors    []string `json:"errors" example:"['invalid activation code']" doc:"Error messages."`
}

// ActivateAccountHandler runs the activation flow inside a single transaction
// so the replay check and the insert see the same storage state.
type ActivateAccountHandler struct {
	repo   RepositoryManager
	tokens *ActivationTokenService
}

func NewActivateAccountHandler(repo RepositoryManager, tokens *ActivationTokenService) *ActivateAccountHandler {
	return &ActivateAccountHandler{
		repo:   repo,
		tokens: tokens,
	}
}

func (h *ActivateAccountHandler) Execute(ctx context.Context, event ActivateAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account activation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ActivateAccountHandler) execute(ctx context.Context, event ActivateAccountMessage) error {
	resp := &ActivateAccountResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		activator := NewActivator(txDirectory{accounts: h.repo.Accounts(), tx: tx}, h.tokens)

		account, err := activator.Activate(ctx, event.ActivationToken, event.ActivationCode)
		if err != nil {
			if IsValidationError(err) {
				resp.Errors = append(resp.Errors, err.Error())
				return nil
			}
			return err
		}

		resp.Account = account
		resp.Activated = true
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to execute account activation")
	}

	event.OnResponse(resp)

	return nil
}

// txDirectory binds the Accounts repository to an open transaction so the
// activation flow's lookups and insert share one consistent view.
type txDirectory struct {
	accounts Accounts
	tx       bun.Tx
}

var _ AccountDirectory = txDirectory{}

func (d txDirectory) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return d.accounts.FindByEmailTx(ctx, d.tx, email)
}

func (d txDirectory) FindByPhone(ctx context.Context, phone string) (*Account, error) {
	return d.accounts.FindByPhoneTx(ctx, d.tx, phone)
}

func (d txDirectory) Create(ctx context.Context, record *Account) (*Account, error) {
	return d.accounts.CreateTx(ctx, d.tx, record)
}

func (d txDirectory) ListAll(ctx context.Context) ([]*Account, error) {
	return d.accounts.ListAllTx(ctx, d.tx)
}
