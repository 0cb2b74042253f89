package accounts_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestActivator_Activate(t *testing.T) {
	cfg := testConfig()
	tokens := accounts.NewActivationTokenService([]byte(cfg.GetActivationSecret()), cfg.GetIssuer(), nil, nil)

	register := func(t *testing.T, directory accounts.AccountDirectory) (token, code string) {
		t.Helper()

		notifier := &MockNotifier{}
		notifier.On("SendActivationEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				code = args.String(3)
			}).
			Return(nil)

		registrar := accounts.NewRegistrar(directory, notifier, tokens)
		receipt, err := registrar.Register(context.Background(), validRegisterInput())
		assert.NoError(t, err)

		return receipt.ActivationToken, code
	}

	t.Run("register then activate creates exactly one account", func(t *testing.T) {
		directory := newMemoryDirectory()
		activator := accounts.NewActivator(directory, tokens)

		token, code := register(t, directory)

		// wrong code first: token stays valid, nothing is created
		_, err := activator.Activate(context.Background(), token, "0000")
		assert.ErrorIs(t, err, accounts.ErrCodeMismatch)

		account, err := activator.Activate(context.Background(), token, code)
		assert.NoError(t, err)
		assert.Equal(t, "Ana", account.Name)
		assert.Equal(t, "ana@example.com", account.Email)
		assert.Equal(t, "+14155552671", account.PhoneNumber)
		assert.NotEqual(t, "password1", account.PasswordHash)
		assert.NoError(t, accounts.ComparePasswordAndHash("password1", account.PasswordHash))

		// replaying the consumed token must not duplicate the account
		_, err = activator.Activate(context.Background(), token, code)
		assert.ErrorIs(t, err, accounts.ErrAccountAlreadyActivated)

		all, err := directory.ListAll(context.Background())
		assert.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("wrong code fails regardless of how often it is tried", func(t *testing.T) {
		directory := newMemoryDirectory()
		activator := accounts.NewActivator(directory, tokens)

		token, code := register(t, directory)

		for _, wrong := range []string{"0000", "9999", "", code + "5"} {
			_, err := activator.Activate(context.Background(), token, wrong)
			assert.ErrorIs(t, err, accounts.ErrCodeMismatch)
		}

		all, err := directory.ListAll(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("expired token fails even with the correct code", func(t *testing.T) {
		directory := newMemoryDirectory()
		activator := accounts.NewActivator(directory, tokens)

		expired := signActivationToken(
			t,
			[]byte(cfg.GetActivationSecret()),
			testRegistration(),
			"4312",
			time.Now().Add(-time.Second),
		)

		_, err := activator.Activate(context.Background(), expired, "4312")
		assert.ErrorIs(t, err, accounts.ErrTokenExpired)
	})

	t.Run("tampered token never touches storage", func(t *testing.T) {
		directory := newMemoryDirectory()
		activator := accounts.NewActivator(directory, tokens)

		token, code := register(t, directory)

		_, err := activator.Activate(context.Background(), token+"x", code)
		assert.Error(t, err)
		assert.True(t, accounts.IsMalformedError(err))

		all, err := directory.ListAll(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("storage conflict on create surfaces as a duplicate", func(t *testing.T) {
		directory := newMemoryDirectory()
		activator := accounts.NewActivator(directory, tokens)

		token, code := register(t, directory)

		// another activation grabbed the phone number between our email
		// re-check and the insert
		_, err := directory.Create(context.Background(), &accounts.Account{
			ID:          activatedAccount(t).ID,
			Name:        "Bea",
			Email:       "bea@example.com",
			PhoneNumber: "+14155552671",
		})
		assert.NoError(t, err)

		_, err = activator.Activate(context.Background(), token, code)
		assert.ErrorIs(t, err, accounts.ErrDuplicateAccount)
	})
}
