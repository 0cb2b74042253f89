package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// LoginResult carries the authenticated account and its session credential.
type LoginResult struct {
	Account    *Account           `json:"account"`
	Credential *SessionCredential `json:"credential"`
}

// LogoutAck acknowledges a logout. Sessions are stateless: there is no
// server-side record to invalidate, the caller discards its tokens and they
// die by expiry.
type LogoutAck struct {
	Acknowledged bool      `json:"acknowledged"`
	LoggedOutAt  time.Time `json:"logged_out_at"`
}

// Authenticator runs login, logout, and session refresh against the account
// directory.
type Authenticator struct {
	directory AccountDirectory
	sessions  *SessionTokenService
	passwords PasswordAuthenticator
	logger    Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(directory AccountDirectory, sessions *SessionTokenService) *Authenticator {
	return &Authenticator{
		directory: directory,
		sessions:  sessions,
		passwords: bcryptAuthenticator{},
		logger:    defLogger{},
	}
}

func (s *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithPasswordAuthenticator overrides the password verifier.
func (s *Authenticator) WithPasswordAuthenticator(passwords PasswordAuthenticator) *Authenticator {
	if passwords != nil {
		s.passwords = passwords
	}
	return s
}

// Login verifies the credentials and issues an access/refresh pair. An
// unknown email and a wrong password both fail with
// ErrMismatchedHashAndPassword so the response shape never reveals whether
// the account exists.
func (s *Authenticator) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account during login")
	}

	if account == nil {
		return nil, ErrMismatchedHashAndPassword
	}

	if err := s.passwords.ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	credential, err := s.sessions.IssuePair(account)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Account:    account,
		Credential: credential,
	}, nil
}

// Refresh verifies a refresh token and mints a fresh access/refresh pair for
// the account it is bound to. A refresh token for an account that no longer
// exists fails the same way as bad credentials.
func (s *Authenticator) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.sessions.Verify(refreshToken, TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	account, err := s.directory.FindByEmail(ctx, claims.Email)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account during refresh")
	}

	if account == nil || account.ID.String() != claims.UID {
		return nil, ErrMismatchedHashAndPassword
	}

	credential, err := s.sessions.IssuePair(account)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Account:    account,
		Credential: credential,
	}, nil
}

// Logout produces a stateless acknowledgment. Issued tokens remain valid
// until they expire; this is a known limitation of the revocation-free
// design, not something Logout papers over.
func (s *Authenticator) Logout(_ context.Context) LogoutAck {
	return LogoutAck{
		Acknowledged: true,
		LoggedOutAt:  time.Now(),
	}
}
