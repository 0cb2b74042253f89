package accounts

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// AccountDirectory is the durable account store the flows collaborate with.
// Lookups return (nil, nil) when no account matches; errors are reserved for
// infrastructure failures. Uniqueness of email and phone is ultimately
// enforced by the store's constraints, creation conflicts surface as
// ErrDuplicateAccount.
type AccountDirectory interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByPhone(ctx context.Context, phone string) (*Account, error)
	Create(ctx context.Context, record *Account) (*Account, error)
	ListAll(ctx context.Context) ([]*Account, error)
}

// Notifier requests delivery of the activation email. Dispatch is
// fire-and-forget from the flow's perspective: delivery failures are the
// collaborator's concern and never roll a registration back.
type Notifier interface {
	SendActivationEmail(ctx context.Context, email, name, activationCode string) error
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, email, name, activationCode string) error

// SendActivationEmail satisfies the Notifier interface.
func (f NotifierFunc) SendActivationEmail(ctx context.Context, email, name, activationCode string) error {
	if f == nil {
		return nil
	}
	return f(ctx, email, name, activationCode)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Config holds the signing material and token lifetimes. The activation
// secret and the session signing keys are independent signing domains: a
// token from one domain must fail verification in the other.
type Config interface {
	GetActivationSecret() string
	GetAccessSigningKey() string
	GetRefreshSigningKey() string
	// GetAccessTokenExpiration is the access token lifetime in minutes
	GetAccessTokenExpiration() int
	// GetRefreshTokenExpiration is the refresh token lifetime in hours
	GetRefreshTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
}

// SimpleConfig is a value implementation of Config
type SimpleConfig struct {
	ActivationSecret       string
	AccessSigningKey       string
	RefreshSigningKey      string
	AccessTokenExpiration  int
	RefreshTokenExpiration int
	Issuer                 string
	Audience               []string
}

func (c SimpleConfig) GetActivationSecret() string { return c.ActivationSecret }

func (c SimpleConfig) GetAccessSigningKey() string { return c.AccessSigningKey }

func (c SimpleConfig) GetRefreshSigningKey() string { return c.RefreshSigningKey }

func (c SimpleConfig) GetAccessTokenExpiration() int {
	if c.AccessTokenExpiration == 0 {
		return 15
	}
	return c.AccessTokenExpiration
}

func (c SimpleConfig) GetRefreshTokenExpiration() int {
	if c.RefreshTokenExpiration == 0 {
		return 72
	}
	return c.RefreshTokenExpiration
}

func (c SimpleConfig) GetIssuer() string { return c.Issuer }

func (c SimpleConfig) GetAudience() []string { return c.Audience }

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
