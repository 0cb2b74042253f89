package accounts_test

import (
	"context"
	"sync"

	"github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/mock"
)

// MockNotifier implements accounts.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendActivationEmail(ctx context.Context, email, name, activationCode string) error {
	args := m.Called(ctx, email, name, activationCode)
	return args.Error(0)
}

// MockLogger implements accounts.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// memoryDirectory is an in-memory AccountDirectory with the same contract as
// the bun repository: nil result for missing records, ErrDuplicateAccount on
// constraint violations.
type memoryDirectory struct {
	mu       sync.Mutex
	byEmail  map[string]*accounts.Account
	byPhone  map[string]*accounts.Account
	ordered  []*accounts.Account
	failWith error
}

func newMemoryDirectory() *memoryDirectory {
	return &memoryDirectory{
		byEmail: map[string]*accounts.Account{},
		byPhone: map[string]*accounts.Account{},
	}
}

func (d *memoryDirectory) FindByEmail(_ context.Context, email string) (*accounts.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failWith != nil {
		return nil, d.failWith
	}
	return d.byEmail[email], nil
}

func (d *memoryDirectory) FindByPhone(_ context.Context, phone string) (*accounts.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failWith != nil {
		return nil, d.failWith
	}
	return d.byPhone[phone], nil
}

func (d *memoryDirectory) Create(_ context.Context, record *accounts.Account) (*accounts.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failWith != nil {
		return nil, d.failWith
	}

	if _, exists := d.byEmail[record.Email]; exists {
		return nil, accounts.ErrDuplicateAccount
	}
	if _, exists := d.byPhone[record.PhoneNumber]; exists {
		return nil, accounts.ErrDuplicateAccount
	}

	stored := *record
	d.byEmail[stored.Email] = &stored
	d.byPhone[stored.PhoneNumber] = &stored
	d.ordered = append(d.ordered, &stored)

	return &stored, nil
}

func (d *memoryDirectory) ListAll(_ context.Context) ([]*accounts.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failWith != nil {
		return nil, d.failWith
	}

	out := make([]*accounts.Account, len(d.ordered))
	copy(out, d.ordered)
	return out, nil
}

func testConfig() accounts.SimpleConfig {
	return accounts.SimpleConfig{
		ActivationSecret:       "activation-secret",
		AccessSigningKey:       "access-signing-key",
		RefreshSigningKey:      "refresh-signing-key",
		AccessTokenExpiration:  15,
		RefreshTokenExpiration: 72,
		Issuer:                 "test-issuer",
		Audience:               []string{"test-audience"},
	}
}
