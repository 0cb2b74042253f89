package accounts

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

// RegisterInput is the registration request payload
type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
}

// Validate enforces the registration input rules
func (r RegisterInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 200)),
		validation.Field(&r.PhoneNumber, validation.Required),
	)
}

// RegistrationReceipt is what the caller keeps from a registration: the
// activation token. The activation code is never part of the receipt, it
// travels only through the notification channel.
type RegistrationReceipt struct {
	ActivationToken string `json:"activation_token"`
}

// Registrar runs the registration flow. It holds no state between calls and
// is safe for concurrent use as long as its collaborators are.
type Registrar struct {
	directory   AccountDirectory
	notifier    Notifier
	tokens      *ActivationTokenService
	passwords   PasswordAuthenticator
	phoneRegion string
	logger      Logger
}

// NewRegistrar returns a new Registrar
func NewRegistrar(directory AccountDirectory, notifier Notifier, tokens *ActivationTokenService) *Registrar {
	if notifier == nil {
		notifier = ConsoleNotifier{}
	}
	return &Registrar{
		directory:   directory,
		notifier:    notifier,
		tokens:      tokens,
		passwords:   bcryptAuthenticator{},
		phoneRegion: DefaultPhoneRegion,
		logger:      defLogger{},
	}
}

func (r *Registrar) WithLogger(logger Logger) *Registrar {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithPasswordAuthenticator overrides the password hasher.
func (r *Registrar) WithPasswordAuthenticator(passwords PasswordAuthenticator) *Registrar {
	if passwords != nil {
		r.passwords = passwords
	}
	return r
}

// WithPhoneRegion sets the region used to parse national phone numbers.
func (r *Registrar) WithPhoneRegion(region string) *Registrar {
	if region != "" {
		r.phoneRegion = region
	}
	return r
}

// Register validates the input, checks email and phone uniqueness, hashes the
// password, and issues an activation token carrying the pending registration.
// Nothing is written to storage: the token is the only record until
// activation. The activation email is dispatched before returning; a
// notification failure is logged, never propagated, since the token has
// already been issued.
func (r *Registrar) Register(ctx context.Context, input RegisterInput) (*RegistrationReceipt, error) {
	if err := input.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration input")
	}

	phone, err := NormalizePhoneNumber(input.PhoneNumber, r.phoneRegion)
	if err != nil {
		return nil, err
	}

	existing, err := r.directory.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email uniqueness")
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	existing, err = r.directory.FindByPhone(ctx, phone)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check phone uniqueness")
	}
	if existing != nil {
		return nil, ErrDuplicatePhone
	}

	hash, err := r.passwords.HashPassword(input.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	token, code, err := r.tokens.Issue(PendingRegistration{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		PhoneNumber:  phone,
	})
	if err != nil {
		return nil, err
	}

	if err := r.notifier.SendActivationEmail(ctx, input.Email, input.Name, code); err != nil {
		r.logger.Error("failed to dispatch activation email", "email", input.Email, "error", err)
	}

	return &RegistrationReceipt{ActivationToken: token}, nil
}
