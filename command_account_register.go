package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type RegisterAccountMessage struct {
	Name        string `json:"name" example:"Pepe Rone" doc:"Display name."`
	Email       string `json:"email" example:"pepe.rone@example.com" doc:"Account email, unique."`
	Password    string `json:"password" doc:"Cleartext password, hashed before it leaves the flow."`
	PhoneNumber string `json:"phone_number" example:"+14155552671" doc:"Account phone, unique."`
	OnResponse  func(resp *RegisterAccountResponse)
}

func (e RegisterAccountMessage) Type() string { return "account.register" }

type RegisterAccountResponse struct {
	ActivationToken string   `json:"activation_token" doc:"Signed token the caller must present at activation."`
	Success         bool     `json:"success" example:"true" doc:"Was the registration accepted?"`
	Errors          []string `json:"errors" example:"['email is already registered']" doc:"Error messages."`
}

type RegisterAccountHandler struct {
	registrar *Registrar
}

func NewRegisterAccountHandler(registrar *Registrar) *RegisterAccountHandler {
	return &RegisterAccountHandler{registrar: registrar}
}

func (h *RegisterAccountHandler) Execute(ctx context.Context, event RegisterAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAccountHandler) execute(ctx context.Context, event RegisterAccountMessage) error {
	resp := &RegisterAccountResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	receipt, err := h.registrar.Register(ctx, RegisterInput{
		Name:        event.Name,
		Email:       event.Email,
		Password:    event.Password,
		PhoneNumber: event.PhoneNumber,
	})

	if err != nil {
		// rejected input is part of the expected flow, not an application error
		if IsValidationError(err) {
			resp.Errors = append(resp.Errors, err.Error())
			event.OnResponse(resp)
			return nil
		}

		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to execute account registration")
	}

	resp.ActivationToken = receipt.ActivationToken
	resp.Success = true
	event.OnResponse(resp)

	return nil
}
