package accounts

import (
	"context"
	"fmt"
)

// ConsoleNotifier writes the activation email to stdout. It stands in for a
// real mail collaborator during development and in the test suite.
type ConsoleNotifier struct{}

func (ConsoleNotifier) SendActivationEmail(_ context.Context, email, name, activationCode string) error {
	fmt.Println("====== SENDING EMAIL NOTIFICATION =======")
	fmt.Printf("to: %s\n", email)
	fmt.Printf("subject: Activate your account\n")
	fmt.Printf("hello %s, your activation code is: %s\n", name, activationCode)
	return nil
}

var _ Notifier = ConsoleNotifier{}
