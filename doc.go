// Package accounts provides the account lifecycle for user registration with
// email activation, credential verification, and access/refresh session
// tokens.
//
// Registration:
//   - Register never writes to storage. The pending registration (name, email,
//     hashed password, phone) is sealed inside a signed activation token
//     together with a 4-digit activation code. The token expires after five
//     minutes, so abandoned registrations need no cleanup job.
//   - The code travels only through the Notifier (activation email); the token
//     only through the caller. Activation requires both, which gives a
//     two-channel confirmation.
//
// Activation:
//   - Activate is the only path that creates durable accounts. It verifies the
//     token signature and expiry, matches the activation code, re-checks the
//     email against the directory, and then creates the account. Replayed
//     tokens are rejected with ErrAccountAlreadyActivated.
//
// Sessions:
//   - Login issues a paired access token (short-lived) and refresh token
//     (long-lived), each signed with its own secret. There is no server-side
//     session table: expiry is the only invalidation mechanism and Logout is a
//     client-side discard acknowledgment.
//
// Collaborators (AccountDirectory, Notifier, PasswordAuthenticator, token
// services) are injected through constructors so storage, mail, and crypto
// stay behind narrow interfaces.
package accounts
