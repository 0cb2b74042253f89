package accounts

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ActivationTokenTTL is the fixed lifetime of an activation token. Expiry is
// the only cleanup mechanism for abandoned registrations.
const ActivationTokenTTL = 5 * time.Minute

// ActivationClaims carries a pending registration plus its activation code
// inside a signed token. Validity derives solely from signature, expiry, and
// code match; there is no server-side record.
type ActivationClaims struct {
	jwt.RegisteredClaims
	Registration PendingRegistration `json:"user"`
	Code         string              `json:"activation_code"`
}

// ActivationTokenService issues and verifies activation tokens. It signs with
// a dedicated activation secret, never with the session signing keys, so a
// leaked session key cannot mint activations and vice versa.
type ActivationTokenService struct {
	secret   []byte
	issuer   string
	audience jwt.ClaimStrings
	logger   Logger
}

// NewActivationTokenService creates a new ActivationTokenService instance
func NewActivationTokenService(secret []byte, issuer string, audience jwt.ClaimStrings, logger Logger) *ActivationTokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &ActivationTokenService{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		logger:   logger,
	}
}

// Issue seals the pending registration and a fresh 4-digit activation code
// into a signed token with a 5 minute expiry. It returns the token and the
// cleartext code; the two must travel through separate channels.
func (s *ActivationTokenService) Issue(registration PendingRegistration) (string, string, error) {
	if registration.Email == "" {
		return "", "", goerrors.New("registration email is required", goerrors.CategoryBadInput)
	}

	code, err := newActivationCode()
	if err != nil {
		return "", "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate activation code")
	}

	now := time.Now()
	claims := &ActivationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   registration.Email,
			Audience:  s.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ActivationTokenTTL)),
		},
		Registration: registration,
		Code:         code,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign activation token")
	}

	return signed, code, nil
}

// Verify validates signature and expiry and returns the embedded claims. Any
// failure aborts before the caller touches storage: expired tokens map to
// ErrTokenExpired, everything else to ErrTokenMalformed.
func (s *ActivationTokenService) Verify(tokenString string) (*ActivationClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActivationClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			s.logger.Error("ActivationTokenService verify encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*ActivationClaims)
	if !ok || !token.Valid {
		s.logger.Error("ActivationTokenService verify could not decode claims")
		return nil, ErrTokenMalformed
	}

	if claims.Code == "" || claims.Registration.Email == "" {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// newActivationCode samples a 4-digit decimal code uniformly from [1000, 9999].
func newActivationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}
