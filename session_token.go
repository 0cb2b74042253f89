package accounts

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenKind distinguishes the two session signing domains.
type TokenKind string

const (
	// TokenKindAccess is the short-lived credential presented on each request
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is the long-lived credential used to mint new pairs
	TokenKindRefresh TokenKind = "refresh"
)

// SessionCredential pairs the access and refresh tokens issued on login.
type SessionCredential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SessionClaims bind an account identity to a session token of a given kind.
type SessionClaims struct {
	jwt.RegisteredClaims
	UID   string    `json:"uid,omitempty"`
	Email string    `json:"email,omitempty"`
	Kind  TokenKind `json:"kind"`
}

// SessionTokenService mints and verifies access and refresh tokens. Each kind
// has its own secret and lifetime; verifying a token against the wrong kind
// fails closed. There is no revocation list: expiry is the only invalidation
// mechanism.
type SessionTokenService struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
}

// NewSessionTokenService creates a new SessionTokenService from config
func NewSessionTokenService(cfg Config, logger Logger) *SessionTokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &SessionTokenService{
		accessKey:  []byte(cfg.GetAccessSigningKey()),
		refreshKey: []byte(cfg.GetRefreshSigningKey()),
		accessTTL:  time.Duration(cfg.GetAccessTokenExpiration()) * time.Minute,
		refreshTTL: time.Duration(cfg.GetRefreshTokenExpiration()) * time.Hour,
		issuer:     cfg.GetIssuer(),
		audience:   jwt.ClaimStrings(cfg.GetAudience()),
		logger:     logger,
	}
}

// IssueAccessToken mints a short-lived access token for the account.
func (s *SessionTokenService) IssueAccessToken(account *Account) (string, error) {
	return s.issue(account, TokenKindAccess)
}

// IssueRefreshToken mints a long-lived refresh token for the account.
func (s *SessionTokenService) IssueRefreshToken(account *Account) (string, error) {
	return s.issue(account, TokenKindRefresh)
}

// IssuePair mints a matched access/refresh credential pair.
func (s *SessionTokenService) IssuePair(account *Account) (*SessionCredential, error) {
	access, err := s.IssueAccessToken(account)
	if err != nil {
		return nil, err
	}

	refresh, err := s.IssueRefreshToken(account)
	if err != nil {
		return nil, err
	}

	return &SessionCredential{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *SessionTokenService) issue(account *Account, kind TokenKind) (string, error) {
	if account == nil || account.ID == uuid.Nil {
		return "", goerrors.New("account identity is required", goerrors.CategoryBadInput)
	}

	key, ttl, err := s.domain(kind)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   account.ID.String(),
			Audience:  s.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UID:   account.ID.String(),
		Email: account.Email,
		Kind:  kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign session token")
	}

	return signed, nil
}

// Verify validates a session token against the signing domain for kind and
// returns its claims. A valid token of the other kind is rejected with
// ErrTokenMalformed.
func (s *SessionTokenService) Verify(tokenString string, kind TokenKind) (*SessionClaims, error) {
	key, _, err := s.domain(kind)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			s.logger.Error("SessionTokenService verify encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		s.logger.Error("SessionTokenService verify could not decode claims")
		return nil, ErrTokenMalformed
	}

	if claims.Kind != kind {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

func (s *SessionTokenService) domain(kind TokenKind) ([]byte, time.Duration, error) {
	switch kind {
	case TokenKindAccess:
		return s.accessKey, s.accessTTL, nil
	case TokenKindRefresh:
		return s.refreshKey, s.refreshTTL, nil
	default:
		return nil, 0, goerrors.New("unknown token kind", goerrors.CategoryBadInput).
			WithMetadata(map[string]any{"kind": string(kind)})
	}
}
