package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"call-history/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	serviceSubject = "call-history"
	// Tokens are re-minted this long before they expire.
	renewBefore = 30 * time.Second
)

// TokenSource supplies the bearer token for upstream requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed API token. The empty token sends no Authorization header.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }

// ServiceTokens mints short-lived HS256 tokens and reuses one until it is
// close to expiry.
type ServiceTokens struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time

	mu      sync.Mutex
	current string
	expires time.Time
}

func NewServiceTokens(cfg config.UpstreamConfig) (*ServiceTokens, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("CALLS_API_JWT_SECRET is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= renewBefore {
		ttl = 5 * time.Minute
	}
	return &ServiceTokens{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// NewTokenSource picks signed service tokens when a secret is configured and
// the static token otherwise.
func NewTokenSource(cfg config.UpstreamConfig) (TokenSource, error) {
	if cfg.JWTSecret == "" {
		return StaticToken(cfg.Token), nil
	}
	return NewServiceTokens(cfg)
}

func (s *ServiceTokens) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != "" && now.Add(renewBefore).Before(s.expires) {
		return s.current, nil
	}

	tok, exp, err := s.issue(now)
	if err != nil {
		return "", err
	}
	s.current, s.expires = tok, exp
	return tok, nil
}

func (s *ServiceTokens) issue(now time.Time) (string, time.Time, error) {
	exp := now.Add(s.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   serviceSubject,
			Audience:  audienceOrNil(s.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
		Scope: ScopeCallsRead,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses a token minted by ServiceTokens with the checks the call API
// applies: HS256 only, issuer and audience when configured, expiry required.
func (s *ServiceTokens) Verify(tokenString string, now time.Time) (Claims, error) {
	var claims Claims

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30 * time.Second),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, err
	}
	if claims.Scope != ScopeCallsRead {
		return Claims{}, errors.New("scope mismatch")
	}
	if claims.Subject != serviceSubject {
		return Claims{}, errors.New("subject mismatch")
	}
	return claims, nil
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
