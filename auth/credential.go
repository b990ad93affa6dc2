package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleEvaluator Role = "evaluator"
)

type Claims struct {
	Role    Role   `json:"role"`
	ChainID *int64 `json:"chain_id,omitempty"`
	jwt.RegisteredClaims
}

// ErrInvalidCredential covers absent, malformed, forged and expired tokens
// alike.
var ErrInvalidCredential = errors.New("invalid credential")

type ClaimsKeyType string

var CtxClaimsKey ClaimsKeyType = "claims"

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, CtxClaimsKey, claims)
}

// ClaimsFromContext returns nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(CtxClaimsKey).(*Claims)
	return claims
}

// CredentialIssuer signs and validates bearer credentials with a shared
// HMAC secret.
type CredentialIssuer struct {
	key    []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

func NewCredentialIssuer(secret []byte, alg string, ttl time.Duration) (*CredentialIssuer, error) {
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
	}
	if len(secret) == 0 {
		return nil, errors.New("signing secret is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &CredentialIssuer{
		key:    secret,
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue returns a token for subject and its expiry. The role is fixed at
// issuance; evaluator list changes show up only in the next token.
func (c *CredentialIssuer) Issue(subject string, role Role, chainID *int64) (string, time.Time, error) {
	now := c.now()
	expiresAt := now.Add(c.ttl).Truncate(time.Second)
	claims := &Claims{
		Role:    role,
		ChainID: chainID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(c.method, claims).SignedString(c.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign credential: %w", err)
	}
	return token, expiresAt, nil
}

func (c *CredentialIssuer) Validate(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrInvalidCredential
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return c.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredential
	}
	if claims.Subject == "" {
		return nil, ErrInvalidCredential
	}
	return claims, nil
}
