// Package auth implements wallet sign-in: nonce issuance, signature
// verification, role lookup and bearer credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gapeval/backend/auth/wallet"
	"github.com/gapeval/backend/logger"
	"github.com/gapeval/backend/metrics"
	"github.com/gapeval/backend/srvcerror"
)

// EvaluatorDirectory answers whether an address evaluates any category.
type EvaluatorDirectory interface {
	IsEvaluator(ctx context.Context, address string) (bool, error)
}

type Session struct {
	Address   string
	Role      Role
	ChainID   *int64
	Token     string
	ExpiresAt time.Time
}

type AuthSrvc struct {
	nonces     NonceStore
	creds      *CredentialIssuer
	evaluators EvaluatorDirectory
}

func NewAuthSrvc(nonces NonceStore, creds *CredentialIssuer, evaluators EvaluatorDirectory) *AuthSrvc {
	return &AuthSrvc{
		nonces:     nonces,
		creds:      creds,
		evaluators: evaluators,
	}
}

func (s *AuthSrvc) IssueNonce(ctx context.Context) (string, error) {
	nonce, err := s.nonces.Issue(ctx)
	if err != nil {
		return "", fmt.Errorf("issue nonce: %w", err)
	}
	return nonce, nil
}

// VerifySignature returns the checksummed address that signed message.
// It does not look at the nonce; Login does.
func (s *AuthSrvc) VerifySignature(message, signature string) (string, error) {
	return recoverSigner(message, signature)
}

// DetermineRole is RoleEvaluator when address is listed by any category.
func (s *AuthSrvc) DetermineRole(ctx context.Context, address string) (Role, error) {
	if address == "" {
		return RoleUser, nil
	}
	normalized, err := wallet.ChecksumAddress(address)
	if err != nil {
		return RoleUser, nil
	}
	ok, err := s.evaluators.IsEvaluator(ctx, normalized)
	if err != nil {
		return "", fmt.Errorf("look up evaluator %s: %w", normalized, err)
	}
	if ok {
		return RoleEvaluator, nil
	}
	return RoleUser, nil
}

// Login checks a signed sign-in message against an issued nonce and
// returns a fresh credential for the signer.
func (s *AuthSrvc) Login(ctx context.Context, message, signature string) (*Session, error) {
	log := logger.FromContext(ctx)
	attempt := newLoginAttempt()

	err := s.login(ctx, attempt, message, signature)
	if err != nil {
		result := metrics.LoginRejected
		var srvcErr *srvcerror.Error
		if !errors.As(err, &srvcErr) {
			result = metrics.LoginError
		}
		metrics.LoginAttempt(result)
		log.Info("login rejected",
			slog.String("state", attempt.state.String()),
			slog.Any("error", err))
		return nil, err
	}

	metrics.LoginAttempt(metrics.LoginSuccess)
	log.Info("login succeeded",
		slog.String("address", attempt.address),
		slog.String("role", string(attempt.role)))

	return &Session{
		Address:   attempt.address,
		Role:      attempt.role,
		ChainID:   attempt.message.ChainID,
		Token:     attempt.token,
		ExpiresAt: attempt.expiresAt,
	}, nil
}

func (s *AuthSrvc) login(ctx context.Context, attempt *loginAttempt, message, signature string) error {
	if err := attempt.present(message, signature); err != nil {
		return err
	}
	if err := attempt.verify(ctx, s.nonces); err != nil {
		return err
	}
	role, err := s.DetermineRole(ctx, attempt.address)
	if err != nil {
		return attempt.reject(err)
	}
	return attempt.issue(role, s.creds)
}

// ValidateCredential returns the claims of token or the uniform
// unauthenticated error.
func (s *AuthSrvc) ValidateCredential(token string) (*Claims, error) {
	claims, err := s.creds.Validate(token)
	if err != nil {
		return nil, errUnauthenticated(err)
	}
	return claims, nil
}
