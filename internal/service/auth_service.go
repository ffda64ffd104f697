package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"stageflow/config"
	"stageflow/internal/dto"
	"stageflow/internal/model"
	"stageflow/internal/repository"
	"stageflow/pkg/jwt"
)

// ── auth module errors ──

var (
	ErrDuplicateAccount   = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrCodeInvalid        = errors.New("reset code invalid or expired")
	ErrResetUnavailable   = errors.New("password reset is temporarily unavailable")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// AuthService owns registration, login and the password-reset flow.
//
// Reset flow: RequestReset caches a 6-digit one-time code under the
// normalized email (TTL-bound, superseding any prior code) and mails it;
// VerifyReset consumes the code atomically (single use); CompleteReset
// rewrites the credential. CompleteReset itself only requires the account
// to exist — the verify step is the gate the caller walks through.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AccountResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	Me(ctx context.Context, accountID string) (*dto.AccountResponse, error)
	RequestReset(ctx context.Context, email string) error
	VerifyReset(ctx context.Context, email, code string) error
	CompleteReset(ctx context.Context, email, newPassword string) error
}

type authService struct {
	cfg      *config.Config
	repo     *repository.Repository
	jwtMgr   *jwt.Manager
	cache    CodeCache
	notifier Notifier
	logger   *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	cache CodeCache,
	notifier Notifier,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:      cfg,
		repo:     repo,
		jwtMgr:   jwtMgr,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AccountResponse, error) {
	email := strings.TrimSpace(req.Email)

	// 1. duplicate check, case-insensitive
	_, err := s.repo.Account.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrDuplicateAccount
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("account lookup failed", zap.Error(err))
		return nil, err
	}

	// 2. derive the credential (bcrypt embeds its own salt)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return nil, err
	}

	// 3. append the account row, default role User
	acc := &model.Account{
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}
	if err := s.repo.Account.Create(ctx, acc); err != nil {
		s.logger.Error("account creation failed", zap.Error(err))
		return nil, err
	}

	resp := toAccountResponse(acc.AccountID, acc.Email, acc.Role, acc.CreatedAt)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	acc, err := s.repo.Account.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// absent account and wrong password are indistinguishable
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("account lookup failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.tokenResponse(acc)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != jwt.TypeRefresh {
		return nil, jwt.ErrTokenInvalid
	}

	if s.cache != nil {
		revoked, err := s.cache.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("blacklist check failed", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	// reload the account so role changes take effect on refresh
	acc, err := s.repo.Account.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		s.logger.Error("account lookup failed", zap.Error(err))
		return nil, err
	}

	return s.tokenResponse(acc)
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.cache == nil {
		return nil // no blacklist backend: logout is client-side only
	}
	return s.cache.BlacklistToken(ctx, jti, time.Until(expiresAt))
}

func (s *authService) Me(ctx context.Context, accountID string) (*dto.AccountResponse, error) {
	acc, err := s.repo.Account.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		s.logger.Error("account lookup failed", zap.Error(err))
		return nil, err
	}
	resp := toAccountResponse(acc.AccountID, acc.Email, acc.Role, acc.CreatedAt)
	return &resp, nil
}

func (s *authService) RequestReset(ctx context.Context, email string) error {
	if s.cache == nil {
		return ErrResetUnavailable
	}

	acc, err := s.repo.Account.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		s.logger.Error("account lookup failed", zap.Error(err))
		return err
	}

	code, err := generateResetCode()
	if err != nil {
		s.logger.Error("reset code generation failed", zap.Error(err))
		return err
	}

	// cache write is the commit point; a new request supersedes any prior code
	if err := s.cache.SetResetCode(ctx, normalizeEmail(email), code, s.cfg.Auth.ResetCodeTTL); err != nil {
		s.logger.Error("reset code cache write failed", zap.Error(err))
		return err
	}

	// mirror the pending code onto the account row
	acc.ResetCode = &code
	if err := s.repo.Account.Update(ctx, acc); err != nil {
		s.logger.Warn("reset code mirror update failed", zap.Error(err))
	}

	// delivery is best effort and must not mask the committed cache write
	if err := s.notifier.SendResetCode(acc.Email, code); err != nil {
		s.logger.Error("reset code delivery failed",
			zap.String("email", acc.Email),
			zap.Error(err),
		)
	}

	return nil
}

func (s *authService) VerifyReset(ctx context.Context, email, code string) error {
	if s.cache == nil {
		return ErrResetUnavailable
	}

	ok, err := s.cache.ConsumeResetCode(ctx, normalizeEmail(email), code)
	if err != nil {
		s.logger.Error("reset code consume failed", zap.Error(err))
		return err
	}
	if !ok {
		return ErrCodeInvalid
	}

	// clear the mirror; the credential is untouched until CompleteReset
	if acc, err := s.repo.Account.GetByEmail(ctx, email); err == nil && acc.ResetCode != nil {
		acc.ResetCode = nil
		if err := s.repo.Account.Update(ctx, acc); err != nil {
			s.logger.Warn("reset code mirror clear failed", zap.Error(err))
		}
	}

	return nil
}

func (s *authService) CompleteReset(ctx context.Context, email, newPassword string) error {
	acc, err := s.repo.Account.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		s.logger.Error("account lookup failed", zap.Error(err))
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return err
	}

	acc.PasswordHash = string(hash)
	acc.ResetCode = nil
	if err := s.repo.Account.Update(ctx, acc); err != nil {
		s.logger.Error("credential update failed", zap.Error(err))
		return err
	}

	if s.cache != nil {
		if err := s.cache.RemoveResetCode(ctx, normalizeEmail(email)); err != nil {
			s.logger.Warn("reset code cleanup failed", zap.Error(err))
		}
	}

	return nil
}

// ── helpers ──

func (s *authService) tokenResponse(acc *model.Account) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(acc.AccountID, acc.Email, acc.Role)
	if err != nil {
		s.logger.Error("access token generation failed", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(acc.AccountID, acc.Email, acc.Role)
	if err != nil {
		s.logger.Error("refresh token generation failed", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Account:      toAccountResponse(acc.AccountID, acc.Email, acc.Role, acc.CreatedAt),
	}, nil
}

// generateResetCode draws a 6-digit one-time code from crypto/rand.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
