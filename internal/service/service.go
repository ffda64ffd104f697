package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"stageflow/config"
	"stageflow/internal/dto"
	"stageflow/internal/repository"
	"stageflow/pkg/jwt"
)

// CodeCache is the ephemeral store for one-time reset codes and revoked
// token IDs. Backed by redis in production.
type CodeCache interface {
	SetResetCode(ctx context.Context, email, code string, ttl time.Duration) error
	ConsumeResetCode(ctx context.Context, email, code string) (bool, error)
	RemoveResetCode(ctx context.Context, email string) error
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Notifier delivers transactional messages. Delivery is best effort; the
// reset flow never fails because a message could not be sent.
type Notifier interface {
	SendResetCode(email, code string) error
}

// FileHost stores a generated document and returns a view-only share link.
type FileHost interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Service aggregates all services.
type Service struct {
	Auth   AuthService
	Record RecordService
	Export ExportService
}

// NewService creates the service aggregate.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	cache CodeCache,
	notifier Notifier,
	host FileHost,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:   NewAuthService(cfg, repo, jwtMgr, cache, notifier, logger),
		Record: NewRecordService(cfg, repo, logger),
		Export: NewExportService(host, logger),
	}
}

// toAccountResponse converts a stored account to its public shape.
func toAccountResponse(id, email, role string, createdAt time.Time) dto.AccountResponse {
	return dto.AccountResponse{
		ID:        id,
		Email:     email,
		Role:      role,
		CreatedAt: createdAt.UTC().Format(time.RFC3339),
	}
}
