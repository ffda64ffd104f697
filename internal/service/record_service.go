package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stageflow/config"
	"stageflow/internal/dto"
	"stageflow/internal/model"
	"stageflow/internal/repository"
)

// ── record module errors ──

var (
	ErrRowNotFound = errors.New("no record at that row position")
	ErrForbidden   = errors.New("admin role required")
)

// RecordService owns the placement record table.
//
// Records are addressed by 1-based row position with the header at
// position 1: valid data positions are [2, count+1], and a delete shifts
// every later row up by one. A position is only valid as of the caller's
// last read.
type RecordService interface {
	Create(ctx context.Context, payload *dto.RecordPayload, actorEmail string) (int, error)
	Update(ctx context.Context, position int, payload *dto.RecordPayload, actorEmail string) error
	Delete(ctx context.Context, position int, actorEmail string) error
	List(ctx context.Context, req *dto.RecordListRequest) ([]dto.RecordResponse, int64, error)
}

type recordService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger

	// mu serializes every read-position-then-write sequence. The lock is
	// table-wide because any mutation can shift positions table-wide.
	mu sync.Mutex
}

// NewRecordService creates a RecordService.
func NewRecordService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) RecordService {
	return &recordService{cfg: cfg, repo: repo, logger: logger}
}

func (s *recordService) Create(ctx context.Context, payload *dto.RecordPayload, actorEmail string) (int, error) {
	if err := s.authorize(ctx, actorEmail); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.repo.Record.Count(ctx)
	if err != nil {
		s.logger.Error("record count failed", zap.Error(err))
		return 0, err
	}

	rec := payloadToModel(payload)
	rec.SubmitterEmail = actorEmail
	if err := s.repo.Record.Append(ctx, rec); err != nil {
		s.logger.Error("record append failed", zap.Error(err))
		return 0, err
	}

	// the new row lands after the previous last one; +2 accounts for the header
	return int(count) + model.HeaderOffset, nil
}

func (s *recordService) Update(ctx context.Context, position int, payload *dto.RecordPayload, actorEmail string) error {
	if err := s.authorize(ctx, actorEmail); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.rowAt(ctx, position)
	if err != nil {
		return err
	}

	if err := s.repo.Record.UpdateBusinessFields(ctx, rec.RecordID, payloadToModel(payload)); err != nil {
		s.logger.Error("record update failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *recordService) Delete(ctx context.Context, position int, actorEmail string) error {
	if err := s.authorize(ctx, actorEmail); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.rowAt(ctx, position)
	if err != nil {
		return err
	}

	if err := s.repo.Record.Delete(ctx, rec.RecordID); err != nil {
		s.logger.Error("record delete failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *recordService) List(ctx context.Context, req *dto.RecordListRequest) ([]dto.RecordResponse, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	records, total, err := s.repo.Record.List(ctx, offset, pageSize)
	if err != nil {
		s.logger.Error("record list failed", zap.Error(err))
		return nil, 0, err
	}

	responses := make([]dto.RecordResponse, len(records))
	for i, rec := range records {
		responses[i] = dto.RecordResponse{
			Position:       offset + i + model.HeaderOffset,
			RecordPayload:  modelToPayload(&rec),
			SubmitterEmail: rec.SubmitterEmail,
		}
	}
	return responses, total, nil
}

// ── helpers ──

// rowAt resolves a row position to the stored record, enforcing the
// [2, count+1] bound. Callers must hold s.mu.
func (s *recordService) rowAt(ctx context.Context, position int) (*model.Record, error) {
	count, err := s.repo.Record.Count(ctx)
	if err != nil {
		s.logger.Error("record count failed", zap.Error(err))
		return nil, err
	}
	if position < model.HeaderOffset || position > int(count)+model.HeaderOffset-1 {
		return nil, ErrRowNotFound
	}

	rec, err := s.repo.Record.GetByIndex(ctx, position-model.HeaderOffset)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRowNotFound
		}
		s.logger.Error("record fetch failed", zap.Error(err))
		return nil, err
	}
	return rec, nil
}

// authorize applies the mutation policy. The legacy behavior accepts any
// authenticated identity; the feature flag switches on Admin-only mode.
func (s *recordService) authorize(ctx context.Context, actorEmail string) error {
	if !s.cfg.Feature.EnforceAdminMutations {
		return nil
	}

	acc, err := s.repo.Account.GetByEmail(ctx, actorEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		s.logger.Error("account lookup failed", zap.Error(err))
		return err
	}
	if acc.Role != model.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

func payloadToModel(p *dto.RecordPayload) *model.Record {
	return &model.Record{
		Specialty:      p.Specialty,
		Group:          p.Group,
		FullName:       p.FullName,
		NationalID:     p.NationalID,
		PlacementDate:  p.PlacementDate,
		TotalHours:     p.TotalHours,
		Municipality:   p.Municipality,
		Institution:    p.Institution,
		SupervisorName: p.SupervisorName,
		SupervisorID:   p.SupervisorID,
	}
}

func modelToPayload(rec *model.Record) dto.RecordPayload {
	return dto.RecordPayload{
		Specialty:      rec.Specialty,
		Group:          rec.Group,
		FullName:       rec.FullName,
		NationalID:     rec.NationalID,
		PlacementDate:  rec.PlacementDate,
		TotalHours:     rec.TotalHours,
		Municipality:   rec.Municipality,
		Institution:    rec.Institution,
		SupervisorName: rec.SupervisorName,
		SupervisorID:   rec.SupervisorID,
	}
}
