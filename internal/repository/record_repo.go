package repository

import (
	"context"

	"gorm.io/gorm"

	"stageflow/internal/model"
)

// RecordRepository is the records data access interface.
//
// Rows are ordered by record_id; the zero-based index into that order is
// the stable way to reach "the Nth data row". Translating row positions
// (header at 1) to indices is the service's job.
type RecordRepository interface {
	Append(ctx context.Context, rec *model.Record) error
	Count(ctx context.Context) (int64, error)
	GetByIndex(ctx context.Context, index int) (*model.Record, error)
	UpdateBusinessFields(ctx context.Context, recordID uint64, rec *model.Record) error
	Delete(ctx context.Context, recordID uint64) error
	List(ctx context.Context, offset, limit int) ([]model.Record, int64, error)
}

// recordRepo is the GORM implementation of RecordRepository.
type recordRepo struct {
	db *gorm.DB
}

// NewRecordRepo creates a RecordRepository.
func NewRecordRepo(db *gorm.DB) RecordRepository {
	return &recordRepo{db: db}
}

func (r *recordRepo) Append(ctx context.Context, rec *model.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recordRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Record{}).Count(&count).Error
	return count, err
}

func (r *recordRepo) GetByIndex(ctx context.Context, index int) (*model.Record, error) {
	var rec model.Record
	err := r.db.WithContext(ctx).
		Order("record_id ASC").
		Offset(index).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateBusinessFields overwrites the ten business cells of one row in
// place. submitter_email is deliberately not touched.
func (r *recordRepo) UpdateBusinessFields(ctx context.Context, recordID uint64, rec *model.Record) error {
	return r.db.WithContext(ctx).
		Model(&model.Record{}).
		Where("record_id = ?", recordID).
		Updates(map[string]interface{}{
			"specialty":       rec.Specialty,
			"group":           rec.Group,
			"full_name":       rec.FullName,
			"national_id":     rec.NationalID,
			"placement_date":  rec.PlacementDate,
			"total_hours":     rec.TotalHours,
			"municipality":    rec.Municipality,
			"institution":     rec.Institution,
			"supervisor_name": rec.SupervisorName,
			"supervisor_id":   rec.SupervisorID,
			"updated_at":      gorm.Expr("NOW()"),
		}).Error
}

func (r *recordRepo) Delete(ctx context.Context, recordID uint64) error {
	return r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Delete(&model.Record{}).Error
}

func (r *recordRepo) List(ctx context.Context, offset, limit int) ([]model.Record, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Record{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.Record
	err := r.db.WithContext(ctx).
		Order("record_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	return records, total, err
}
