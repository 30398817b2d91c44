package repository

import (
	"context"

	"trust_feed/internal/domain/report/model"

	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, r *model.Report) error
	Exists(ctx context.Context, postID, reporterID string) (bool, error)
	// PriorReporterIDs 已经举报过该动态的用户
	PriorReporterIDs(ctx context.Context, postID string) ([]string, error)
	ListByPost(ctx context.Context, postID string, offset, limit int) ([]model.Report, int64, error)

	WithTx(tx *gorm.DB) ReportRepository
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) WithTx(tx *gorm.DB) ReportRepository {
	return &reportRepository{db: tx}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) Exists(ctx context.Context, postID, reporterID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Report{}).
		Where("post_id = ? AND reporter_id = ?", postID, reporterID).
		Count(&n).Error
	return n > 0, err
}

func (r *reportRepository) PriorReporterIDs(ctx context.Context, postID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Report{}).
		Where("post_id = ?", postID).
		Pluck("reporter_id", &ids).Error
	return ids, err
}

func (r *reportRepository) ListByPost(ctx context.Context, postID string, offset, limit int) ([]model.Report, int64, error) {
	var list []model.Report
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Report{}).Where("post_id = ?", postID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
