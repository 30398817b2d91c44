package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report 举报记录，(PostID, ReporterID) 唯一，且永不删除
type Report struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	PostID         string    `gorm:"type:uuid;not null;uniqueIndex:idx_reports_post_reporter" json:"postId"`
	ReporterID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_reports_post_reporter" json:"reporterId"`
	Reason         string    `gorm:"type:text;not null" json:"reason"`
	Explanation    string    `gorm:"type:text;not null" json:"explanation"`
	Recommendation string    `gorm:"type:varchar(16);not null;check:chk_reports_recommendation,recommendation IN ('approve','reject','watch')" json:"recommendation"`
	JudgementScore int       `gorm:"not null" json:"judgementScore"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// Outcome submitReport 的结果
type Outcome struct {
	ReportID       string `json:"reportId"`
	Recommendation string `json:"actionRecommendation"`
	Explanation    string `json:"explanation"`
	JudgementScore int    `json:"judgementScore"`
	ReporterTrust  int    `json:"reporterTrust"`
	AuthorTrust    int    `json:"authorTrust"`
}
