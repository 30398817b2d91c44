package model

import (
	baseModel "trust_feed/pkg/model"
	"trust_feed/pkg/trust"
)

// Profile 用户资料，ID 与认证系统中的用户ID一致
// TrustScore 只能通过 ProfileRepository.ApplyDelta 修改
type Profile struct {
	baseModel.BaseModel
	Nickname   string `gorm:"type:varchar(64);not null" json:"nickname"`
	TrustScore int    `gorm:"not null;check:chk_profiles_trust_score,trust_score >= 0 AND trust_score <= 100" json:"trustScore"`
}

// View 对外展示的资料
type View struct {
	ID          string `json:"id"`
	Nickname    string `json:"nickname"`
	TrustScore  int    `json:"trustScore"`
	CitizenTier int    `json:"citizenTier"`
	// Suspended 信任分降到 0，由外部路由决定是否限制访问
	Suspended bool `json:"suspended"`
}

// ToView 转换为展示结构
func (p *Profile) ToView() View {
	score := trust.Clamp(p.TrustScore)
	return View{
		ID:          p.ID,
		Nickname:    p.Nickname,
		TrustScore:  score,
		CitizenTier: trust.MustCitizenTier(score),
		Suspended:   score <= trust.MinScore,
	}
}

// RankingMetric 排行榜排序字段
type RankingMetric string

const (
	MetricTrustScore RankingMetric = "trust_score"
	MetricNumPosts   RankingMetric = "num_posts"
	MetricTotalLikes RankingMetric = "total_likes"
	MetricAvgLikes   RankingMetric = "avg_likes"
)

// Valid 是否为支持的排序字段
func (m RankingMetric) Valid() bool {
	switch m {
	case MetricTrustScore, MetricNumPosts, MetricTotalLikes, MetricAvgLikes:
		return true
	}
	return false
}

// RankingRow 排行榜一行
type RankingRow struct {
	ID          string  `json:"id"`
	Nickname    string  `json:"nickname"`
	TrustScore  int     `json:"trustScore"`
	CitizenTier int     `json:"citizenTier" gorm:"-"`
	NumPosts    int64   `json:"numPosts"`
	TotalLikes  int64   `json:"totalLikes"`
	AvgLikes    float64 `json:"avgLikes"`
}
