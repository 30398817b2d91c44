package repository

import (
	"context"
	"fmt"

	"trust_feed/internal/domain/profile/model"
	"trust_feed/pkg/trust"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(ctx context.Context, p *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	UpdateNickname(ctx context.Context, id, nickname string) error
	Count(ctx context.Context) (int64, error)
	// SumTrust 指定用户的信任分之和，不存在的用户不计入
	SumTrust(ctx context.Context, ids []string) (int64, error)
	Ranking(ctx context.Context, metric model.RankingMetric, limit int) ([]model.RankingRow, error)

	// 信任账本
	Score(ctx context.Context, id string) (int, error)
	ApplyDelta(ctx context.Context, id string, delta int) (int, error)

	WithTx(tx *gorm.DB) ProfileRepository
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) WithTx(tx *gorm.DB) ProfileRepository {
	return &profileRepository{db: tx}
}

func (r *profileRepository) Create(ctx context.Context, p *model.Profile) error {
	p.TrustScore = trust.Clamp(p.TrustScore)
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) UpdateNickname(ctx context.Context, id, nickname string) error {
	result := r.db.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", id).Update("nickname", nickname)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *profileRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Profile{}).Count(&total).Error
	return total, err
}

func (r *profileRepository) SumTrust(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var sum int64
	err := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id IN ?", ids).
		Select("COALESCE(SUM(trust_score), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *profileRepository) Score(ctx context.Context, id string) (int, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).Select("trust_score").Where("id = ?", id).Take(&p).Error; err != nil {
		return 0, err
	}
	return p.TrustScore, nil
}

var clampExpr = fmt.Sprintf(
	"CASE WHEN trust_score + ? < %[1]d THEN %[1]d WHEN trust_score + ? > %[2]d THEN %[2]d ELSE trust_score + ? END",
	trust.MinScore, trust.MaxScore,
)

// ApplyDelta 在数据库侧完成 clamp(trust_score + delta, 0, 100)，不会先读后写
// 返回更新后的分数；用户不存在时返回 gorm.ErrRecordNotFound
func (r *profileRepository) ApplyDelta(ctx context.Context, id string, delta int) (int, error) {
	var score int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Profile{}).
			Where("id = ?", id).
			UpdateColumn("trust_score", gorm.Expr(clampExpr, delta, delta, delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var p model.Profile
		if err := tx.Select("trust_score").Where("id = ?", id).Take(&p).Error; err != nil {
			return err
		}
		score = p.TrustScore
		return nil
	})
	return score, err
}

var rankingOrder = map[model.RankingMetric]string{
	model.MetricTrustScore: "trust_score DESC",
	model.MetricNumPosts:   "num_posts DESC",
	model.MetricTotalLikes: "total_likes DESC",
	model.MetricAvgLikes:   "avg_likes DESC",
}

const rankingSQL = `
SELECT r.id, r.nickname, r.trust_score, r.num_posts, r.total_likes,
       CASE WHEN r.num_posts = 0 THEN 0.0 ELSE CAST(r.total_likes AS REAL) / r.num_posts END AS avg_likes
FROM (
    SELECT p.id, p.nickname, p.trust_score,
           (SELECT COUNT(*) FROM posts WHERE posts.author_id = p.id AND posts.deleted_at IS NULL) AS num_posts,
           (SELECT COUNT(*) FROM likes JOIN posts ON likes.post_id = posts.id
             WHERE posts.author_id = p.id AND posts.deleted_at IS NULL) AS total_likes
    FROM profiles p
    WHERE p.deleted_at IS NULL
) r
ORDER BY %s, r.id
LIMIT ?`

func (r *profileRepository) Ranking(ctx context.Context, metric model.RankingMetric, limit int) ([]model.RankingRow, error) {
	order, ok := rankingOrder[metric]
	if !ok {
		return nil, fmt.Errorf("unsupported ranking metric %q", metric)
	}

	var rows []model.RankingRow
	if err := r.db.WithContext(ctx).Raw(fmt.Sprintf(rankingSQL, order), limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].CitizenTier = trust.MustCitizenTier(trust.Clamp(rows[i].TrustScore))
	}
	return rows, nil
}
