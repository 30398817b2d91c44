package service

import (
	"context"
	"fmt"
	"time"

	notificationService "trust_feed/internal/domain/notification/service"
	"trust_feed/internal/domain/profile/model"
	"trust_feed/internal/domain/profile/repository"
	"trust_feed/internal/pkg/apperr"
	"trust_feed/internal/pkg/oracle"
	"trust_feed/pkg/cache"
	"trust_feed/pkg/database"
	"trust_feed/pkg/logger"
	"trust_feed/pkg/metrics"
	"trust_feed/pkg/security"
	"trust_feed/pkg/trust"

	"go.uber.org/zap"
)

// NicknamePenalty 昵称被判定为不当时扣除的信任分
const NicknamePenalty = -5

const maxRankingLimit = 100

type ProfileService interface {
	CreateProfile(ctx context.Context, userID, nickname string) (model.View, error)
	GetProfile(ctx context.Context, userID string) (model.View, error)
	UpdateNickname(ctx context.Context, userID, nickname string) (model.View, error)
	Ranking(ctx context.Context, metric model.RankingMetric, limit int) ([]model.RankingRow, error)
}

// Options 可调参数
type Options struct {
	InitialTrust    int
	RankingCacheTTL time.Duration
}

type profileService struct {
	repo     repository.ProfileRepository
	oracle   oracle.ClassificationOracle
	notifier notificationService.Notifier
	cache    cache.CacheService
	opts     Options
}

func NewProfileService(
	repo repository.ProfileRepository,
	o oracle.ClassificationOracle,
	notifier notificationService.Notifier,
	c cache.CacheService,
	opts Options,
) ProfileService {
	return &profileService{repo: repo, oracle: o, notifier: notifier, cache: c, opts: opts}
}

func (s *profileService) CreateProfile(ctx context.Context, userID, nickname string) (model.View, error) {
	const op = "profile.create"
	if userID == "" {
		return model.View{}, apperr.New(apperr.KindAuthenticationRequired, op, "login required")
	}
	if err := security.Nickname.Validate(nickname); err != nil {
		return model.View{}, apperr.Validation(op, err.Error())
	}

	p := &model.Profile{Nickname: nickname, TrustScore: trust.Clamp(s.opts.InitialTrust)}
	p.ID = userID
	if err := s.repo.Create(ctx, p); err != nil {
		if database.IsUniqueViolation(err) {
			return model.View{}, apperr.Conflict(op, "profile already exists")
		}
		return model.View{}, apperr.Persistence(op, err)
	}

	logger.Log.Info("profile created", zap.String("user_id", userID), zap.Int("score", p.TrustScore))
	return p.ToView(), nil
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (model.View, error) {
	const op = "profile.get"
	p, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return model.View{}, translate(op, err)
	}
	return p.ToView(), nil
}

// UpdateNickname 新昵称先经过分类服务，判定为负面时拒绝并扣分
func (s *profileService) UpdateNickname(ctx context.Context, userID, nickname string) (model.View, error) {
	const op = "profile.updateNickname"
	if err := security.Nickname.Validate(nickname); err != nil {
		return model.View{}, apperr.Validation(op, err.Error())
	}
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return model.View{}, translate(op, err)
	}

	verdict, err := s.oracle.ClassifyAndRewrite(ctx, nickname)
	if err != nil {
		logger.Log.Warn("nickname classification failed", zap.String("user_id", userID), zap.Error(err))
		return model.View{}, apperr.Classifier(op, err, oracle.IsTransient(err))
	}

	if verdict.NegativityLevel > 0 {
		score, err := s.repo.ApplyDelta(ctx, userID, NicknamePenalty)
		if err != nil {
			return model.View{}, translate(op, err)
		}
		metrics.TrustDeltas.WithLabelValues("nickname", metrics.Direction(NicknamePenalty)).Inc()
		logger.Log.Info("nickname rejected",
			zap.String("user_id", userID),
			zap.Int("negativity_level", verdict.NegativityLevel),
			zap.Int("delta", NicknamePenalty),
			zap.Int("score", score),
		)
		s.notifier.Notify(ctx, userID, fmt.Sprintf(
			"Your nickname request was rejected as inappropriate (level %d). Your trust score is now %d.",
			verdict.NegativityLevel, score))
		return model.View{}, apperr.Validation(op, "nickname rejected as inappropriate")
	}

	if err := s.repo.UpdateNickname(ctx, userID, nickname); err != nil {
		return model.View{}, translate(op, err)
	}
	return s.GetProfile(ctx, userID)
}

func (s *profileService) Ranking(ctx context.Context, metric model.RankingMetric, limit int) ([]model.RankingRow, error) {
	const op = "profile.ranking"
	if metric == "" {
		metric = model.MetricTrustScore
	}
	if !metric.Valid() {
		return nil, apperr.Validation(op, fmt.Sprintf("unsupported metric %q", metric))
	}
	if limit <= 0 || limit > maxRankingLimit {
		limit = maxRankingLimit
	}

	key := fmt.Sprintf("ranking:%s:%d", metric, limit)
	var rows []model.RankingRow
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, &rows); err == nil {
			return rows, nil
		}
	}

	rows, err := s.repo.Ranking(ctx, metric, limit)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}

	if s.cache != nil && s.opts.RankingCacheTTL > 0 {
		if err := s.cache.Set(ctx, key, rows, s.opts.RankingCacheTTL); err != nil {
			logger.Log.Warn("cache ranking failed", zap.String("key", key), zap.Error(err))
		}
	}
	return rows, nil
}

func translate(op string, err error) error {
	if database.IsNotFound(err) {
		return apperr.NotFound(op, "profile not found")
	}
	return apperr.Persistence(op, err)
}
