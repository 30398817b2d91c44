package service

import (
	"context"
	"fmt"

	notificationService "trust_feed/internal/domain/notification/service"
	"trust_feed/internal/domain/post/model"
	"trust_feed/internal/domain/post/repository"
	profileRepository "trust_feed/internal/domain/profile/repository"
	"trust_feed/internal/pkg/apperr"
	"trust_feed/internal/pkg/oracle"
	"trust_feed/pkg/database"
	"trust_feed/pkg/logger"
	"trust_feed/pkg/metrics"
	"trust_feed/pkg/security"
	"trust_feed/pkg/trust"
	"trust_feed/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// negativityPenalty 负面等级对应的作者信任分变化
var negativityPenalty = [...]int{0, -2, -5, -10}

const (
	LikeReward      = 1
	SelfLikePenalty = -1
)

// NegativityDelta 返回负面等级对应的信任分变化
func NegativityDelta(level int) int {
	if level < 0 || level >= len(negativityPenalty) {
		return 0
	}
	return negativityPenalty[level]
}

type PostService interface {
	SubmitPost(ctx context.Context, authorID, content string, parentID *string) (model.SubmitResult, error)
	EditPost(ctx context.Context, userID, postID, content string) (model.SubmitResult, error)
	DeletePost(ctx context.Context, userID, postID string) error

	LikePost(ctx context.Context, userID, postID string) (model.LikeResult, error)
	UnlikePost(ctx context.Context, userID, postID string) (model.LikeResult, error)

	GetVisiblePost(ctx context.Context, viewerID, postID string) (model.PostView, error)
	Feed(ctx context.Context, viewerID string, p utils.Pagination) ([]model.PostView, int64, error)
	Replies(ctx context.Context, viewerID, postID string, p utils.Pagination) ([]model.PostView, int64, error)
}

type postService struct {
	repo     repository.PostRepository
	profiles profileRepository.ProfileRepository
	tx       database.Transactor
	oracle   oracle.ClassificationOracle
	notifier notificationService.Notifier
}

func NewPostService(
	repo repository.PostRepository,
	profiles profileRepository.ProfileRepository,
	tx database.Transactor,
	o oracle.ClassificationOracle,
	notifier notificationService.Notifier,
) PostService {
	return &postService{repo: repo, profiles: profiles, tx: tx, oracle: o, notifier: notifier}
}

// --- 发帖流水线 ---

func (s *postService) SubmitPost(ctx context.Context, authorID, content string, parentID *string) (model.SubmitResult, error) {
	const op = "post.submit"
	if authorID == "" {
		return model.SubmitResult{}, apperr.New(apperr.KindAuthenticationRequired, op, "login required")
	}
	if err := security.PostContent.Validate(content); err != nil {
		return model.SubmitResult{}, apperr.Validation(op, err.Error())
	}
	if _, err := s.profiles.GetByID(ctx, authorID); err != nil {
		return model.SubmitResult{}, translate(op, err, "profile not found")
	}
	if parentID != nil {
		if _, err := s.repo.GetByID(ctx, *parentID); err != nil {
			return model.SubmitResult{}, translate(op, err, "parent post not found")
		}
	}

	verdict, err := s.classify(ctx, op, content)
	if err != nil {
		return model.SubmitResult{}, err
	}

	post := &model.Post{
		AuthorID:        &authorID,
		Content:         finalContent(content, verdict),
		NegativityLevel: verdict.NegativityLevel,
		VisibilityLevel: &verdict.VisibilityLevel,
		ParentID:        parentID,
	}
	delta := NegativityDelta(verdict.NegativityLevel)

	var score int
	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, post); err != nil {
			return err
		}
		score, err = s.applyOrRead(ctx, s.profiles.WithTx(tx), authorID, delta)
		return err
	})
	if err != nil {
		return model.SubmitResult{}, translate(op, err, "profile not found")
	}

	s.afterClassified(ctx, authorID, post.ID, verdict.NegativityLevel, delta, score)
	return model.SubmitResult{
		ID:              post.ID,
		Content:         post.Content,
		NegativityLevel: post.NegativityLevel,
		VisibilityLevel: verdict.VisibilityLevel,
		AuthorTrust:     score,
	}, nil
}

// EditPost 只有作者可以编辑，编辑会重新走一遍分类并再次应用惩罚
func (s *postService) EditPost(ctx context.Context, userID, postID, content string) (model.SubmitResult, error) {
	const op = "post.edit"
	if userID == "" {
		return model.SubmitResult{}, apperr.New(apperr.KindAuthenticationRequired, op, "login required")
	}
	if err := security.PostContent.Validate(content); err != nil {
		return model.SubmitResult{}, apperr.Validation(op, err.Error())
	}
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return model.SubmitResult{}, translate(op, err, "post not found")
	}
	if !post.IsAuthor(userID) {
		return model.SubmitResult{}, apperr.Forbidden(op, "only the author can edit this post")
	}

	verdict, err := s.classify(ctx, op, content)
	if err != nil {
		return model.SubmitResult{}, err
	}

	final := finalContent(content, verdict)
	delta := NegativityDelta(verdict.NegativityLevel)

	var score int
	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateClassification(ctx, postID, final, verdict.NegativityLevel, verdict.VisibilityLevel); err != nil {
			return err
		}
		score, err = s.applyOrRead(ctx, s.profiles.WithTx(tx), userID, delta)
		return err
	})
	if err != nil {
		return model.SubmitResult{}, translate(op, err, "post not found")
	}

	s.afterClassified(ctx, userID, postID, verdict.NegativityLevel, delta, score)
	return model.SubmitResult{
		ID:              postID,
		Content:         final,
		NegativityLevel: verdict.NegativityLevel,
		VisibilityLevel: verdict.VisibilityLevel,
		AuthorTrust:     score,
	}, nil
}

func (s *postService) DeletePost(ctx context.Context, userID, postID string) error {
	const op = "post.delete"
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return translate(op, err, "post not found")
	}
	if !post.IsAuthor(userID) {
		return apperr.Forbidden(op, "only the author can delete this post")
	}
	if err := s.repo.Delete(ctx, postID); err != nil {
		return translate(op, err, "post not found")
	}
	logger.Log.Info("post deleted", zap.String("post_id", postID), zap.String("user_id", userID))
	return nil
}

func (s *postService) classify(ctx context.Context, op, content string) (oracle.Classification, error) {
	verdict, err := s.oracle.ClassifyAndRewrite(ctx, content)
	if err != nil {
		logger.Log.Warn("content classification failed", zap.String("op", op), zap.Error(err))
		return oracle.Classification{}, apperr.Classifier(op, err, oracle.IsTransient(err))
	}
	return verdict, nil
}

// finalContent 负面等级为 0 时保留原文
func finalContent(original string, verdict oracle.Classification) string {
	if verdict.NegativityLevel == 0 {
		return original
	}
	return verdict.RewrittenContent
}

// applyOrRead delta 为 0 时只读取当前分数
func (s *postService) applyOrRead(ctx context.Context, profiles profileRepository.ProfileRepository, userID string, delta int) (int, error) {
	if delta == 0 {
		return profiles.Score(ctx, userID)
	}
	return profiles.ApplyDelta(ctx, userID, delta)
}

func (s *postService) afterClassified(ctx context.Context, authorID, postID string, level, delta, score int) {
	metrics.PostNegativity.WithLabelValues(fmt.Sprint(level)).Inc()
	logger.Log.Info("post classified",
		zap.String("post_id", postID),
		zap.String("user_id", authorID),
		zap.Int("negativity_level", level),
		zap.Int("delta", delta),
		zap.Int("score", score),
	)
	if delta == 0 {
		return
	}
	metrics.TrustDeltas.WithLabelValues("negativity", metrics.Direction(delta)).Inc()
	s.notifier.Notify(ctx, authorID, fmt.Sprintf(
		"Your post was classified at negativity level %d and rewritten. Trust %d, your trust score is now %d.",
		level, delta, score))
}

// --- 点赞 ---

// LikePost 给自己点赞不会创建记录，但会扣 1 分
func (s *postService) LikePost(ctx context.Context, userID, postID string) (model.LikeResult, error) {
	const op = "post.like"
	if userID == "" {
		return model.LikeResult{}, apperr.New(apperr.KindAuthenticationRequired, op, "login required")
	}
	post, err := s.repo.GetWithAuthor(ctx, postID)
	if err != nil {
		return model.LikeResult{}, translate(op, err, "post not found")
	}

	if post.IsAuthor(userID) {
		score, err := s.profiles.ApplyDelta(ctx, userID, SelfLikePenalty)
		if err != nil {
			return model.LikeResult{}, translate(op, err, "profile not found")
		}
		metrics.TrustDeltas.WithLabelValues("self_like", metrics.Direction(SelfLikePenalty)).Inc()
		logger.Log.Info("self like penalised", zap.String("user_id", userID), zap.String("post_id", postID), zap.Int("score", score))
		return model.LikeResult{Liked: true, SelfLike: true}, nil
	}

	var score int
	rewarded := false
	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateLike(ctx, &model.Like{UserID: userID, PostID: postID}); err != nil {
			return err
		}
		// 作者账号已删除时只记录点赞
		if post.Author == nil {
			return nil
		}
		var err error
		score, err = s.profiles.WithTx(tx).ApplyDelta(ctx, post.Author.ID, LikeReward)
		if database.IsNotFound(err) {
			return nil
		}
		rewarded = err == nil
		return err
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.LikeResult{}, apperr.Conflict(op, "post already liked")
		}
		return model.LikeResult{}, translate(op, err, "post not found")
	}

	if rewarded {
		metrics.TrustDeltas.WithLabelValues("like", metrics.Direction(LikeReward)).Inc()
		liker := "Someone"
		if p, err := s.profiles.GetByID(ctx, userID); err == nil && p.Nickname != "" {
			liker = p.Nickname
		}
		s.notifier.Notify(ctx, post.Author.ID, fmt.Sprintf(
			"%s liked your post. Trust +%d, your trust score is now %d.", liker, LikeReward, score))
	}
	return model.LikeResult{Liked: true}, nil
}

// UnlikePost 只有真的删掉了点赞记录才撤回作者的 +1
func (s *postService) UnlikePost(ctx context.Context, userID, postID string) (model.LikeResult, error) {
	const op = "post.unlike"
	if userID == "" {
		return model.LikeResult{}, apperr.New(apperr.KindAuthenticationRequired, op, "login required")
	}
	post, err := s.repo.GetWithAuthor(ctx, postID)
	if err != nil {
		return model.LikeResult{}, translate(op, err, "post not found")
	}

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		removed, err := s.repo.WithTx(tx).DeleteLike(ctx, userID, postID)
		if err != nil || !removed || post.Author == nil {
			return err
		}
		_, err = s.profiles.WithTx(tx).ApplyDelta(ctx, post.Author.ID, -LikeReward)
		if database.IsNotFound(err) {
			return nil
		}
		if err == nil {
			metrics.TrustDeltas.WithLabelValues("unlike", metrics.Direction(-LikeReward)).Inc()
		}
		return err
	})
	if err != nil {
		return model.LikeResult{}, translate(op, err, "post not found")
	}
	return model.LikeResult{Liked: false}, nil
}

// --- 读取 ---

func (s *postService) viewerTier(ctx context.Context, op, viewerID string) (int, error) {
	if viewerID == "" {
		return 0, apperr.New(apperr.KindAuthenticationRequired, op, "login required")
	}
	score, err := s.profiles.Score(ctx, viewerID)
	if err != nil {
		return 0, translate(op, err, "profile not found")
	}
	return trust.MustCitizenTier(trust.Clamp(score)), nil
}

// GetVisiblePost 观看者等级不足时按不存在处理
func (s *postService) GetVisiblePost(ctx context.Context, viewerID, postID string) (model.PostView, error) {
	const op = "post.get"
	tier, err := s.viewerTier(ctx, op, viewerID)
	if err != nil {
		return model.PostView{}, err
	}
	post, err := s.repo.GetWithAuthor(ctx, postID)
	if err != nil {
		return model.PostView{}, translate(op, err, "post not found")
	}
	if !CanView(viewerID, &post.Post, tier) {
		return model.PostView{}, apperr.NotFound(op, "post not found")
	}

	counts, err := s.repo.CountLikes(ctx, []string{postID})
	if err != nil {
		return model.PostView{}, apperr.Persistence(op, err)
	}
	return present(viewerID, post, counts[postID]), nil
}

func (s *postService) Feed(ctx context.Context, viewerID string, p utils.Pagination) ([]model.PostView, int64, error) {
	return s.list(ctx, "post.feed", viewerID, nil, p)
}

func (s *postService) Replies(ctx context.Context, viewerID, postID string, p utils.Pagination) ([]model.PostView, int64, error) {
	const op = "post.replies"
	if _, err := s.GetVisiblePost(ctx, viewerID, postID); err != nil {
		return nil, 0, err
	}
	return s.list(ctx, op, viewerID, &postID, p)
}

func (s *postService) list(ctx context.Context, op, viewerID string, parentID *string, p utils.Pagination) ([]model.PostView, int64, error) {
	tier, err := s.viewerTier(ctx, op, viewerID)
	if err != nil {
		return nil, 0, err
	}
	offset := p.Offset()
	posts, total, err := s.repo.List(ctx, parentID, repository.VisibilityFilter{ViewerID: viewerID, ViewerTier: tier}, offset, p.Limit)
	if err != nil {
		return nil, 0, apperr.Persistence(op, err)
	}

	ids := make([]string, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}
	counts, err := s.repo.CountLikes(ctx, ids)
	if err != nil {
		return nil, 0, apperr.Persistence(op, err)
	}

	views := make([]model.PostView, 0, len(posts))
	for i := range posts {
		if !CanView(viewerID, &posts[i].Post, tier) {
			continue
		}
		views = append(views, present(viewerID, &posts[i], counts[posts[i].ID]))
	}
	return views, total, nil
}

func translate(op string, err error, notFoundMsg string) error {
	if database.IsNotFound(err) {
		return apperr.NotFound(op, notFoundMsg)
	}
	return apperr.Persistence(op, err)
}
