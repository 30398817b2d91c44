package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	notificationService "trust_feed/internal/domain/notification/service"
	postModel "trust_feed/internal/domain/post/model"
	postRepository "trust_feed/internal/domain/post/repository"
	profileRepository "trust_feed/internal/domain/profile/repository"
	"trust_feed/internal/domain/report/model"
	"trust_feed/internal/domain/report/repository"
	"trust_feed/internal/pkg/apperr"
	"trust_feed/internal/pkg/lock"
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

// 举报结果对应的信任分变化
const (
	ReporterReward  = 5
	ReporterPenalty = -5
	// ApproveMultiplier 举报成立时作者扣 |judgementScore| * 2
	ApproveMultiplier = 2
)

const defaultLockTTL = 30 * time.Second

type Options struct {
	// LockTTL 同一 (post, reporter) 的处理锁
	LockTTL time.Duration
	// CommunityDivisor 历史举报者信任信号的归一化除数
	CommunityDivisor float64
}

type ReportService interface {
	SubmitReport(ctx context.Context, reporterID, postID, reason string) (model.Outcome, error)
	// ListReports 动态作者查看自己动态收到的举报
	ListReports(ctx context.Context, viewerID, postID string, p utils.Pagination) ([]model.Report, int64, error)
}

type reportService struct {
	reports  repository.ReportRepository
	posts    postRepository.PostRepository
	profiles profileRepository.ProfileRepository
	tx       database.Transactor
	oracle   oracle.ClassificationOracle
	locker   lock.Locker
	notifier notificationService.Notifier
	opts     Options
}

func NewReportService(
	reports repository.ReportRepository,
	posts postRepository.PostRepository,
	profiles profileRepository.ProfileRepository,
	tx database.Transactor,
	o oracle.ClassificationOracle,
	locker lock.Locker,
	notifier notificationService.Notifier,
	opts Options,
) ReportService {
	if opts.LockTTL <= 0 {
		opts.LockTTL = defaultLockTTL
	}
	return &reportService{
		reports:  reports,
		posts:    posts,
		profiles: profiles,
		tx:       tx,
		oracle:   o,
		locker:   locker,
		notifier: notifier,
		opts:     opts,
	}
}

// submission 一次举报在各个状态之间传递的数据
type submission struct {
	reporterID string
	reason     string
	post       *postModel.PostWithAuthor

	reporterTrust   int
	authorTrust     int
	weight          int
	normalized      int
	communitySignal float64

	judgement      oracle.Judgement
	recommendation oracle.Recommendation

	reporterDelta int
	authorDelta   int
}

func (s *submission) authorID() string { return s.post.Author.ID }

// SubmitReport Validated -> Scored -> Judged -> Applied -> Persisted
// 任一状态失败都直接返回，不会进入下一个状态
func (s *reportService) SubmitReport(ctx context.Context, reporterID, postID, reason string) (model.Outcome, error) {
	const op = "report.submit"
	if reporterID == "" {
		return model.Outcome{}, apperr.New(apperr.KindAuthenticationRequired, op, "login required")
	}
	if err := security.ReportReason.Validate(reason); err != nil {
		return model.Outcome{}, apperr.Validation(op, err.Error())
	}

	release, err := s.locker.Acquire(ctx, fmt.Sprintf("report:%s:%s", postID, reporterID), s.opts.LockTTL)
	switch {
	case errors.Is(err, lock.ErrNotAcquired):
		return model.Outcome{}, apperr.New(apperr.KindDuplicateReport, op, "report already in progress")
	case err != nil:
		// 锁服务不可用时继续处理，由唯一索引兜底
		logger.Log.Warn("acquire report lock failed", zap.String("post_id", postID), zap.Error(err))
	default:
		defer release()
	}

	sub := &submission{reporterID: reporterID, reason: reason}
	if err := s.validate(ctx, op, sub, postID); err != nil {
		return model.Outcome{}, err
	}
	if err := s.score(ctx, op, sub); err != nil {
		return model.Outcome{}, err
	}
	if err := s.judge(ctx, op, sub); err != nil {
		return model.Outcome{}, err
	}

	report, err := s.applyAndPersist(ctx, op, sub)
	if err != nil {
		return model.Outcome{}, err
	}

	s.notify(ctx, sub)
	metrics.ReportOutcomes.WithLabelValues(string(sub.recommendation)).Inc()
	logger.Log.Info("report persisted",
		zap.String("report_id", report.ID),
		zap.String("post_id", postID),
		zap.String("reporter_id", reporterID),
		zap.String("recommendation", string(sub.recommendation)),
		zap.Int("judgement_score", sub.judgement.JudgementScore),
		zap.Int("reporter_trust", sub.reporterTrust),
		zap.Int("author_trust", sub.authorTrust),
	)

	return model.Outcome{
		ReportID:       report.ID,
		Recommendation: string(sub.recommendation),
		Explanation:    sub.judgement.Explanation,
		JudgementScore: sub.judgement.JudgementScore,
		ReporterTrust:  sub.reporterTrust,
		AuthorTrust:    sub.authorTrust,
	}, nil
}

// validate 顺序：重复举报、动态不存在、举报自己
func (s *reportService) validate(ctx context.Context, op string, sub *submission, postID string) error {
	exists, err := s.reports.Exists(ctx, postID, sub.reporterID)
	if err != nil {
		return apperr.Persistence(op, err)
	}
	if exists {
		return apperr.New(apperr.KindDuplicateReport, op, "post already reported")
	}

	post, err := s.posts.GetWithAuthor(ctx, postID)
	if err != nil {
		return translate(op, err, "post not found")
	}
	if post.IsAuthor(sub.reporterID) {
		return apperr.New(apperr.KindSelfReport, op, "cannot report your own post")
	}
	// 作者已删除的动态没有可以调整的信任分
	if post.AuthorRemoved() {
		return apperr.NotFound(op, "post not found")
	}
	sub.post = post

	logger.Log.Debug("report validated", zap.String("post_id", postID), zap.String("reporter_id", sub.reporterID))
	return nil
}

func (s *reportService) score(ctx context.Context, op string, sub *submission) error {
	var err error
	if sub.reporterTrust, err = s.profiles.Score(ctx, sub.reporterID); err != nil {
		return translate(op, err, "reporter profile not found")
	}
	if sub.authorTrust, err = s.profiles.Score(ctx, sub.authorID()); err != nil {
		return translate(op, err, "post not found")
	}
	sub.weight = sub.reporterTrust - sub.authorTrust
	sub.normalized = trust.NormalizeReportWeight(sub.weight)

	prior, err := s.reports.PriorReporterIDs(ctx, sub.post.ID)
	if err != nil {
		return apperr.Persistence(op, err)
	}
	sum, err := s.profiles.SumTrust(ctx, prior)
	if err != nil {
		return apperr.Persistence(op, err)
	}
	users, err := s.profiles.Count(ctx)
	if err != nil {
		return apperr.Persistence(op, err)
	}
	sub.communitySignal = trust.CommunitySignal(sum, users, s.opts.CommunityDivisor)

	logger.Log.Debug("report scored",
		zap.String("post_id", sub.post.ID),
		zap.Int("report_weight", sub.weight),
		zap.Int("normalized_weight", sub.normalized),
		zap.Int("prior_reporters", len(prior)),
		zap.Float64("community_signal", sub.communitySignal),
	)
	return nil
}

func (s *reportService) judge(ctx context.Context, op string, sub *submission) error {
	j, err := s.oracle.JudgeReport(ctx, oracle.JudgeRequest{
		PostContent:     sub.post.Content,
		ReportWeight:    sub.normalized,
		ReportReason:    sub.reason,
		AuthorName:      sub.post.Author.Nickname,
		CommunitySignal: sub.communitySignal,
	})
	if err != nil {
		logger.Log.Warn("report judgement failed", zap.String("post_id", sub.post.ID), zap.Error(err))
		return apperr.Classifier(op, err, oracle.IsTransient(err))
	}

	rec, err := Resolve(j)
	if err != nil {
		logger.Log.Warn("report judgement rejected", zap.String("post_id", sub.post.ID), zap.Error(err))
		return apperr.Classifier(op, err, false)
	}
	sub.judgement = j
	sub.recommendation = rec
	sub.reporterDelta, sub.authorDelta = Deltas(rec, j.JudgementScore)

	logger.Log.Debug("report judged",
		zap.String("post_id", sub.post.ID),
		zap.String("recommendation", string(rec)),
		zap.Int("judgement_score", j.JudgementScore),
	)
	return nil
}

// Resolve 得出最终处理建议，judgementScore 为 0 时一律为 watch
func Resolve(j oracle.Judgement) (oracle.Recommendation, error) {
	if j.JudgementScore == 0 {
		return oracle.Watch, nil
	}
	if !j.Recommendation.Valid() {
		return "", &oracle.ParseError{Field: "action_recommendation", Reason: fmt.Sprintf("unknown value %q", j.Recommendation)}
	}
	if j.Recommendation == oracle.Approve && (j.RewrittenPostContent == "" || j.RewrittenAuthorName == "") {
		return "", &oracle.ParseError{Field: "rewritten_post_content", Reason: "is required when approving"}
	}
	return j.Recommendation, nil
}

// Deltas 返回 (举报者, 作者) 的信任分变化
func Deltas(rec oracle.Recommendation, judgementScore int) (reporter, author int) {
	magnitude := trust.Abs(judgementScore)
	switch rec {
	case oracle.Reject:
		return ReporterPenalty, 0
	case oracle.Approve:
		return ReporterReward, -magnitude * ApproveMultiplier
	default:
		return magnitude / 2, -(magnitude / 2)
	}
}

// applyAndPersist 信任分、内容修改与举报记录在同一个事务里
func (s *reportService) applyAndPersist(ctx context.Context, op string, sub *submission) (*model.Report, error) {
	report := &model.Report{
		PostID:         sub.post.ID,
		ReporterID:     sub.reporterID,
		Reason:         sub.reason,
		Explanation:    sub.judgement.Explanation,
		Recommendation: string(sub.recommendation),
		JudgementScore: sub.judgement.JudgementScore,
	}

	var reporterTrust, authorTrust int
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		profiles := s.profiles.WithTx(tx)

		var err error
		if reporterTrust, err = applyOrRead(ctx, profiles, sub.reporterID, sub.reporterDelta); err != nil {
			return err
		}
		if authorTrust, err = applyOrRead(ctx, profiles, sub.authorID(), sub.authorDelta); err != nil {
			return err
		}

		if sub.recommendation == oracle.Approve {
			if err := s.posts.WithTx(tx).OverwriteContent(ctx, sub.post.ID, truncate(sub.judgement.RewrittenPostContent, postModel.MaxContentLength)); err != nil {
				return err
			}
			if err := profiles.UpdateNickname(ctx, sub.authorID(), truncate(sub.judgement.RewrittenAuthorName, security.Nickname.MaxLength)); err != nil {
				return err
			}
		}

		return s.reports.WithTx(tx).Create(ctx, report)
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.KindDuplicateReport, op, "post already reported")
		}
		logger.Log.Error("apply report outcome failed",
			zap.String("post_id", sub.post.ID),
			zap.String("reporter_id", sub.reporterID),
			zap.Error(err),
		)
		return nil, translate(op, err, "post not found")
	}

	sub.reporterTrust, sub.authorTrust = reporterTrust, authorTrust
	recordDelta(sub.recommendation, sub.reporterDelta)
	recordDelta(sub.recommendation, sub.authorDelta)
	return report, nil
}

func applyOrRead(ctx context.Context, profiles profileRepository.ProfileRepository, id string, delta int) (int, error) {
	if delta == 0 {
		return profiles.Score(ctx, id)
	}
	return profiles.ApplyDelta(ctx, id, delta)
}

func recordDelta(rec oracle.Recommendation, delta int) {
	if delta != 0 {
		metrics.TrustDeltas.WithLabelValues("report_"+string(rec), metrics.Direction(delta)).Inc()
	}
}

func (s *reportService) notify(ctx context.Context, sub *submission) {
	authorID := sub.authorID()
	switch sub.recommendation {
	case oracle.Reject:
		s.notifier.Notify(ctx, sub.reporterID, fmt.Sprintf(
			"Your report (%q) was dismissed. Trust %d, your trust score is now %d.",
			sub.reason, sub.reporterDelta, sub.reporterTrust))
		s.notifier.Notify(ctx, authorID,
			"A report against your post was dismissed. Your trust score did not change.")
	case oracle.Approve:
		s.notifier.Notify(ctx, sub.reporterID, fmt.Sprintf(
			"Your report was upheld. Trust +%d, your trust score is now %d.",
			sub.reporterDelta, sub.reporterTrust))
		s.notifier.Notify(ctx, authorID, fmt.Sprintf(
			"A report against your post was upheld. Your post and nickname were rewritten. Trust %d, your trust score is now %d.",
			sub.authorDelta, sub.authorTrust))
	default:
		s.notifier.Notify(ctx, sub.reporterID, fmt.Sprintf(
			"Thanks for your report. The post is under continued monitoring. Trust +%d, your trust score is now %d.",
			sub.reporterDelta, sub.reporterTrust))
		s.notifier.Notify(ctx, authorID, fmt.Sprintf(
			"Your post was reported and is under continued monitoring. Trust %d, your trust score is now %d.",
			sub.authorDelta, sub.authorTrust))
	}
}

func (s *reportService) ListReports(ctx context.Context, viewerID, postID string, p utils.Pagination) ([]model.Report, int64, error) {
	const op = "report.list"
	if viewerID == "" {
		return nil, 0, apperr.New(apperr.KindAuthenticationRequired, op, "login required")
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, 0, translate(op, err, "post not found")
	}
	if !post.IsAuthor(viewerID) {
		return nil, 0, apperr.Forbidden(op, "only the author can view reports of this post")
	}

	offset := p.Offset()
	list, total, err := s.reports.ListByPost(ctx, postID, offset, p.Limit)
	if err != nil {
		return nil, 0, apperr.Persistence(op, err)
	}
	return list, total, nil
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func translate(op string, err error, notFoundMsg string) error {
	if database.IsNotFound(err) {
		return apperr.NotFound(op, notFoundMsg)
	}
	return apperr.Persistence(op, err)
}
