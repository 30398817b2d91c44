// Package oracle 定义内容分类服务的端口以及 Gemini / OpenAI 兼容接口 / 静态实现。
//
// 调用方只依赖 ClassificationOracle 接口；所有实现返回的数据都必须先经过
// ParseClassification / ParseJudgement 校验，校验失败一律返回 ErrInvalidResponse。
package oracle

import (
	"context"
	"errors"
	"net"
)

// Recommendation 举报处理建议
type Recommendation string

const (
	Approve Recommendation = "approve"
	Reject  Recommendation = "reject"
	Watch   Recommendation = "watch"
)

// Valid 是否为已知的建议值
func (r Recommendation) Valid() bool {
	switch r {
	case Approve, Reject, Watch:
		return true
	}
	return false
}

// Classification classifyAndRewrite 的结果
type Classification struct {
	RewrittenContent string `json:"rewritten_content"`
	NegativityLevel  int    `json:"negativity_level"`
	VisibilityLevel  int    `json:"visibility_level"`
}

// JudgeRequest judgeReport 的输入
type JudgeRequest struct {
	PostContent  string
	ReportWeight int // 归一化后的 0..5
	ReportReason string
	AuthorName   string
	// CommunitySignal 历史举报者的归一化信任信号，仅作为上下文
	CommunitySignal float64
}

// Judgement judgeReport 的结果
type Judgement struct {
	Explanation          string         `json:"explanation"`
	JudgementScore       int            `json:"judgement_score"`
	Recommendation       Recommendation `json:"action_recommendation"`
	RewrittenPostContent string         `json:"rewritten_post_content"`
	RewrittenAuthorName  string         `json:"rewritten_author_name"`
}

// ClassificationOracle 外部分类/改写服务
type ClassificationOracle interface {
	ClassifyAndRewrite(ctx context.Context, content string) (Classification, error)
	JudgeReport(ctx context.Context, req JudgeRequest) (Judgement, error)
}

var (
	// ErrInvalidResponse 返回内容不是合法 JSON 或不满足约束，不可重试
	ErrInvalidResponse = errors.New("oracle: invalid response")
	// ErrUnavailable 服务暂时不可用 (5xx / 429 / 网络错误)，可重试
	ErrUnavailable = errors.New("oracle: service unavailable")
)

// IsTransient 判断错误是否值得重试
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, ErrInvalidResponse) {
		return false
	}
	if errors.Is(err, ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
