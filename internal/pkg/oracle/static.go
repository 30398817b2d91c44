package oracle

import (
	"context"
	"strings"
)

// StaticOracle 不访问外部服务的确定性实现，用于本地开发
// 命中 Blocklist 的内容判为 2 级并整体替换为第一个模板句子，否则原样返回
type StaticOracle struct {
	Blocklist []string
}

func NewStaticOracle(blocklist ...string) *StaticOracle {
	if len(blocklist) == 0 {
		blocklist = []string{"idiot", "stupid", "hate", "shut up"}
	}
	return &StaticOracle{Blocklist: blocklist}
}

var _ ClassificationOracle = (*StaticOracle)(nil)

func (o *StaticOracle) hits(text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, w := range o.Blocklist {
		if strings.Contains(lower, strings.ToLower(w)) {
			n++
		}
	}
	return n
}

func (o *StaticOracle) ClassifyAndRewrite(ctx context.Context, content string) (Classification, error) {
	if o.hits(content) == 0 {
		return Classification{RewrittenContent: content, NegativityLevel: 0, VisibilityLevel: 1}, nil
	}
	return Classification{RewrittenContent: TemplatePhrases[0], NegativityLevel: 2, VisibilityLevel: 3}, nil
}

func (o *StaticOracle) JudgeReport(ctx context.Context, req JudgeRequest) (Judgement, error) {
	n := o.hits(req.PostContent) + o.hits(req.AuthorName)
	if n == 0 {
		return Judgement{
			Explanation:    "No harmful content was found in the reported post.",
			JudgementScore: -1,
			Recommendation: Reject,
		}, nil
	}
	score := n + req.ReportWeight - 2
	if score > 10 {
		score = 10
	}
	j := Judgement{
		Explanation:    "The reported post contains hostile language.",
		JudgementScore: score,
		Recommendation: Approve,
	}
	switch {
	case score == 0:
		j.Recommendation = Watch
	case score < 0:
		j.Recommendation = Reject
	default:
		j.RewrittenPostContent = TemplatePhrases[0]
		j.RewrittenAuthorName = "friendly neighbour"
	}
	return j, nil
}
