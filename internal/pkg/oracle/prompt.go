package oracle

import (
	"fmt"
	"strings"
)

const classifyInstructions = `You moderate posts for a friendly social feed.
Classify the post and rewrite it when needed. Answer with JSON only, no prose:
{"rewritten_content": string, "negativity_level": 0-3, "visibility_level": 1-5}

negativity_level:
0 - nothing negative or harmful. rewritten_content must be the post unchanged, character for character.
1 - mild negativity, spam or meaningless text, non-malicious criticism. Rewrite positively keeping the original tone and length.
2 - clearly hostile, insulting or defamatory. Rewrite aggressively into a positive statement.
3 - strong insults, picking fights, attacks on the platform. Replace the whole post with exactly this sentence: %q

visibility_level:
1 - positive post suitable for every user.
2 - stable post suitable for almost every user, may include light adjustments.
3 - moderately adjusted post.
4 - post that should reach a limited audience, strong negativity may remain.
5 - heavily censored or intense content, only for the most trusted users.`

const judgeInstructions = `You adjudicate user reports against posts on a friendly social feed.
Evaluate the harm of the post and the author name (H_post, 0-5) and the quality of the report (B_report, 0-5).
A vague, spiteful or baseless report lowers B_report; a specific and neutral report raises it.
Trust correction W equals report_weight minus 2 (report_weight is 0-5, higher means the reporter is more trusted than the author).
community_signal summarises the trust of earlier reporters of the same post; use it as context only.

judgement_score = clamp(H_post - (5 - B_report) + W, -10, 10)
action_recommendation is "approve" when judgement_score > 0, "reject" when < 0, "watch" when 0.

When approving, rewrite the post into a kind statement and propose a harmless replacement author name.
Keep explanation between one and three sentences, addressed to the reporter.

Answer with JSON only, no prose:
{"judgement_score": int, "explanation": string, "action_recommendation": "approve"|"reject"|"watch",
 "rewritten_post_content": string, "rewritten_author_name": string}`

// ClassifyPrompt 分类 prompt，phrase 由 PickPhrase 选出
func ClassifyPrompt(phrase string) string {
	return fmt.Sprintf(classifyInstructions, phrase)
}

// JudgePrompt 举报判定 prompt
func JudgePrompt() string {
	return judgeInstructions
}

// JudgeInput 把举报信息序列化为 user message
func JudgeInput(req JudgeRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "post_content: %q\n", req.PostContent)
	fmt.Fprintf(&b, "report_reason: %q\n", req.ReportReason)
	fmt.Fprintf(&b, "report_weight: %d\n", req.ReportWeight)
	fmt.Fprintf(&b, "community_signal: %.4f\n", req.CommunitySignal)
	fmt.Fprintf(&b, "post_author_name: %q\n", req.AuthorName)
	return b.String()
}
