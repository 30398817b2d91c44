package oracle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError 描述返回内容为什么不合法
type ParseError struct {
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("oracle: %s", e.Reason)
	}
	return fmt.Sprintf("oracle: field %q %s", e.Field, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrInvalidResponse }

// cleanJSON 去掉模型常见的 ```json 代码块包裹
func cleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// 指针字段用来区分"缺失"和"零值"
type rawClassification struct {
	RewrittenContent *string `json:"rewritten_content"`
	NegativityLevel  *int    `json:"negativity_level"`
	VisibilityLevel  *int    `json:"visibility_level"`
}

type rawJudgement struct {
	Explanation          *string `json:"explanation"`
	JudgementScore       *int    `json:"judgement_score"`
	Recommendation       *string `json:"action_recommendation"`
	RewrittenPostContent *string `json:"rewritten_post_content"`
	RewrittenAuthorName  *string `json:"rewritten_author_name"`
}

// ParseClassification 解析并校验 classifyAndRewrite 的返回
func ParseClassification(raw string) (Classification, error) {
	var r rawClassification
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &r); err != nil {
		return Classification{}, &ParseError{Reason: "response is not valid JSON: " + err.Error()}
	}
	switch {
	case r.NegativityLevel == nil:
		return Classification{}, &ParseError{Field: "negativity_level", Reason: "is missing"}
	case *r.NegativityLevel < 0 || *r.NegativityLevel > 3:
		return Classification{}, &ParseError{Field: "negativity_level", Reason: "must be within [0,3]"}
	case r.VisibilityLevel == nil:
		return Classification{}, &ParseError{Field: "visibility_level", Reason: "is missing"}
	case *r.VisibilityLevel < 1 || *r.VisibilityLevel > 5:
		return Classification{}, &ParseError{Field: "visibility_level", Reason: "must be within [1,5]"}
	case r.RewrittenContent == nil:
		return Classification{}, &ParseError{Field: "rewritten_content", Reason: "is missing"}
	case *r.NegativityLevel > 0 && strings.TrimSpace(*r.RewrittenContent) == "":
		return Classification{}, &ParseError{Field: "rewritten_content", Reason: "must not be empty when content is rewritten"}
	}
	return Classification{
		RewrittenContent: *r.RewrittenContent,
		NegativityLevel:  *r.NegativityLevel,
		VisibilityLevel:  *r.VisibilityLevel,
	}, nil
}

// ParseJudgement 解析并校验 judgeReport 的返回
// approve 时必须同时给出改写后的内容和昵称
func ParseJudgement(raw string) (Judgement, error) {
	var r rawJudgement
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &r); err != nil {
		return Judgement{}, &ParseError{Reason: "response is not valid JSON: " + err.Error()}
	}
	if r.Explanation == nil {
		return Judgement{}, &ParseError{Field: "explanation", Reason: "is missing"}
	}
	if r.JudgementScore == nil {
		return Judgement{}, &ParseError{Field: "judgement_score", Reason: "is missing"}
	}
	if *r.JudgementScore < -10 || *r.JudgementScore > 10 {
		return Judgement{}, &ParseError{Field: "judgement_score", Reason: "must be within [-10,10]"}
	}
	if r.Recommendation == nil {
		return Judgement{}, &ParseError{Field: "action_recommendation", Reason: "is missing"}
	}
	rec := Recommendation(strings.ToLower(strings.TrimSpace(*r.Recommendation)))
	if !rec.Valid() {
		return Judgement{}, &ParseError{Field: "action_recommendation", Reason: "must be one of approve, reject, watch"}
	}

	j := Judgement{
		Explanation:    *r.Explanation,
		JudgementScore: *r.JudgementScore,
		Recommendation: rec,
	}
	if r.RewrittenPostContent != nil {
		j.RewrittenPostContent = *r.RewrittenPostContent
	}
	if r.RewrittenAuthorName != nil {
		j.RewrittenAuthorName = *r.RewrittenAuthorName
	}
	if rec == Approve && j.JudgementScore != 0 {
		if strings.TrimSpace(j.RewrittenPostContent) == "" {
			return Judgement{}, &ParseError{Field: "rewritten_post_content", Reason: "is required for approve"}
		}
		if strings.TrimSpace(j.RewrittenAuthorName) == "" {
			return Judgement{}, &ParseError{Field: "rewritten_author_name", Reason: "is required for approve"}
		}
	}
	return j, nil
}
