package oracle

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"google.golang.org/genai"
)

// GeminiOracle 基于 Gemini 的分类实现
type GeminiOracle struct {
	client *genai.Client
	model  string

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGeminiOracle(ctx context.Context, apiKey, model string) (*GeminiOracle, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiOracle{
		client: client,
		model:  model,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

var _ ClassificationOracle = (*GeminiOracle)(nil)

func (o *GeminiOracle) ClassifyAndRewrite(ctx context.Context, content string) (Classification, error) {
	o.mu.Lock()
	phrase := PickPhrase(o.rnd)
	o.mu.Unlock()

	text, err := o.generate(ctx, ClassifyPrompt(phrase), content)
	if err != nil {
		return Classification{}, err
	}
	return ParseClassification(text)
}

func (o *GeminiOracle) JudgeReport(ctx context.Context, req JudgeRequest) (Judgement, error) {
	text, err := o.generate(ctx, JudgePrompt(), JudgeInput(req))
	if err != nil {
		return Judgement{}, err
	}
	return ParseJudgement(text)
}

func (o *GeminiOracle) generate(ctx context.Context, system, user string) (string, error) {
	temperature := float32(0)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		ResponseMIMEType:  "application/json",
		Temperature:       &temperature,
	}

	result, err := o.client.Models.GenerateContent(ctx, o.model, genai.Text(user), cfg)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil ||
		len(result.Candidates[0].Content.Parts) == 0 {
		return "", &ParseError{Reason: "empty response"}
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

// classifyGeminiError 按状态码把限流和服务端错误标记为可重试，连接级错误同样可重试
func classifyGeminiError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
